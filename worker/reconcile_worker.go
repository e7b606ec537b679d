package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

// ReconcileWorker periodically re-derives every project's progress.
// Task mutations recompute progress without a transaction, so a
// concurrent pair of mutations can leave a stale value behind; this
// loop repairs that drift. It also mails assignees of tasks due within
// the next day when SMTP is configured.
type ReconcileWorker struct {
	DB       *gorm.DB
	Mailer   *utils.Mailer
	Logger   *log.Logger
	Interval time.Duration

	reminded map[string]struct{}
}

func NewReconcileWorker(db *gorm.DB, mailer *utils.Mailer, logger *log.Logger, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		DB:       db,
		Mailer:   mailer,
		Logger:   logger,
		Interval: interval,
		reminded: make(map[string]struct{}),
	}
}

func (rw *ReconcileWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(5 * time.Second)

	rw.Logger.Println("Reconcile worker started")

	ticker := time.NewTicker(rw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rw.Logger.Println("Reconcile worker shutting down...")
			return
		case <-ticker.C:
			rw.reconcileProgress()
			rw.sendDueReminders()
		}
	}
}

func (rw *ReconcileWorker) reconcileProgress() {
	var projects []models.Project
	if err := rw.DB.Find(&projects).Error; err != nil {
		rw.Logger.Printf("Error loading projects: %v", err)
		return
	}

	fixed := 0
	for _, project := range projects {
		var tasks []models.Task
		if err := rw.DB.Where("project_id = ?", project.ID).Find(&tasks).Error; err != nil {
			rw.Logger.Printf("Error loading tasks for project %d: %v", project.ID, err)
			continue
		}

		pct := utils.ProjectProgress(tasks)
		if pct == project.Progress {
			continue
		}
		if err := rw.DB.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Update("progress", pct).Error; err != nil {
			rw.Logger.Printf("Error updating progress for project %d: %v", project.ID, err)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		logrus.WithFields(logrus.Fields{
			"projects": len(projects),
			"repaired": fixed,
		}).Info("progress reconciliation pass complete")
	}
}

func (rw *ReconcileWorker) sendDueReminders() {
	if !rw.Mailer.Enabled() {
		return
	}

	cutoff := time.Now().Add(24 * time.Hour)
	var tasks []models.Task
	if err := rw.DB.Preload("Assignees").Preload("Project").
		Where("due_date IS NOT NULL AND due_date <= ? AND due_date >= ? AND status <> ?",
			cutoff, time.Now(), models.TaskDone).
		Find(&tasks).Error; err != nil {
		rw.Logger.Printf("Error loading due tasks: %v", err)
		return
	}

	today := time.Now().Format("2006-01-02")
	for _, task := range tasks {
		key := fmt.Sprintf("%d:%s", task.ID, today)
		if _, done := rw.reminded[key]; done {
			continue
		}

		recipients := make([]string, 0, len(task.Assignees))
		for _, a := range task.Assignees {
			recipients = append(recipients, a.Email)
		}
		if len(recipients) == 0 {
			continue
		}

		projectName := ""
		if task.Project != nil {
			projectName = task.Project.Name
		}
		if err := rw.Mailer.SendTaskReminder(&task, projectName, recipients); err != nil {
			rw.Logger.Printf("Error sending reminder for task %d: %v", task.ID, err)
			continue
		}
		rw.reminded[key] = struct{}{}
	}
}

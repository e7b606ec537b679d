package utils

import (
	"math"

	"gorm.io/gorm"

	"taskhive/models"
)

// StatusWeight maps a task status to its contribution towards project
// completion. The ordering todo < in-progress < review < done matters
// only for this mapping; it implies no workflow.
func StatusWeight(s models.TaskStatus) int {
	switch s {
	case models.TaskTodo:
		return 0
	case models.TaskInProgress:
		return 25
	case models.TaskReview:
		return 75
	case models.TaskDone:
		return 100
	}
	return 0
}

// ProjectProgress computes the integer completion percentage for a set
// of tasks: the rounded mean of the status weights. A project with no
// tasks is 0% complete.
func ProjectProgress(tasks []models.Task) int {
	sum := 0
	for _, t := range tasks {
		sum += StatusWeight(t.Status)
	}
	n := len(tasks)
	if n == 0 {
		n = 1
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// RecalculateProgress re-reads the project's full task list, derives the
// percentage and persists it. Called after every task mutation; the full
// re-read trades performance for correctness.
func RecalculateProgress(db *gorm.DB, projectID uint) error {
	var tasks []models.Task
	if err := db.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return err
	}
	pct := ProjectProgress(tasks)
	return db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("progress", pct).Error
}

package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

type CalendarController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCalendarController(db *gorm.DB, logger *log.Logger) *CalendarController {
	return &CalendarController{
		DB:     db,
		Logger: logger,
	}
}

// GetCalendar returns the caller's role-scoped projects and tasks for
// due-date display. Projects use the usual visibility scope. Tasks:
// admins see all; members see tasks assigned to them; leaders see tasks
// assigned to them plus every task in a project within their scope.
func (cc *CalendarController) GetCalendar(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var projects []models.Project
	if err := scopedProjects(cc.DB.Model(&models.Project{}), user).
		Preload("Members").
		Find(&projects).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load calendar", err)
	}

	taskQuery := cc.DB.Preload("Assignees")
	switch user.Role {
	case models.RoleAdmin:
		// all tasks
	case models.RoleLeader:
		projectIDs := make([]uint, 0, len(projects))
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
		taskQuery = taskQuery.Where(
			"project_id IN ? OR id IN (SELECT task_id FROM task_assignees WHERE user_id = ?)",
			projectIDs, user.ID,
		)
	default:
		taskQuery = taskQuery.Where(
			"id IN (SELECT task_id FROM task_assignees WHERE user_id = ?)", user.ID,
		)
	}

	var tasks []models.Task
	if err := taskQuery.Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load calendar", err)
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"tasks":    tasks,
	})
}

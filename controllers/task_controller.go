package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/policy"
	"taskhive/utils"
)

type TaskController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Hub    *EventHub
}

func NewTaskController(db *gorm.DB, logger *log.Logger, hub *EventHub) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
		Hub:    hub,
	}
}

// ListTasks returns tasks, optionally filtered by project. Listing is
// not role-scoped; any authenticated caller sees every task.
func (tc *TaskController) ListTasks(c *fiber.Ctx) error {
	query := tc.DB.Preload("Assignees").Preload("Project")
	if projectID := c.Query("projectId"); projectID != "" {
		query = query.Where("project_id = ?", utils.ParseUint(projectID))
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tasks", err)
	}
	return c.JSON(tasks)
}

type TaskCreateRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description"`
	ProjectID   uint                `json:"projectId" validate:"required"`
	Priority    models.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeIDs interface{}         `json:"assigneeIds"`
	DueDate     *time.Time          `json:"dueDate"`
}

// CreateTask creates a task under an existing project and recomputes
// that project's progress from the resulting task set.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	var req TaskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing fields", nil)
	}

	var project models.Project
	if err := tc.DB.First(&project, req.ProjectID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskTodo,
		Priority:    priority,
		ProjectID:   req.ProjectID,
		Assignees:   usersFromIDs(utils.ParseAssigneeIDs(req.AssigneeIDs)),
		DueDate:     req.DueDate,
	}
	if err := tc.DB.Omit("Assignees.*").Create(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	if err := utils.RecalculateProgress(tc.DB, task.ProjectID); err != nil {
		logrus.WithFields(logrus.Fields{
			"project_id": task.ProjectID,
			"task_id":    task.ID,
		}).Error("progress recompute failed: ", err)
	}

	tc.Hub.Publish("task.created", task.ID)
	return c.Status(fiber.StatusCreated).JSON(task)
}

type TaskUpdateRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	ProjectID   *uint                `json:"projectId"`
	AssigneeIDs interface{}          `json:"assigneeIds"`
	DueDate     *time.Time           `json:"dueDate"`
}

// UpdateTask applies a partial update after checking that the caller is
// an admin, the leader of the owning project, or an assignee. Moving a
// task to another project is not supported: the derived progress of
// both projects cannot be kept consistent through such a move.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	id := utils.ParseUint(c.Params("id"))

	var task models.Task
	if err := tc.DB.Preload("Assignees").First(&task, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var project models.Project
	if err := tc.DB.First(&project, task.ProjectID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load project", err)
	}

	if !policy.CanUpdateTask(user.Role, user.ID, project.LeaderID, task.AssigneeIDs) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	var req TaskUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.ProjectID != nil && *req.ProjectID != task.ProjectID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Tasks cannot move between projects", nil)
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task status", nil)
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task priority", nil)
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := tc.DB.Omit("Assignees").Save(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	if req.AssigneeIDs != nil {
		assignees := usersFromIDs(utils.ParseAssigneeIDs(req.AssigneeIDs))
		if err := tc.DB.Model(&task).Association("Assignees").Replace(assignees); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update assignees", err)
		}
	}

	if err := utils.RecalculateProgress(tc.DB, task.ProjectID); err != nil {
		logrus.WithFields(logrus.Fields{
			"project_id": task.ProjectID,
			"task_id":    task.ID,
		}).Error("progress recompute failed: ", err)
	}

	var updated models.Task
	if err := tc.DB.Preload("Assignees").Preload("Project").First(&updated, task.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load task", err)
	}

	tc.Hub.Publish("task.updated", updated.ID)
	return c.JSON(updated)
}

// DeleteTask removes a task if the caller is an admin or the leader of
// the owning project, then recomputes the project's progress.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	id := utils.ParseUint(c.Params("id"))

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var project models.Project
	if err := tc.DB.First(&project, task.ProjectID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load project", err)
	}

	if !policy.CanDeleteTask(user.Role, user.ID, project.LeaderID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	projectID := task.ProjectID
	if err := tc.DB.Exec("DELETE FROM task_assignees WHERE task_id = ?", task.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}
	if err := tc.DB.Delete(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	if err := utils.RecalculateProgress(tc.DB, projectID); err != nil {
		logrus.WithFields(logrus.Fields{
			"project_id": projectID,
			"task_id":    id,
		}).Error("progress recompute failed: ", err)
	}

	tc.Hub.Publish("task.deleted", id)
	return c.JSON(fiber.Map{"message": "Task removed"})
}

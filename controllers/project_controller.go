package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

type ProjectController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Hub    *EventHub
}

func NewProjectController(db *gorm.DB, logger *log.Logger, hub *EventHub) *ProjectController {
	return &ProjectController{
		DB:     db,
		Logger: logger,
		Hub:    hub,
	}
}

// scopedProjects narrows a project query to what the user's role may
// see. This mirrors the visibility table in the policy package: admin
// sees all, leader sees led-or-joined, member sees joined.
func scopedProjects(db *gorm.DB, user *models.User) *gorm.DB {
	switch user.Role {
	case models.RoleAdmin:
		return db
	case models.RoleLeader:
		return db.Where(
			"projects.leader_id = ? OR projects.id IN (SELECT project_id FROM project_members WHERE user_id = ?)",
			user.ID, user.ID,
		)
	default:
		return db.Where(
			"projects.id IN (SELECT project_id FROM project_members WHERE user_id = ?)",
			user.ID,
		)
	}
}

// ListProjects returns the caller's role-scoped project list with
// leader and members populated.
func (pc *ProjectController) ListProjects(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var projects []models.Project
	if err := scopedProjects(pc.DB.Model(&models.Project{}), user).
		Preload("Leader").
		Preload("Members").
		Find(&projects).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list projects", err)
	}

	return c.JSON(projects)
}

// GetProject returns a single project if it falls within the caller's
// scope; out-of-scope projects are reported as missing.
func (pc *ProjectController) GetProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	id := utils.ParseUint(c.Params("id"))

	var project models.Project
	if err := scopedProjects(pc.DB, user).
		Preload("Leader").
		Preload("Members").
		First(&project, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	return c.JSON(project)
}

type ProjectCreateRequest struct {
	Name        string               `json:"name" validate:"required,max=200"`
	Description string               `json:"description"`
	LeaderID    uint                 `json:"leaderId" validate:"required"`
	MemberIDs   []uint               `json:"memberIds"`
	Status      models.ProjectStatus `json:"status" validate:"omitempty,oneof=planning in-progress completed on-hold"`
	StartDate   *time.Time           `json:"startDate"`
	EndDate     *time.Time           `json:"endDate"`
}

// CreateProject creates a project. Progress always starts at 0 no
// matter what the payload carries; it is a derived field.
func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	var req ProjectCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing required fields", nil)
	}

	var leader models.User
	if err := pc.DB.First(&leader, req.LeaderID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Leader not found", nil)
	}

	status := req.Status
	if status == "" {
		status = models.ProjectPlanning
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Progress:    0,
		LeaderID:    req.LeaderID,
		Members:     usersFromIDs(req.MemberIDs),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	// Omit keeps the member upsert away from the users table; only the
	// join rows are written.
	if err := pc.DB.Omit("Members.*").Create(&project).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create project", err)
	}

	pc.Hub.Publish("project.created", project.ID)
	pc.Logger.Printf("project %d created by user %d", project.ID, c.Locals("userID"))

	return c.Status(fiber.StatusCreated).JSON(project)
}

type ProjectUpdateRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	LeaderID    *uint                 `json:"leaderId"`
	MemberIDs   *[]uint               `json:"memberIds"`
	Status      *models.ProjectStatus `json:"status"`
	StartDate   *time.Time            `json:"startDate"`
	EndDate     *time.Time            `json:"endDate"`
}

// UpdateProject applies a partial update. A progress value in the
// payload is ignored: clients never set progress.
func (pc *ProjectController) UpdateProject(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var project models.Project
	if err := pc.DB.First(&project, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	var req ProjectUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.LeaderID != nil {
		project.LeaderID = *req.LeaderID
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid project status", nil)
		}
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}

	if err := pc.DB.Save(&project).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update project", err)
	}

	if req.MemberIDs != nil {
		members := usersFromIDs(*req.MemberIDs)
		if err := pc.DB.Model(&project).Association("Members").Replace(members); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update members", err)
		}
	}

	var updated models.Project
	if err := pc.DB.Preload("Leader").Preload("Members").First(&updated, project.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load project", err)
	}

	pc.Hub.Publish("project.updated", updated.ID)
	return c.JSON(updated)
}

// DeleteProject removes a project and, as an explicit step, every task
// that references it.
func (pc *ProjectController) DeleteProject(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var project models.Project
	if err := pc.DB.First(&project, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	// Cascade: task assignee links, tasks, member links, then the project.
	if err := pc.DB.Exec(
		"DELETE FROM task_assignees WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)", id,
	).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete project", err)
	}
	if err := pc.DB.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete project", err)
	}
	if err := pc.DB.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete project", err)
	}
	if err := pc.DB.Delete(&project).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete project", err)
	}

	pc.Hub.Publish("project.deleted", id)
	pc.Logger.Printf("project %d deleted with its tasks", id)

	return c.JSON(fiber.Map{"message": "Project removed"})
}

// usersFromIDs builds association stubs for a list of user ids.
func usersFromIDs(ids []uint) []models.User {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{ID: id})
	}
	return users
}

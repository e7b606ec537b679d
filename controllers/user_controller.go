package controller

import (
	"log"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/policy"
	"taskhive/utils"
)

type UserController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewUserController(db *gorm.DB, logger *log.Logger) *UserController {
	return &UserController{
		DB:     db,
		Logger: logger,
	}
}

// ListUsers returns every account. Reachable by admins and leaders only;
// the route guard enforces that.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list users", err)
	}
	return c.JSON(users)
}

type UserCreateRequest struct {
	Name     string      `json:"name" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin leader member"`
}

// CreateUser lets an admin provision an account directly, invite token
// not required.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing fields", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", nil)
	}

	var existing models.User
	if err := uc.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "User exists", nil)
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user", err)
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user", err)
	}

	uc.Logger.Printf("user %d created with role %s", user.ID, user.Role)
	return c.Status(fiber.StatusCreated).JSON(user)
}

type UserUpdateRequest struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email"`
	Role  *models.Role `json:"role"`
	// Password changes go through a separate flow. A password in this
	// payload is accepted and silently dropped, never an error.
	Password *string `json:"password"`
}

// UpdateUser lets an admin, or the user themself, change profile
// fields. Role changes stick only when an admin makes them.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	requester := c.Locals("user").(*models.User)
	id := utils.ParseUint(c.Params("id"))

	if !policy.CanUpdateUser(requester.Role, requester.ID, id) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}

	var req UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := checkmail.ValidateFormat(email); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", nil)
		}
		user.Email = email
	}
	if req.Role != nil && policy.CanAssignRole(requester.Role) {
		if !req.Role.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid role", nil)
		}
		user.Role = *req.Role
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user", err)
	}

	return c.JSON(user)
}

// DeleteUser removes an account and its project/task memberships.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}

	if err := uc.DB.Exec("DELETE FROM project_members WHERE user_id = ?", id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user", err)
	}
	if err := uc.DB.Exec("DELETE FROM task_assignees WHERE user_id = ?", id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user", err)
	}
	if err := uc.DB.Delete(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user", err)
	}

	uc.Logger.Printf("user %d deleted", id)
	return c.JSON(fiber.Map{"message": "User removed"})
}

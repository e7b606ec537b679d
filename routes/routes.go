package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	controller "taskhive/controllers"
	"taskhive/middleware"
	"taskhive/models"
)

// SetupRoutes wires the API surface onto the app. The database handle
// is owned by the caller and threaded through explicitly.
func SetupRoutes(app *fiber.App, db *gorm.DB, hub *controller.EventHub) {
	authController := controller.NewAuthController(db, log.New(os.Stdout, "AUTH: ", log.LstdFlags))
	projectController := controller.NewProjectController(db, log.New(os.Stdout, "PROJECT: ", log.LstdFlags), hub)
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags), hub)
	userController := controller.NewUserController(db, log.New(os.Stdout, "USER: ", log.LstdFlags))
	calendarController := controller.NewCalendarController(db, log.New(os.Stdout, "CALENDAR: ", log.LstdFlags))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public auth endpoints, throttled per client IP.
	auth := app.Group("/api/auth", middleware.AuthRateLimiter(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Get("/me", middleware.Protected(db), authController.Me)

	// Everything else requires a valid bearer token.
	api := app.Group("/api", middleware.Protected(db), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	projects := api.Group("/projects")
	projects.Get("/", projectController.ListProjects)
	projects.Get("/:id", projectController.GetProject)
	projects.Post("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLeader), projectController.CreateProject)
	projects.Put("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLeader), projectController.UpdateProject)
	projects.Delete("/:id", middleware.RequireRoles(models.RoleAdmin), projectController.DeleteProject)

	tasks := api.Group("/tasks")
	tasks.Get("/", taskController.ListTasks)
	tasks.Post("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLeader), taskController.CreateTask)
	// Update permission depends on the task's project; checked in the controller.
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLeader), taskController.DeleteTask)

	users := api.Group("/users")
	users.Get("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLeader), userController.ListUsers)
	users.Post("/", middleware.RequireRoles(models.RoleAdmin), userController.CreateUser)
	// Admin or the user themself; checked in the controller.
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", middleware.RequireRoles(models.RoleAdmin), userController.DeleteUser)

	api.Get("/calendar", calendarController.GetCalendar)

	app.Get("/ws/events", websocket.New(hub.Handle))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "The requested resource was not found",
		})
	})
}

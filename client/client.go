// Package client is a Go client for the taskhive API: a thin HTTP
// layer plus an in-memory cache that mirrors the caller's role-scoped
// view of projects, tasks and users.
package client

import (
	"fmt"
	"time"

	"github.com/imroc/req/v3"

	"taskhive/models"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a 401 from the backend, as opposed
// to a transport failure or any other API error.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 401
}

// AuthUser is the register/login response.
type AuthUser struct {
	ID    uint        `json:"_id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

type ProjectInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	LeaderID    uint                 `json:"leaderId"`
	MemberIDs   []uint               `json:"memberIds"`
	Status      models.ProjectStatus `json:"status,omitempty"`
	StartDate   *time.Time           `json:"startDate,omitempty"`
	EndDate     *time.Time           `json:"endDate,omitempty"`
}

type TaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	ProjectID   uint                `json:"projectId"`
	Status      models.TaskStatus   `json:"status,omitempty"`
	Priority    models.TaskPriority `json:"priority,omitempty"`
	AssigneeIDs []uint              `json:"assigneeIds"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
}

// CalendarView is the role-scoped calendar payload.
type CalendarView struct {
	Projects []models.Project `json:"projects"`
	Tasks    []models.Task    `json:"tasks"`
}

// Client talks to the backend. A zero token means unauthenticated; the
// cache layer then works in local-only mode.
type Client struct {
	http  *req.Client
	token string
}

func New(baseURL string) *Client {
	return &Client{
		http: req.C().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
	}
}

func (c *Client) SetToken(token string) { c.token = token }
func (c *Client) Token() string         { return c.token }

// call issues one request and decodes either the success payload or the
// API's `{"message": ...}` error body.
func (c *Client) call(method, path string, body, out interface{}) error {
	var apiErr struct {
		Message string `json:"message"`
	}

	r := c.http.R().SetErrorResult(&apiErr)
	if c.token != "" {
		r.SetBearerAuthToken(c.token)
	}
	if body != nil {
		r.SetBody(body)
	}
	if out != nil {
		r.SetSuccessResult(out)
	}

	resp, err := r.Send(method, path)
	if err != nil {
		return err
	}
	if resp.IsErrorState() {
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}
	return nil
}

// Register creates an account and adopts its token.
func (c *Client) Register(name, email, password string, role models.Role, adminInviteToken string) (*AuthUser, error) {
	body := map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}
	if adminInviteToken != "" {
		body["adminInviteToken"] = adminInviteToken
	}

	var user AuthUser
	if err := c.call("POST", "/api/auth/register", body, &user); err != nil {
		return nil, err
	}
	c.token = user.Token
	return &user, nil
}

// Login authenticates and adopts the returned token.
func (c *Client) Login(email, password string) (*AuthUser, error) {
	var user AuthUser
	err := c.call("POST", "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	c.token = user.Token
	return &user, nil
}

// Me fetches the profile behind the current token.
func (c *Client) Me() (*models.User, error) {
	var user models.User
	if err := c.call("GET", "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := c.call("GET", "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(in ProjectInput) (*models.Project, error) {
	var project models.Project
	if err := c.call("POST", "/api/projects", in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(id uint, in ProjectInput) (*models.Project, error) {
	var project models.Project
	if err := c.call("PUT", fmt.Sprintf("/api/projects/%d", id), in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(id uint) error {
	return c.call("DELETE", fmt.Sprintf("/api/projects/%d", id), nil, nil)
}

// ListTasks lists tasks, optionally filtered to one project (0 = all).
func (c *Client) ListTasks(projectID uint) ([]models.Task, error) {
	path := "/api/tasks"
	if projectID != 0 {
		path = fmt.Sprintf("/api/tasks?projectId=%d", projectID)
	}
	var tasks []models.Task
	if err := c.call("GET", path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(in TaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.call("POST", "/api/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(id uint, in TaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.call("PUT", fmt.Sprintf("/api/tasks/%d", id), in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(id uint) error {
	return c.call("DELETE", fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

func (c *Client) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := c.call("GET", "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Calendar() (*CalendarView, error) {
	var view CalendarView
	if err := c.call("GET", "/api/calendar", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

package client

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskhive/models"
)

// Cache mirrors the backend's role-scoped view of projects, tasks and
// users in memory. After every successful mutation it re-fetches the
// authoritative lists rather than patching its copy, so server-derived
// fields (project progress above all) are never stale by construction.
//
// Without a token the cache runs in local-only mode: mutations apply to
// memory with synthetic ids and never reach the backend. That mode is a
// demo/offline convenience, not an authoritative store; it survives a
// restart only through a best-effort JSON mirror on disk.
type Cache struct {
	api *Client

	mu       sync.RWMutex
	self     *models.User
	projects []models.Project
	tasks    []models.Task
	users    []models.User

	mirrorPath string
}

type mirrorState struct {
	Projects []models.Project `json:"projects"`
	Tasks    []models.Task    `json:"tasks"`
	Users    []models.User    `json:"users"`
}

// NewCache builds a cache over the given API client. mirrorPath may be
// empty to disable the local-mode disk mirror.
func NewCache(api *Client, mirrorPath string) *Cache {
	dc := &Cache{
		api:        api,
		mirrorPath: mirrorPath,
	}
	if api.Token() == "" {
		dc.loadMirror()
	}
	return dc
}

// Authenticated reports whether the cache is backed by the server.
func (dc *Cache) Authenticated() bool {
	return dc.api.Token() != ""
}

// Restore revalidates a stored token on startup. A transport failure
// keeps the token so the next load can retry; a 401 means the token is
// dead and gets cleared. Only on success is the cache seeded.
func (dc *Cache) Restore() error {
	if dc.api.Token() == "" {
		return nil
	}

	self, err := dc.api.Me()
	if err != nil {
		if IsAuthError(err) {
			dc.api.SetToken("")
		}
		return err
	}

	dc.mu.Lock()
	dc.self = self
	dc.mu.Unlock()

	return dc.Refresh()
}

// Login authenticates and seeds the cache from the backend.
func (dc *Cache) Login(email, password string) (*AuthUser, error) {
	user, err := dc.api.Login(email, password)
	if err != nil {
		return nil, err
	}

	dc.mu.Lock()
	dc.self = &models.User{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	dc.mu.Unlock()

	if err := dc.Refresh(); err != nil {
		return nil, err
	}
	return user, nil
}

// Refresh re-fetches all three lists. Members are not allowed to list
// users; they get a self-only list instead of an error.
func (dc *Cache) Refresh() error {
	projects, err := dc.api.ListProjects()
	if err != nil {
		return err
	}
	tasks, err := dc.api.ListTasks(0)
	if err != nil {
		return err
	}

	users, err := dc.api.ListUsers()
	if err != nil {
		apiErr, ok := err.(*APIError)
		if !ok || apiErr.StatusCode != 403 {
			return err
		}
		users = nil
		dc.mu.RLock()
		if dc.self != nil {
			users = []models.User{*dc.self}
		}
		dc.mu.RUnlock()
	}

	dc.mu.Lock()
	dc.projects = projects
	dc.tasks = tasks
	dc.users = users
	dc.mu.Unlock()

	return nil
}

func (dc *Cache) refreshProjects() error {
	projects, err := dc.api.ListProjects()
	if err != nil {
		return err
	}
	dc.mu.Lock()
	dc.projects = projects
	dc.mu.Unlock()
	return nil
}

func (dc *Cache) refreshTasks() error {
	tasks, err := dc.api.ListTasks(0)
	if err != nil {
		return err
	}
	dc.mu.Lock()
	dc.tasks = tasks
	dc.mu.Unlock()
	return nil
}

// Projects returns a snapshot of the cached project list.
func (dc *Cache) Projects() []models.Project {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	out := make([]models.Project, len(dc.projects))
	copy(out, dc.projects)
	return out
}

// Tasks returns a snapshot of the cached task list.
func (dc *Cache) Tasks() []models.Task {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	out := make([]models.Task, len(dc.tasks))
	copy(out, dc.tasks)
	return out
}

// Users returns a snapshot of the cached user list.
func (dc *Cache) Users() []models.User {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	out := make([]models.User, len(dc.users))
	copy(out, dc.users)
	return out
}

// AddProject creates a project through the backend and re-fetches the
// project list; in local mode it appends with a synthetic id.
func (dc *Cache) AddProject(in ProjectInput) (*models.Project, error) {
	if !dc.Authenticated() {
		project := models.Project{
			ID:          syntheticID(),
			Name:        in.Name,
			Description: in.Description,
			Status:      orDefault(in.Status, models.ProjectPlanning),
			LeaderID:    in.LeaderID,
			MemberIDs:   in.MemberIDs,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		dc.mu.Lock()
		dc.projects = append(dc.projects, project)
		dc.mu.Unlock()
		dc.saveMirror()
		return &project, nil
	}

	project, err := dc.api.CreateProject(in)
	if err != nil {
		return nil, err
	}
	if err := dc.refreshProjects(); err != nil {
		return nil, err
	}
	return project, nil
}

func (dc *Cache) UpdateProject(id uint, in ProjectInput) error {
	if !dc.Authenticated() {
		dc.mu.Lock()
		for i := range dc.projects {
			if dc.projects[i].ID == id {
				dc.projects[i].Name = in.Name
				dc.projects[i].Description = in.Description
				if in.Status != "" {
					dc.projects[i].Status = in.Status
				}
				if in.LeaderID != 0 {
					dc.projects[i].LeaderID = in.LeaderID
				}
				dc.projects[i].MemberIDs = in.MemberIDs
				dc.projects[i].UpdatedAt = time.Now()
				break
			}
		}
		dc.mu.Unlock()
		dc.saveMirror()
		return nil
	}

	if _, err := dc.api.UpdateProject(id, in); err != nil {
		return err
	}
	return dc.refreshProjects()
}

func (dc *Cache) DeleteProject(id uint) error {
	if !dc.Authenticated() {
		dc.mu.Lock()
		dc.projects = deleteByID(dc.projects, id, func(p models.Project) uint { return p.ID })
		kept := dc.tasks[:0]
		for _, t := range dc.tasks {
			if t.ProjectID != id {
				kept = append(kept, t)
			}
		}
		dc.tasks = kept
		dc.mu.Unlock()
		dc.saveMirror()
		return nil
	}

	if err := dc.api.DeleteProject(id); err != nil {
		return err
	}
	if err := dc.refreshProjects(); err != nil {
		return err
	}
	return dc.refreshTasks()
}

// AddTask creates a task and re-fetches both tasks and projects, since
// the mutation changes the owning project's derived progress.
func (dc *Cache) AddTask(in TaskInput) (*models.Task, error) {
	if !dc.Authenticated() {
		task := models.Task{
			ID:          syntheticID(),
			Title:       in.Title,
			Description: in.Description,
			Status:      orDefault(in.Status, models.TaskTodo),
			Priority:    orDefault(in.Priority, models.PriorityMedium),
			ProjectID:   in.ProjectID,
			AssigneeIDs: in.AssigneeIDs,
			DueDate:     in.DueDate,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		dc.mu.Lock()
		dc.tasks = append(dc.tasks, task)
		dc.mu.Unlock()
		dc.saveMirror()
		return &task, nil
	}

	task, err := dc.api.CreateTask(in)
	if err != nil {
		return nil, err
	}
	if err := dc.refreshTasks(); err != nil {
		return nil, err
	}
	if err := dc.refreshProjects(); err != nil {
		return nil, err
	}
	return task, nil
}

func (dc *Cache) UpdateTask(id uint, in TaskInput) error {
	if !dc.Authenticated() {
		dc.mu.Lock()
		for i := range dc.tasks {
			if dc.tasks[i].ID == id {
				dc.tasks[i].Title = in.Title
				dc.tasks[i].Description = in.Description
				if in.Status != "" {
					dc.tasks[i].Status = in.Status
				}
				if in.Priority != "" {
					dc.tasks[i].Priority = in.Priority
				}
				dc.tasks[i].AssigneeIDs = in.AssigneeIDs
				dc.tasks[i].DueDate = in.DueDate
				dc.tasks[i].UpdatedAt = time.Now()
				break
			}
		}
		dc.mu.Unlock()
		dc.saveMirror()
		return nil
	}

	if _, err := dc.api.UpdateTask(id, in); err != nil {
		return err
	}
	if err := dc.refreshTasks(); err != nil {
		return err
	}
	return dc.refreshProjects()
}

func (dc *Cache) DeleteTask(id uint) error {
	if !dc.Authenticated() {
		dc.mu.Lock()
		dc.tasks = deleteByID(dc.tasks, id, func(t models.Task) uint { return t.ID })
		dc.mu.Unlock()
		dc.saveMirror()
		return nil
	}

	if err := dc.api.DeleteTask(id); err != nil {
		return err
	}
	if err := dc.refreshTasks(); err != nil {
		return err
	}
	return dc.refreshProjects()
}

// syntheticID generates a local-only id that will never be mistaken for
// a freshly assigned database id.
func syntheticID() uint {
	return uint(uuid.New().ID())
}

func orDefault[T ~string](v, fallback T) T {
	if v == "" {
		return fallback
	}
	return v
}

func deleteByID[T any](items []T, id uint, idOf func(T) uint) []T {
	kept := items[:0]
	for _, item := range items {
		if idOf(item) != id {
			kept = append(kept, item)
		}
	}
	return kept
}

// saveMirror writes the local-mode state to disk, best effort.
func (dc *Cache) saveMirror() {
	if dc.mirrorPath == "" {
		return
	}

	dc.mu.RLock()
	state := mirrorState{
		Projects: dc.projects,
		Tasks:    dc.tasks,
		Users:    dc.users,
	}
	dc.mu.RUnlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(dc.mirrorPath, data, 0o600)
}

func (dc *Cache) loadMirror() {
	if dc.mirrorPath == "" {
		return
	}

	data, err := os.ReadFile(dc.mirrorPath)
	if err != nil {
		return
	}
	var state mirrorState
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}

	dc.mu.Lock()
	dc.projects = state.Projects
	dc.tasks = state.Tasks
	dc.users = state.Users
	dc.mu.Unlock()
}

// MirrorPath exposes where the local mirror lives, mainly for tooling.
func (dc *Cache) MirrorPath() string {
	return dc.mirrorPath
}

package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/models"
)

func localCache(t *testing.T) *Cache {
	t.Helper()
	mirror := filepath.Join(t.TempDir(), "mirror.json")
	return NewCache(New("http://127.0.0.1:0"), mirror)
}

func TestCacheLocalModeProjects(t *testing.T) {
	dc := localCache(t)
	require.False(t, dc.Authenticated())

	project, err := dc.AddProject(ProjectInput{
		Name:      "Website relaunch",
		LeaderID:  1,
		MemberIDs: []uint{2, 3},
	})
	require.NoError(t, err)
	assert.NotZero(t, project.ID)
	assert.Equal(t, models.ProjectPlanning, project.Status)

	projects := dc.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "Website relaunch", projects[0].Name)
	assert.Equal(t, []uint{2, 3}, projects[0].MemberIDs)

	err = dc.UpdateProject(project.ID, ProjectInput{
		Name:     "Website relaunch v2",
		LeaderID: 1,
		Status:   models.ProjectInProgress,
	})
	require.NoError(t, err)
	projects = dc.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "Website relaunch v2", projects[0].Name)
	assert.Equal(t, models.ProjectInProgress, projects[0].Status)

	require.NoError(t, dc.DeleteProject(project.ID))
	assert.Empty(t, dc.Projects())
}

func TestCacheLocalModeTasks(t *testing.T) {
	dc := localCache(t)

	project, err := dc.AddProject(ProjectInput{Name: "Ops", LeaderID: 1})
	require.NoError(t, err)

	task, err := dc.AddTask(TaskInput{
		Title:       "Rotate credentials",
		ProjectID:   project.ID,
		AssigneeIDs: []uint{5},
	})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, models.TaskTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)

	err = dc.UpdateTask(task.ID, TaskInput{
		Title:       "Rotate credentials",
		ProjectID:   project.ID,
		Status:      models.TaskDone,
		AssigneeIDs: []uint{5, 6},
	})
	require.NoError(t, err)
	tasks := dc.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, models.TaskDone, tasks[0].Status)
	assert.Equal(t, []uint{5, 6}, tasks[0].AssigneeIDs)

	require.NoError(t, dc.DeleteTask(task.ID))
	assert.Empty(t, dc.Tasks())
}

func TestCacheDeleteProjectRemovesItsTasks(t *testing.T) {
	dc := localCache(t)

	keep, err := dc.AddProject(ProjectInput{Name: "Keep", LeaderID: 1})
	require.NoError(t, err)
	drop, err := dc.AddProject(ProjectInput{Name: "Drop", LeaderID: 1})
	require.NoError(t, err)

	_, err = dc.AddTask(TaskInput{Title: "stays", ProjectID: keep.ID})
	require.NoError(t, err)
	_, err = dc.AddTask(TaskInput{Title: "goes", ProjectID: drop.ID})
	require.NoError(t, err)

	require.NoError(t, dc.DeleteProject(drop.ID))

	tasks := dc.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "stays", tasks[0].Title)
}

func TestCacheMirrorSurvivesRestart(t *testing.T) {
	mirror := filepath.Join(t.TempDir(), "mirror.json")
	api := New("http://127.0.0.1:0")

	dc := NewCache(api, mirror)
	_, err := dc.AddProject(ProjectInput{Name: "Persisted", LeaderID: 1})
	require.NoError(t, err)

	_, err = os.Stat(mirror)
	require.NoError(t, err)

	reloaded := NewCache(New("http://127.0.0.1:0"), mirror)
	projects := reloaded.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "Persisted", projects[0].Name)
}

func TestCacheSyntheticIDsAreDistinct(t *testing.T) {
	dc := localCache(t)

	a, err := dc.AddProject(ProjectInput{Name: "a", LeaderID: 1})
	require.NoError(t, err)
	b, err := dc.AddProject(ProjectInput{Name: "b", LeaderID: 1})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskhive/models"
)

func tasksWith(statuses ...models.TaskStatus) []models.Task {
	tasks := make([]models.Task, 0, len(statuses))
	for _, s := range statuses {
		tasks = append(tasks, models.Task{Status: s})
	}
	return tasks
}

func TestProjectProgressSingleStatuses(t *testing.T) {
	assert.Equal(t, 0, ProjectProgress(tasksWith(models.TaskTodo)))
	assert.Equal(t, 25, ProjectProgress(tasksWith(models.TaskInProgress)))
	assert.Equal(t, 75, ProjectProgress(tasksWith(models.TaskReview)))
	assert.Equal(t, 100, ProjectProgress(tasksWith(models.TaskDone)))
}

func TestProjectProgressEmpty(t *testing.T) {
	assert.Equal(t, 0, ProjectProgress(nil))
	assert.Equal(t, 0, ProjectProgress([]models.Task{}))
}

func TestProjectProgressMean(t *testing.T) {
	assert.Equal(t, 50, ProjectProgress(tasksWith(models.TaskTodo, models.TaskDone)))

	// 0+25 over 2 is 12.5, which rounds half up to 13.
	assert.Equal(t, 13, ProjectProgress(tasksWith(models.TaskTodo, models.TaskInProgress)))

	// (0+25+75+100)/4 = 50
	assert.Equal(t, 50, ProjectProgress(tasksWith(
		models.TaskTodo, models.TaskInProgress, models.TaskReview, models.TaskDone,
	)))
}

func TestProjectProgressBounds(t *testing.T) {
	statuses := []models.TaskStatus{
		models.TaskTodo, models.TaskInProgress, models.TaskReview, models.TaskDone,
	}

	// Every multiset over the four statuses up to length three stays in
	// [0, 100].
	var sets [][]models.TaskStatus
	for _, a := range statuses {
		sets = append(sets, []models.TaskStatus{a})
		for _, b := range statuses {
			sets = append(sets, []models.TaskStatus{a, b})
			for _, c := range statuses {
				sets = append(sets, []models.TaskStatus{a, b, c})
			}
		}
	}
	for _, set := range sets {
		pct := ProjectProgress(tasksWith(set...))
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
	}
}

func TestStatusWeightUnknownStatus(t *testing.T) {
	assert.Equal(t, 0, StatusWeight(models.TaskStatus("nonsense")))
}

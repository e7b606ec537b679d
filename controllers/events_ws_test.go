package controller

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventHubStartsEmpty(t *testing.T) {
	hub := NewEventHub(log.New(io.Discard, "", 0))
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestEventHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewEventHub(log.New(io.Discard, "", 0))
	assert.NotPanics(t, func() {
		hub.Publish("project.created", 1)
	})
}

func TestEventHubPublishOnNilHub(t *testing.T) {
	var hub *EventHub
	assert.NotPanics(t, func() {
		hub.Publish("task.updated", 7)
	})
}

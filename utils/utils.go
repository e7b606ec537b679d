package utils

import (
	"log"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse writes the API's error body. Every error, from validation
// to misconfiguration, carries the same single-field shape.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	if err != nil {
		log.Printf("%s %s -> %d: %s (%v)", c.Method(), c.Path(), status, message, err)
		if status >= fiber.StatusInternalServerError {
			sentry.CaptureException(err)
		}
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}

// ParseUint safely parses a string to uint, returning 0 on failure.
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}

// Pointer returns a pointer to the given value.
func Pointer[T any](v T) *T {
	return &v
}

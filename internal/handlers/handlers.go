package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/turismo/internal/config"
	"github.com/foxxcyber/turismo/internal/services"
	"github.com/foxxcyber/turismo/internal/store"
)

// Handler holds all handler dependencies
type Handler struct {
	store     *store.Store
	cfg       *config.Config
	log       *logrus.Logger
	snapshots *services.SnapshotService
}

// New creates a new Handler instance
func New(s *store.Store, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{
		store: s,
		cfg:   cfg,
		log:   log,
	}
}

// WithSnapshots enables the snapshot routes
func (h *Handler) WithSnapshots(svc *services.SnapshotService) *Handler {
	h.snapshots = svc
	return h
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return Message(c, code, message)
}

// Message writes a plain text body with the given status
func Message(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).SendString(message)
}

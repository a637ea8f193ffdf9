package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/turismo/internal/models"
	"github.com/foxxcyber/turismo/internal/store"
)

const (
	msgAdded          = "Record added successfully."
	msgUpdated        = "Record updated successfully."
	msgDeleted        = "Record deleted successfully."
	msgNotFound       = "Record not found."
	msgInvalidPayload = "Invalid payload: Missing required fields."
)

// ListTurismo returns every record, or one page of them when both page and
// size are given
func (h *Handler) ListTurismo(c *fiber.Ctx) error {
	params := &models.TurismoListParams{}

	var err error
	if params.Page, err = optionalInt(c, "page"); err != nil {
		return Message(c, fiber.StatusBadRequest, "page must be an integer")
	}
	if params.Size, err = optionalInt(c, "size"); err != nil {
		return Message(c, fiber.StatusBadRequest, "size must be an integer")
	}

	records, err := h.store.ListTurismo(params)
	if err != nil {
		if errors.Is(err, store.ErrInvalidPage) {
			return Message(c, fiber.StatusBadRequest, "invalid page or size")
		}
		h.log.WithError(err).Error("Error fetching records")
		return Message(c, fiber.StatusInternalServerError, "Error fetching records.")
	}

	return c.JSON(records)
}

// GetTurismo returns a single record by id
func (h *Handler) GetTurismo(c *fiber.Ctx) error {
	id := c.Params("id")

	rec, err := h.store.GetTurismoByID(id)
	if err != nil {
		if errors.Is(err, store.ErrTurismoNotFound) {
			h.log.WithField("id", id).Debug("Record not found")
			return Message(c, fiber.StatusNotFound, msgNotFound)
		}
		h.log.WithError(err).Error("Error fetching record by ID")
		return Message(c, fiber.StatusInternalServerError, "Error fetching record.")
	}

	return c.JSON(rec)
}

// CreateTurismo adds a new record. from and timeRange are required.
func (h *Handler) CreateTurismo(c *fiber.Ctx) error {
	var req models.Turismo
	if err := c.BodyParser(&req); err != nil {
		return Message(c, fiber.StatusBadRequest, msgInvalidPayload)
	}
	if err := req.Validate(); err != nil {
		return Message(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	rec, err := h.store.CreateTurismo(&req)
	if err != nil {
		h.log.WithError(err).Error("Error saving record")
		return Message(c, fiber.StatusInternalServerError, "Error saving record.")
	}

	h.log.WithField("id", rec.ID).Info("Record added")
	c.Location("/api/turismo/" + rec.ID)
	return Message(c, fiber.StatusOK, msgAdded)
}

// UpdateTurismo overwrites an existing record's fields
func (h *Handler) UpdateTurismo(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.UpdateTurismoRequest
	if err := c.BodyParser(&req); err != nil {
		return Message(c, fiber.StatusBadRequest, "invalid request body")
	}

	if _, err := h.store.UpdateTurismo(id, &req); err != nil {
		if errors.Is(err, store.ErrTurismoNotFound) {
			return Message(c, fiber.StatusNotFound, msgNotFound)
		}
		h.log.WithError(err).Error("Error updating record")
		return Message(c, fiber.StatusInternalServerError, "Error updating record.")
	}

	h.log.WithField("id", id).Info("Record updated")
	return Message(c, fiber.StatusOK, msgUpdated)
}

// DeleteTurismo removes a record by id
func (h *Handler) DeleteTurismo(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.DeleteTurismo(id); err != nil {
		if errors.Is(err, store.ErrTurismoNotFound) {
			return Message(c, fiber.StatusNotFound, msgNotFound)
		}
		h.log.WithError(err).Error("Error deleting record")
		return Message(c, fiber.StatusInternalServerError, "Error deleting record.")
	}

	h.log.WithField("id", id).Info("Record deleted")
	return Message(c, fiber.StatusOK, msgDeleted)
}

// GetTurismoByCommunity returns the grouped records of a community. The path
// segment is form-decoded, so "+" reads as a space.
func (h *Handler) GetTurismoByCommunity(c *fiber.Ctx) error {
	community, err := url.QueryUnescape(c.Params("community"))
	if err != nil {
		return Message(c, fiber.StatusBadRequest, "invalid community name")
	}

	records, err := h.store.GetTurismoByCommunity(community)
	if err != nil {
		if errors.Is(err, store.ErrCommunityNotFound) {
			return Message(c, fiber.StatusNotFound, "No records found for community.")
		}
		h.log.WithFields(logrus.Fields{"community": community, "error": err}).Error("Error loading grouped records")
		return Message(c, fiber.StatusInternalServerError, "Error loading grouped records.")
	}

	return c.JSON(records)
}

// ListCommunities returns the sorted community names of the grouped index
func (h *Handler) ListCommunities(c *fiber.Ctx) error {
	names, err := h.store.ListCommunities()
	if err != nil {
		h.log.WithError(err).Error("Error loading grouped records")
		return Message(c, fiber.StatusInternalServerError, "Error loading grouped records.")
	}

	return c.JSON(names)
}

// optionalInt parses an integer query parameter. Absent or empty yields nil.
func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

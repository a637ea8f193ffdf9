package handlers

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/turismo/internal/services"
)

const snapshotURLExpiry = 15 * time.Minute

// CreateSnapshot uploads the current primary store file
func (h *Handler) CreateSnapshot(c *fiber.Ctx) error {
	b, err := h.store.ReadRaw()
	if err != nil {
		h.log.WithError(err).Error("Error reading records for snapshot")
		return Message(c, fiber.StatusInternalServerError, "Error reading records.")
	}

	key := services.SnapshotKey(time.Now())
	res, err := h.snapshots.Upload(c.UserContext(), key, bytes.NewReader(b), int64(len(b)))
	if err != nil {
		h.log.WithError(err).Error("Error uploading snapshot")
		return Message(c, fiber.StatusInternalServerError, "Error uploading snapshot.")
	}

	h.log.WithField("key", res.Key).Info("Snapshot uploaded")
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListSnapshots returns every snapshot key
func (h *Handler) ListSnapshots(c *fiber.Ctx) error {
	keys, err := h.snapshots.List(c.UserContext(), services.SnapshotPrefix)
	if err != nil {
		h.log.WithError(err).Error("Error listing snapshots")
		return Message(c, fiber.StatusInternalServerError, "Error listing snapshots.")
	}

	return c.JSON(keys)
}

// GetSnapshotURL returns a short-lived download URL for one snapshot
func (h *Handler) GetSnapshotURL(c *fiber.Ctx) error {
	key := c.Query("key")
	if !strings.HasPrefix(key, services.SnapshotPrefix) {
		return Message(c, fiber.StatusBadRequest, "key must name a snapshot")
	}

	url, err := h.snapshots.GetPresignedURL(c.UserContext(), key, snapshotURLExpiry)
	if err != nil {
		h.log.WithError(err).Error("Error signing snapshot URL")
		return Message(c, fiber.StatusInternalServerError, "Error signing snapshot URL.")
	}

	return c.JSON(fiber.Map{"url": url})
}

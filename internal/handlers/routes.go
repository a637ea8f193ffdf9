package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Register mounts the health check and API routes on app
func (h *Handler) Register(app *fiber.App) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Record routes. Static segments go before /:id.
	turismo := api.Group("/turismo")
	turismo.Get("/", h.ListTurismo)
	turismo.Post("/", h.CreateTurismo)
	turismo.Get("/communities", h.ListCommunities)
	turismo.Get("/community/:community", h.GetTurismoByCommunity)
	turismo.Get("/:id", h.GetTurismo)
	turismo.Put("/:id", h.UpdateTurismo)
	turismo.Delete("/:id", h.DeleteTurismo)

	// Snapshot routes (only if S3 storage is configured)
	if h.snapshots != nil {
		snapshots := api.Group("/snapshots")
		snapshots.Post("/", h.CreateSnapshot)
		snapshots.Get("/", h.ListSnapshots)
		snapshots.Get("/url", h.GetSnapshotURL)
	}
}

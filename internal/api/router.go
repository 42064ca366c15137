// Package api exposes the management surface over HTTP: calendar file CRUD,
// category toggles and interval updates. The display loop keeps running
// while files change; reloads go through the engine and the store.
package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all management routes mounted.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.GetStatus)

	r.Get("/files", h.ListFiles)
	r.Post("/files", h.CreateFile)
	r.Post("/files/upload", h.UploadFile)
	r.Get("/files/{name}", h.GetFile)
	r.Put("/files/{name}", h.SaveFile)
	r.Delete("/files/{name}", h.DeleteFile)

	r.Post("/categories/{name}/toggle", h.ToggleCategory)
	r.Put("/config", h.UpdateConfig)

	return r
}

package api

import (
	"sauna-admin-backend/internal/classify"
	"sauna-admin-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	classifier classify.Classifier
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, classifier classify.Classifier) *Handler {
	return &Handler{
		store:      s,
		classifier: classifier,
	}
}

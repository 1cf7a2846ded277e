package handlers

import (
	"net/http"

	"github.com/sbilibin2017/lms-accounts/internal/models"
)

// NewIndexHandler returns the health check handler.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.IndexResponse
// @Router / [get]
func NewIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.IndexResponse{Success: "The setup was successful"})
	}
}

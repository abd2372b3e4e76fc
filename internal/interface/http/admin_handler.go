package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/pkg/response"
)

type AdminHandler struct {
	Graph  *application.RelationshipService
	Logger *logrus.Logger
}

func NewAdminHandler(graph *application.RelationshipService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Graph: graph, Logger: logger}
}

// Reconcile POST /api/admin/relationships/reconcile
func (h *AdminHandler) Reconcile(c *gin.Context) {
	n, err := h.Graph.Reconcile(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"repaired": n}, "relationships reconciled", nil)
}

package handlers

import (
	"net/http"

	"github.com/bdybsjord/Echomedic/internal/audit"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	rec *audit.Recorder
}

func NewAuditHandler(rec *audit.Recorder) *AuditHandler {
	return &AuditHandler{rec: rec}
}

func (h *AuditHandler) List(c *gin.Context) {
	entries, err := h.rec.List(c.Request.Context(), 200)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

package handlers

import (
	"net/http"

	"github.com/bdybsjord/Echomedic/internal/service"

	"github.com/gin-gonic/gin"
)

type RiskHandler struct {
	svc *service.RiskService
}

func NewRiskHandler(svc *service.RiskService) *RiskHandler {
	return &RiskHandler{svc: svc}
}

func (h *RiskHandler) List(c *gin.Context) {
	risks, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, risks)
}

func (h *RiskHandler) Get(c *gin.Context) {
	risk, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, risk)
}

func (h *RiskHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondNoActor(c)
		return
	}

	var input service.RiskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c)
		return
	}

	id, err := h.svc.Create(c.Request.Context(), input, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *RiskHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondNoActor(c)
		return
	}

	var patch service.RiskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadBody(c)
		return
	}

	if err := h.svc.Update(c.Request.Context(), c.Param("id"), patch, actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RiskHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondNoActor(c)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/bdybsjord/Echomedic/internal/service"

	"github.com/gin-gonic/gin"
)

type ControlHandler struct {
	svc *service.ControlService
}

func NewControlHandler(svc *service.ControlService) *ControlHandler {
	return &ControlHandler{svc: svc}
}

func (h *ControlHandler) List(c *gin.Context) {
	controls, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controls)
}

func (h *ControlHandler) Get(c *gin.Context) {
	control, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, control)
}

func (h *ControlHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondNoActor(c)
		return
	}

	var input service.ControlInput
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

func (h *ControlHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondNoActor(c)
		return
	}

	var patch service.ControlPatch
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

func (h *ControlHandler) Delete(c *gin.Context) {
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

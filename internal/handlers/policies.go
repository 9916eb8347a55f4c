package handlers

import (
	"net/http"

	"github.com/bdybsjord/Echomedic/internal/service"

	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	svc *service.PolicyService
}

func NewPolicyHandler(svc *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{svc: svc}
}

func (h *PolicyHandler) List(c *gin.Context) {
	policies, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

func (h *PolicyHandler) Get(c *gin.Context) {
	policy, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

func (h *PolicyHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondNoActor(c)
		return
	}

	var input service.PolicyInput
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

func (h *PolicyHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		respondNoActor(c)
		return
	}

	var patch service.PolicyPatch
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

func (h *PolicyHandler) Delete(c *gin.Context) {
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

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/api/internal/domain/actor"
)

const actorKey = "actor"

// authenticate resolves the Authorization header (Basic or Bearer) into an
// actor and stores it in the gin context. Requests without valid
// credentials are rejected with 401.
func (h *Handler) authenticate(c *gin.Context) {
	act, err := h.resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Set(actorKey, act)
	c.Next()
}

// adminOnly rejects non-admin actors with 403. Must run after authenticate.
func (h *Handler) adminOnly(c *gin.Context) {
	if !actorFrom(c).IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	c.Next()
}

func actorFrom(c *gin.Context) actor.Actor {
	act, _ := c.MustGet(actorKey).(actor.Actor)
	return act
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login verifies credentials and returns a bearer token.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.resolver.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

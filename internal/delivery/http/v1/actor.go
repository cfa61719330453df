package v1

import (
	"connectmetric-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// currentActor rebuilds the authenticated principal the auth middleware
// stored on the request context.
func currentActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:       c.GetString(string(domain.KeyUserID)),
		Username: c.GetString(string(domain.KeyUsername)),
		Email:    c.GetString(string(domain.KeyUserEmail)),
		IsStaff:  c.GetBool(string(domain.KeyIsStaff)),
	}
}

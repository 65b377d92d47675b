package handlers

import (
	"github.com/SokThavireak/sushi-store/middleware"
	"github.com/SokThavireak/sushi-store/models"

	"github.com/gin-gonic/gin"
)

// GetPrincipal pulls the authenticated principal out of the request context.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	return middleware.GetPrincipal(c)
}

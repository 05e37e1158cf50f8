package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devnet/internal/models"
	"github.com/joshua-takyi/devnet/internal/services"
)

func RegisterUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterInput
		if !bindJSON(c, &req) {
			return
		}

		token, err := u.Register(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token})
	}
}

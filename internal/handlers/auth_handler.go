package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devnet/internal/models"
	"github.com/joshua-takyi/devnet/internal/services"
)

// GetAuthUser returns the account behind the request's token.
func GetAuthUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		user, err := u.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// Login exchanges an email and password for a token.
func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginInput
		if !bindJSON(c, &req) {
			return
		}

		token, err := u.Login(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devnet/internal/helpers"
	"github.com/joshua-takyi/devnet/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID returns the id AuthMiddleware stored for the caller.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("No token, authorization denied"))
		return primitive.NilObjectID, false
	}
	identity, ok := v.(*helpers.Identity)
	if !ok {
		c.Error(errors.New("invalid identity in request context"))
		return primitive.NilObjectID, false
	}
	return identity.UserID, true
}

// paramID parses the named path parameter. A malformed id answers notFound,
// since no document can carry it.
func paramID(c *gin.Context, name string, notFound error) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, notFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
		return false
	}
	return true
}

// respondError writes the response for a service error. Errors without a
// domain kind are handed to the ErrorHandler middleware.
func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, models.ValidationResponse(ve))
		return
	}

	switch models.KindOf(err) {
	case models.KindValidation:
		c.JSON(http.StatusBadRequest, models.ValidationResponse(&models.ValidationError{
			Fields: []models.FieldError{{Msg: err.Error()}},
		}))
	case models.KindAuthentication:
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	case models.KindAuthorization:
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
	case models.KindNotFound, models.KindUpstream:
		c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
	case models.KindConflict:
		c.JSON(http.StatusConflict, models.ErrorResponse(err.Error()))
	default:
		c.Error(err)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devnet/internal/models"
	"github.com/joshua-takyi/devnet/internal/services"
)

func GetMyProfile(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		profile, err := p.GetProfile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpsertProfile creates the caller's profile or updates the fields sent.
func UpsertProfile(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req models.ProfileInput
		if !bindJSON(c, &req) {
			return
		}

		profile, err := p.Upsert(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func ListProfiles(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles, err := p.ListProfiles(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profiles)
	}
}

var errProfileNotFoundByID = &models.Error{Kind: models.KindNotFound, Msg: "Profile not found"}

func GetProfileByUser(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramID(c, "id", errProfileNotFoundByID)
		if !ok {
			return
		}

		profile, err := p.GetProfile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrProfileNotFound) {
				err = errProfileNotFoundByID
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// DeleteAccount removes the caller's posts, profile and user.
func DeleteAccount(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		if err := p.DeleteAccount(c.Request.Context(), userID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
	}
}

func AddExperience(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req models.ExperienceInput
		if !bindJSON(c, &req) {
			return
		}

		profile, err := p.AddExperience(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func RemoveExperience(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		expID, ok := paramID(c, "exp_id", models.ErrExperienceNotFound)
		if !ok {
			return
		}

		profile, err := p.RemoveExperience(c.Request.Context(), userID, expID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func AddEducation(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req models.EducationInput
		if !bindJSON(c, &req) {
			return
		}

		profile, err := p.AddEducation(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func RemoveEducation(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		eduID, ok := paramID(c, "edu_id", models.ErrEducationNotFound)
		if !ok {
			return
		}

		profile, err := p.RemoveEducation(c.Request.Context(), userID, eduID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// GetGithubRepos lists the public repositories of a github user.
func GetGithubRepos(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		repos, err := p.FetchRepositories(c.Request.Context(), c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, repos)
	}
}

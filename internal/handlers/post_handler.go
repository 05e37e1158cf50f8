package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devnet/internal/models"
	"github.com/joshua-takyi/devnet/internal/services"
)

func CreatePost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req models.PostInput
		if !bindJSON(c, &req) {
			return
		}

		post, err := p.CreatePost(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}

func ListPosts(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := p.ListPosts(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, posts)
	}
}

func GetPost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := paramID(c, "id", models.ErrPostNotFound)
		if !ok {
			return
		}

		post, err := p.GetPost(c.Request.Context(), postID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

func DeletePost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		postID, ok := paramID(c, "id", models.ErrPostNotFound)
		if !ok {
			return
		}

		if err := p.DeletePost(c.Request.Context(), userID, postID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
	}
}

func LikePost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		postID, ok := paramID(c, "id", models.ErrPostNotFound)
		if !ok {
			return
		}

		likes, err := p.Like(c.Request.Context(), userID, postID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, likes)
	}
}

func UnlikePost(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		postID, ok := paramID(c, "id", models.ErrPostNotFound)
		if !ok {
			return
		}

		likes, err := p.Unlike(c.Request.Context(), userID, postID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, likes)
	}
}

func AddComment(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		postID, ok := paramID(c, "id", models.ErrPostNotFound)
		if !ok {
			return
		}
		var req models.CommentInput
		if !bindJSON(c, &req) {
			return
		}

		comments, err := p.AddComment(c.Request.Context(), userID, postID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, comments)
	}
}

// RemoveComment deletes a comment; only its author may do so.
func RemoveComment(p *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		postID, ok := paramID(c, "id", models.ErrPostNotFound)
		if !ok {
			return
		}
		commentID, ok := paramID(c, "comment_id", models.ErrCommentNotFound)
		if !ok {
			return
		}

		comments, err := p.RemoveComment(c.Request.Context(), userID, postID, commentID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, comments)
	}
}

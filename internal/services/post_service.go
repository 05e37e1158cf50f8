package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/devnet/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService struct {
	postRepo models.PostRepo
	userRepo models.UserRepo
}

func NewPostService(postRepo models.PostRepo, userRepo models.UserRepo) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// author loads the acting user so the name and avatar can be copied onto the
// post or comment being written.
func (ps *PostService) author(ctx context.Context, userId primitive.ObjectID) (*models.User, error) {
	user, err := ps.userRepo.GetUserByID(ctx, userId)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	return user, nil
}

func (ps *PostService) CreatePost(ctx context.Context, userId primitive.ObjectID, in models.PostInput) (*models.Post, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}

	user, err := ps.author(ctx, userId)
	if err != nil {
		return nil, err
	}

	return ps.postRepo.CreatePost(ctx, &models.Post{
		User:     userId,
		Text:     in.Text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     time.Now(),
	})
}

func (ps *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return ps.postRepo.ListPosts(ctx)
}

func (ps *PostService) GetPost(ctx context.Context, postId primitive.ObjectID) (*models.Post, error) {
	return ps.postRepo.GetPost(ctx, postId)
}

// DeletePost removes the post when userId is its author.
func (ps *PostService) DeletePost(ctx context.Context, userId, postId primitive.ObjectID) error {
	return ps.postRepo.DeletePost(ctx, postId, userId)
}

// Like adds userId to the post's likes and returns the updated list. A second
// like by the same user fails with ErrAlreadyLiked.
func (ps *PostService) Like(ctx context.Context, userId, postId primitive.ObjectID) ([]models.Like, error) {
	post, err := ps.postRepo.AddLike(ctx, postId, userId)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (ps *PostService) Unlike(ctx context.Context, userId, postId primitive.ObjectID) ([]models.Like, error) {
	post, err := ps.postRepo.RemoveLike(ctx, postId, userId)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (ps *PostService) AddComment(ctx context.Context, userId, postId primitive.ObjectID, in models.CommentInput) ([]models.Comment, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}

	// the post must exist before the author lookup so a bad post id reads as
	// ErrPostNotFound rather than a user error
	if _, err := ps.postRepo.GetPost(ctx, postId); err != nil {
		return nil, err
	}
	user, err := ps.author(ctx, userId)
	if err != nil {
		return nil, err
	}

	post, err := ps.postRepo.AddComment(ctx, postId, models.Comment{
		ID:     primitive.NewObjectID(),
		User:   userId,
		Text:   in.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes commentId when userId wrote it.
func (ps *PostService) RemoveComment(ctx context.Context, userId, postId, commentId primitive.ObjectID) ([]models.Comment, error) {
	post, err := ps.postRepo.RemoveComment(ctx, postId, commentId, userId)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joshua-takyi/devnet/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreatePostCopiesAuthor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := f.register(t, "Jane", "jane@example.com")

	post, err := f.posts.CreatePost(ctx, uid, models.PostInput{Text: "  hello world  "})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Text != "hello world" || post.Name != "Jane" || post.User != uid {
		t.Errorf("post = %+v", post)
	}
	if post.Avatar == "" {
		t.Error("avatar was not copied from the author")
	}
	if post.Likes == nil || post.Comments == nil {
		t.Error("likes and comments must start as empty lists")
	}

	_, err = f.posts.CreatePost(ctx, uid, models.PostInput{Text: "   "})
	wantKind(t, err, models.KindValidation)
}

func TestPostAuthorFieldsAreFrozen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := f.register(t, "Jane", "jane@example.com")
	post, _ := f.posts.CreatePost(ctx, uid, models.PostInput{Text: "hello"})

	user, _ := f.repo.GetUserByID(ctx, uid)
	f.repo.DeleteUser(ctx, uid)
	user.Name = "Jane Renamed"
	user.Email = "renamed@example.com"
	f.repo.CreateUser(ctx, user)

	stored, err := f.posts.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if stored.Name != "Jane" {
		t.Errorf("name = %q, want the name at creation time", stored.Name)
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := f.register(t, "Jane", "jane@example.com")

	f.posts.CreatePost(ctx, uid, models.PostInput{Text: "older"})
	time.Sleep(2 * time.Millisecond)
	newer, _ := f.posts.CreatePost(ctx, uid, models.PostInput{Text: "newer"})

	posts, err := f.posts.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != newer.ID {
		t.Errorf("posts = %+v, want newest first", posts)
	}
}

func TestDeletePostOwnerOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.register(t, "Jane", "jane@example.com")
	other := f.register(t, "Bob", "bob@example.com")
	post, _ := f.posts.CreatePost(ctx, author, models.PostInput{Text: "hello"})

	err := f.posts.DeletePost(ctx, other, post.ID)
	if !errors.Is(err, models.ErrNotAuthorized) {
		t.Fatalf("got %v, want ErrNotAuthorized", err)
	}
	if _, err := f.posts.GetPost(ctx, post.ID); err != nil {
		t.Fatalf("post was deleted by a non-author: %v", err)
	}

	if err := f.posts.DeletePost(ctx, author, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if err := f.posts.DeletePost(ctx, author, post.ID); !errors.Is(err, models.ErrPostNotFound) {
		t.Fatalf("got %v, want ErrPostNotFound", err)
	}
}

func TestLikeTwiceConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := f.register(t, "Jane", "jane@example.com")
	post, _ := f.posts.CreatePost(ctx, uid, models.PostInput{Text: "hello"})

	likes, err := f.posts.Like(ctx, uid, post.ID)
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if len(likes) != 1 || likes[0].User != uid {
		t.Fatalf("likes = %+v", likes)
	}

	_, err = f.posts.Like(ctx, uid, post.ID)
	wantKind(t, err, models.KindConflict)

	stored, _ := f.posts.GetPost(ctx, post.ID)
	if len(stored.Likes) != 1 {
		t.Fatalf("likes = %+v, want exactly one entry", stored.Likes)
	}
}

func TestUnlike(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	jane := f.register(t, "Jane", "jane@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post, _ := f.posts.CreatePost(ctx, jane, models.PostInput{Text: "hello"})

	_, err := f.posts.Unlike(ctx, jane, post.ID)
	wantKind(t, err, models.KindConflict)

	f.posts.Like(ctx, jane, post.ID)
	f.posts.Like(ctx, bob, post.ID)

	likes, err := f.posts.Unlike(ctx, jane, post.ID)
	if err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if len(likes) != 1 || likes[0].User != bob {
		t.Fatalf("likes = %+v, want only bob", likes)
	}
}

func TestLikeMissingPost(t *testing.T) {
	f := newFixture()
	uid := f.register(t, "Jane", "jane@example.com")

	if _, err := f.posts.Like(context.Background(), uid, primitive.NewObjectID()); !errors.Is(err, models.ErrPostNotFound) {
		t.Fatalf("got %v, want ErrPostNotFound", err)
	}
}

func TestAddCommentInsertsAtHead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	jane := f.register(t, "Jane", "jane@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post, _ := f.posts.CreatePost(ctx, jane, models.PostInput{Text: "hello"})

	f.posts.AddComment(ctx, jane, post.ID, models.CommentInput{Text: "first"})
	comments, err := f.posts.AddComment(ctx, bob, post.ID, models.CommentInput{Text: "second"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "second" || comments[0].Name != "Bob" || comments[0].User != bob {
		t.Fatalf("comments = %+v", comments)
	}
	if comments[0].ID.IsZero() || comments[0].Date.IsZero() {
		t.Error("comment needs an id and a date")
	}

	_, err = f.posts.AddComment(ctx, bob, post.ID, models.CommentInput{Text: ""})
	wantKind(t, err, models.KindValidation)

	if _, err := f.posts.AddComment(ctx, bob, primitive.NewObjectID(), models.CommentInput{Text: "x"}); !errors.Is(err, models.ErrPostNotFound) {
		t.Fatalf("got %v, want ErrPostNotFound", err)
	}
}

func TestRemoveCommentByNonAuthor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	jane := f.register(t, "Jane", "jane@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post, _ := f.posts.CreatePost(ctx, jane, models.PostInput{Text: "hello"})
	comments, _ := f.posts.AddComment(ctx, jane, post.ID, models.CommentInput{Text: "mine"})

	_, err := f.posts.RemoveComment(ctx, bob, post.ID, comments[0].ID)
	if !errors.Is(err, models.ErrNotAuthorized) {
		t.Fatalf("got %v, want ErrNotAuthorized", err)
	}

	stored, _ := f.posts.GetPost(ctx, post.ID)
	if len(stored.Comments) != 1 {
		t.Fatalf("comments = %+v, want unchanged", stored.Comments)
	}

	_, err = f.posts.RemoveComment(ctx, jane, post.ID, primitive.NewObjectID())
	if !errors.Is(err, models.ErrCommentNotFound) {
		t.Fatalf("got %v, want ErrCommentNotFound", err)
	}
}

func TestRemoveCommentRemovesTargetedComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	jane := f.register(t, "Jane", "jane@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post, _ := f.posts.CreatePost(ctx, jane, models.PostInput{Text: "hello"})

	f.posts.AddComment(ctx, jane, post.ID, models.CommentInput{Text: "jane 1"})
	f.posts.AddComment(ctx, bob, post.ID, models.CommentInput{Text: "bob"})
	comments, _ := f.posts.AddComment(ctx, jane, post.ID, models.CommentInput{Text: "jane 2"})
	// newest first: jane 2, bob, jane 1
	target := comments[2].ID

	comments, err := f.posts.RemoveComment(ctx, jane, post.ID, target)
	if err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "jane 2" || comments[1].Text != "bob" {
		t.Fatalf("comments = %+v, want [jane 2, bob]", comments)
	}
}

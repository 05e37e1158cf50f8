package models

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	mockDB       = "devnet"
	postsNS      = mockDB + "." + PostsColName
	profilesNS   = mockDB + "." + ProfilesColName
	duplicateKey = 11000
)

func newMockRepo(mt *mtest.T) *MongodbRepo {
	return MongodbNewRepo(mt.Client, mockDB)
}

// modifiedReply answers a findAndModify. A nil doc means nothing matched.
func modifiedReply(doc interface{}) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

// countReply answers the aggregate CountDocuments runs.
func countReply(ns string, n int32) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func findReply(t *testing.T, ns string, v interface{}) bson.D {
	t.Helper()
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(t, v))
}

func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc
}

// nextCommand pops the next command sent to the mock server and checks its name.
func nextCommand(mt *mtest.T, name string) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	if evt == nil {
		mt.Fatalf("no %s command was sent", name)
	}
	if evt.CommandName != name {
		mt.Fatalf("command = %s, want %s", evt.CommandName, name)
	}
	return evt.Command
}

func wantObjectID(t *testing.T, cmd bson.Raw, want primitive.ObjectID, path ...string) {
	t.Helper()
	got, ok := cmd.Lookup(path...).ObjectIDOK()
	if !ok || got != want {
		t.Errorf("%v = %v, want %v", path, cmd.Lookup(path...), want)
	}
}

func TestMongoAddLike(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("pushes at head when absent", func(mt *mtest.T) {
		postID, userID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(modifiedReply(Post{ID: postID, Likes: []Like{{User: userID}}}))

		post, err := newMockRepo(mt).AddLike(ctx, postID, userID)
		if err != nil {
			mt.Fatalf("AddLike: %v", err)
		}
		if !post.LikedBy(userID) {
			mt.Errorf("likes = %+v", post.Likes)
		}

		cmd := nextCommand(mt, "findAndModify")
		wantObjectID(mt.T, cmd, postID, "query", "_id")
		wantObjectID(mt.T, cmd, userID, "query", "likes.user", "$ne")
		if pos, ok := cmd.Lookup("update", "$push", "likes", "$position").AsInt64OK(); !ok || pos != 0 {
			mt.Errorf("$position = %v", cmd.Lookup("update", "$push", "likes", "$position"))
		}
		wantObjectID(mt.T, cmd, userID, "update", "$push", "likes", "$each", "0", "user")
		if isNew, ok := cmd.Lookup("new").BooleanOK(); !ok || !isNew {
			mt.Error("update should return the modified document")
		}
	})

	mt.Run("already liked", func(mt *mtest.T) {
		postID := primitive.NewObjectID()
		mt.AddMockResponses(modifiedReply(nil), countReply(postsNS, 1))

		_, err := newMockRepo(mt).AddLike(ctx, postID, primitive.NewObjectID())
		if !errors.Is(err, ErrAlreadyLiked) {
			mt.Fatalf("got %v, want ErrAlreadyLiked", err)
		}
		nextCommand(mt, "findAndModify")
		cmd := nextCommand(mt, "aggregate")
		wantObjectID(mt.T, cmd, postID, "pipeline", "0", "$match", "_id")
	})

	mt.Run("post missing", func(mt *mtest.T) {
		mt.AddMockResponses(modifiedReply(nil), countReply(postsNS, 0))

		_, err := newMockRepo(mt).AddLike(ctx, primitive.NewObjectID(), primitive.NewObjectID())
		if !errors.Is(err, ErrPostNotFound) {
			mt.Fatalf("got %v, want ErrPostNotFound", err)
		}
	})
}

func TestMongoRemoveLike(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("pulls the caller's like", func(mt *mtest.T) {
		postID, userID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(modifiedReply(Post{ID: postID, Likes: []Like{}}))

		post, err := newMockRepo(mt).RemoveLike(ctx, postID, userID)
		if err != nil {
			mt.Fatalf("RemoveLike: %v", err)
		}
		if post.LikedBy(userID) {
			mt.Errorf("likes = %+v", post.Likes)
		}

		cmd := nextCommand(mt, "findAndModify")
		wantObjectID(mt.T, cmd, postID, "query", "_id")
		wantObjectID(mt.T, cmd, userID, "query", "likes.user")
		wantObjectID(mt.T, cmd, userID, "update", "$pull", "likes", "user")
	})

	mt.Run("not liked", func(mt *mtest.T) {
		mt.AddMockResponses(modifiedReply(nil), countReply(postsNS, 1))

		_, err := newMockRepo(mt).RemoveLike(ctx, primitive.NewObjectID(), primitive.NewObjectID())
		if !errors.Is(err, ErrNotLiked) {
			mt.Fatalf("got %v, want ErrNotLiked", err)
		}
	})

	mt.Run("post missing", func(mt *mtest.T) {
		mt.AddMockResponses(modifiedReply(nil), countReply(postsNS, 0))

		_, err := newMockRepo(mt).RemoveLike(ctx, primitive.NewObjectID(), primitive.NewObjectID())
		if !errors.Is(err, ErrPostNotFound) {
			mt.Fatalf("got %v, want ErrPostNotFound", err)
		}
	})
}

func TestMongoRemoveComment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("author removes comment", func(mt *mtest.T) {
		postID, commentID, userID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(modifiedReply(Post{ID: postID, Comments: []Comment{}}))

		post, err := newMockRepo(mt).RemoveComment(ctx, postID, commentID, userID)
		if err != nil {
			mt.Fatalf("RemoveComment: %v", err)
		}
		if len(post.Comments) != 0 {
			mt.Errorf("comments = %+v", post.Comments)
		}

		cmd := nextCommand(mt, "findAndModify")
		wantObjectID(mt.T, cmd, postID, "query", "_id")
		wantObjectID(mt.T, cmd, commentID, "query", "comments", "$elemMatch", "_id")
		wantObjectID(mt.T, cmd, userID, "query", "comments", "$elemMatch", "user")
		wantObjectID(mt.T, cmd, commentID, "update", "$pull", "comments", "_id")
	})

	mt.Run("someone else's comment", func(mt *mtest.T) {
		postID, commentID := primitive.NewObjectID(), primitive.NewObjectID()
		stored := Post{ID: postID, Comments: []Comment{{ID: commentID, User: primitive.NewObjectID(), Text: "hi"}}}
		mt.AddMockResponses(modifiedReply(nil), countReply(postsNS, 1), findReply(mt.T, postsNS, stored))

		_, err := newMockRepo(mt).RemoveComment(ctx, postID, commentID, primitive.NewObjectID())
		if !errors.Is(err, ErrNotAuthorized) {
			mt.Fatalf("got %v, want ErrNotAuthorized", err)
		}
		nextCommand(mt, "findAndModify")
		nextCommand(mt, "aggregate")
		cmd := nextCommand(mt, "find")
		wantObjectID(mt.T, cmd, postID, "filter", "_id")
	})

	mt.Run("comment missing", func(mt *mtest.T) {
		postID := primitive.NewObjectID()
		stored := Post{ID: postID, Comments: []Comment{{ID: primitive.NewObjectID(), Text: "other"}}}
		mt.AddMockResponses(modifiedReply(nil), countReply(postsNS, 1), findReply(mt.T, postsNS, stored))

		_, err := newMockRepo(mt).RemoveComment(ctx, postID, primitive.NewObjectID(), primitive.NewObjectID())
		if !errors.Is(err, ErrCommentNotFound) {
			mt.Fatalf("got %v, want ErrCommentNotFound", err)
		}
	})

	mt.Run("post missing", func(mt *mtest.T) {
		mt.AddMockResponses(modifiedReply(nil), countReply(postsNS, 0))

		_, err := newMockRepo(mt).RemoveComment(ctx, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())
		if !errors.Is(err, ErrPostNotFound) {
			mt.Fatalf("got %v, want ErrPostNotFound", err)
		}
		if evt := mt.GetAllStartedEvents(); len(evt) != 2 {
			mt.Errorf("sent %d commands, want findAndModify and aggregate only", len(evt))
		}
	})
}

func TestMongoAddCommentPushesAtHead(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("push", func(mt *mtest.T) {
		postID := primitive.NewObjectID()
		comment := Comment{ID: primitive.NewObjectID(), User: primitive.NewObjectID(), Text: "first"}
		mt.AddMockResponses(modifiedReply(Post{ID: postID, Comments: []Comment{comment}}))

		post, err := newMockRepo(mt).AddComment(context.Background(), postID, comment)
		if err != nil {
			mt.Fatalf("AddComment: %v", err)
		}
		if post.CommentIndex(comment.ID) != 0 {
			mt.Errorf("comments = %+v", post.Comments)
		}
		cmd := nextCommand(mt, "findAndModify")
		wantObjectID(mt.T, cmd, comment.ID, "update", "$push", "comments", "$each", "0", "_id")
	})
}

func TestMongoDeletePost(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("author deletes", func(mt *mtest.T) {
		postID, userID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		if err := newMockRepo(mt).DeletePost(ctx, postID, userID); err != nil {
			mt.Fatalf("DeletePost: %v", err)
		}
		cmd := nextCommand(mt, "delete")
		wantObjectID(mt.T, cmd, postID, "deletes", "0", "q", "_id")
		wantObjectID(mt.T, cmd, userID, "deletes", "0", "q", "user")
	})

	mt.Run("not the author", func(mt *mtest.T) {
		postID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}),
			findReply(mt.T, postsNS, Post{ID: postID, User: primitive.NewObjectID()}),
		)

		err := newMockRepo(mt).DeletePost(ctx, postID, primitive.NewObjectID())
		if !errors.Is(err, ErrNotAuthorized) {
			mt.Fatalf("got %v, want ErrNotAuthorized", err)
		}
	})

	mt.Run("post missing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}),
			mtest.CreateCursorResponse(0, postsNS, mtest.FirstBatch),
		)

		err := newMockRepo(mt).DeletePost(ctx, primitive.NewObjectID(), primitive.NewObjectID())
		if !errors.Is(err, ErrPostNotFound) {
			mt.Fatalf("got %v, want ErrPostNotFound", err)
		}
	})
}

package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepo mutates the embedded likes and comments of a post with single
// conditional updates; each call either applies fully or not at all.
type PostRepo interface {
	CreatePost(ctx context.Context, post *Post) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	GetPost(ctx context.Context, postId primitive.ObjectID) (*Post, error)
	DeletePost(ctx context.Context, postId, userId primitive.ObjectID) error
	DeletePostsByUser(ctx context.Context, userId primitive.ObjectID) (int64, error)
	AddLike(ctx context.Context, postId, userId primitive.ObjectID) (*Post, error)
	RemoveLike(ctx context.Context, postId, userId primitive.ObjectID) (*Post, error)
	AddComment(ctx context.Context, postId primitive.ObjectID, comment Comment) (*Post, error)
	RemoveComment(ctx context.Context, postId, commentId, userId primitive.ObjectID) (*Post, error)
}

func (mdb *MongodbRepo) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	col, err := mdb.GetCollection(ctx, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []Like{}
	}
	if post.Comments == nil {
		post.Comments = []Comment{}
	}
	if _, err := col.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

func (mdb *MongodbRepo) ListPosts(ctx context.Context) ([]*Post, error) {
	col, err := mdb.GetCollection(ctx, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("error decoding posts: %w", err)
	}
	return posts, nil
}

func (mdb *MongodbRepo) GetPost(ctx context.Context, postId primitive.ObjectID) (*Post, error) {
	col, err := mdb.GetCollection(ctx, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	var post Post
	if err := col.FindOne(ctx, bson.M{"_id": postId}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("error finding post: %w", err)
	}
	return &post, nil
}

func (mdb *MongodbRepo) DeletePost(ctx context.Context, postId, userId primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, PostsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": postId, "user": userId})
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if res.DeletedCount > 0 {
		return nil
	}
	if _, err := mdb.GetPost(ctx, postId); err != nil {
		return err
	}
	return ErrNotAuthorized
}

func (mdb *MongodbRepo) DeletePostsByUser(ctx context.Context, userId primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, PostsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.DeleteMany(ctx, bson.M{"user": userId})
	if err != nil {
		return 0, fmt.Errorf("error deleting posts: %w", err)
	}
	return res.DeletedCount, nil
}

// AddLike inserts userId at the head of likes only if it is not already
// there; the membership test and the push are one server-side update.
func (mdb *MongodbRepo) AddLike(ctx context.Context, postId, userId primitive.ObjectID) (*Post, error) {
	filter := bson.M{"_id": postId, "likes.user": bson.M{"$ne": userId}}
	update := bson.M{
		"$push": bson.M{
			"likes": bson.M{"$each": bson.A{Like{User: userId}}, "$position": 0},
		},
	}
	return mdb.updatePost(ctx, postId, filter, update, ErrAlreadyLiked)
}

func (mdb *MongodbRepo) RemoveLike(ctx context.Context, postId, userId primitive.ObjectID) (*Post, error) {
	filter := bson.M{"_id": postId, "likes.user": userId}
	update := bson.M{"$pull": bson.M{"likes": bson.M{"user": userId}}}
	return mdb.updatePost(ctx, postId, filter, update, ErrNotLiked)
}

func (mdb *MongodbRepo) AddComment(ctx context.Context, postId primitive.ObjectID, comment Comment) (*Post, error) {
	filter := bson.M{"_id": postId}
	update := bson.M{
		"$push": bson.M{
			"comments": bson.M{"$each": bson.A{comment}, "$position": 0},
		},
	}
	return mdb.updatePost(ctx, postId, filter, update, ErrPostNotFound)
}

// RemoveComment pulls the comment with commentId when it was written by
// userId. When nothing matches, the stored post decides which error applies.
func (mdb *MongodbRepo) RemoveComment(ctx context.Context, postId, commentId, userId primitive.ObjectID) (*Post, error) {
	filter := bson.M{
		"_id":      postId,
		"comments": bson.M{"$elemMatch": bson.M{"_id": commentId, "user": userId}},
	}
	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentId}}}

	post, err := mdb.updatePost(ctx, postId, filter, update, ErrNotAuthorized)
	if !errors.Is(err, ErrNotAuthorized) {
		return post, err
	}
	current, err := mdb.GetPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	if current.CommentIndex(commentId) < 0 {
		return nil, ErrCommentNotFound
	}
	return nil, ErrNotAuthorized
}

// updatePost applies update to the post matched by filter. If filter matches
// nothing, it returns ErrPostNotFound when the post is gone and unmatched
// otherwise.
func (mdb *MongodbRepo) updatePost(ctx context.Context, postId primitive.ObjectID, filter, update bson.M, unmatched error) (*Post, error) {
	col, err := mdb.GetCollection(ctx, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post Post
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err == nil {
		return &post, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	count, err := col.CountDocuments(ctx, bson.M{"_id": postId})
	if err != nil {
		return nil, fmt.Errorf("error counting posts: %w", err)
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}
	return nil, unmatched
}

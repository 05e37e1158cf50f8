package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepo interface {
	GetProfileByUser(ctx context.Context, userId primitive.ObjectID) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	// UpsertProfile applies changes to the user's profile. A missing profile
	// is created only when allowCreate is set, otherwise ErrProfileNotFound.
	UpsertProfile(ctx context.Context, userId primitive.ObjectID, changes *ProfileChanges, allowCreate bool) (*Profile, error)
	PushExperience(ctx context.Context, userId primitive.ObjectID, exp Experience) (*Profile, error)
	PullExperience(ctx context.Context, userId, expId primitive.ObjectID) (*Profile, error)
	PushEducation(ctx context.Context, userId primitive.ObjectID, edu Education) (*Profile, error)
	PullEducation(ctx context.Context, userId, eduId primitive.ObjectID) (*Profile, error)
	DeleteProfile(ctx context.Context, userId primitive.ObjectID) error
}

// profileWithOwner joins the owning user's name and avatar onto profiles.
func profileWithOwner(match bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersColName},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "owner.email", Value: 0},
			{Key: "owner.password", Value: 0},
			{Key: "owner.date", Value: 0},
		}}},
	}
}

func (mdb *MongodbRepo) GetProfileByUser(ctx context.Context, userId primitive.ObjectID) (*Profile, error) {
	profiles, err := mdb.aggregateProfiles(ctx, bson.D{{Key: "user", Value: userId}})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrProfileNotFound
	}
	return profiles[0], nil
}

func (mdb *MongodbRepo) ListProfiles(ctx context.Context) ([]*Profile, error) {
	return mdb.aggregateProfiles(ctx, bson.D{})
}

func (mdb *MongodbRepo) aggregateProfiles(ctx context.Context, match bson.D) ([]*Profile, error) {
	col, err := mdb.GetCollection(ctx, ProfilesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	cursor, err := col.Aggregate(ctx, profileWithOwner(match))
	if err != nil {
		return nil, fmt.Errorf("error aggregating profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []*Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("error decoding profiles: %w", err)
	}
	return profiles, nil
}

func (mdb *MongodbRepo) UpsertProfile(ctx context.Context, userId primitive.ObjectID, changes *ProfileChanges, allowCreate bool) (*Profile, error) {
	col, err := mdb.GetCollection(ctx, ProfilesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	set := changes.SetDoc()
	if len(set) == 0 {
		// nothing to write; the stored document is the result
		return mdb.findProfile(ctx, col, userId)
	}

	update := bson.M{"$set": set}
	if allowCreate {
		update["$setOnInsert"] = bson.M{
			"experience": []Experience{},
			"education":  []Education{},
			"date":       time.Now(),
		}
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(allowCreate).
		SetReturnDocument(options.After)

	var profile Profile
	err = col.FindOneAndUpdate(ctx, bson.M{"user": userId}, update, opts).Decode(&profile)
	if err != nil && allowCreate && mongo.IsDuplicateKeyError(err) {
		// a concurrent request created the profile first; the retry updates it
		err = col.FindOneAndUpdate(ctx, bson.M{"user": userId}, update, opts).Decode(&profile)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("error upserting profile: %w", err)
	}
	return &profile, nil
}

func (mdb *MongodbRepo) findProfile(ctx context.Context, col *mongo.Collection, userId primitive.ObjectID) (*Profile, error) {
	var profile Profile
	if err := col.FindOne(ctx, bson.M{"user": userId}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("error finding profile: %w", err)
	}
	return &profile, nil
}

func (mdb *MongodbRepo) PushExperience(ctx context.Context, userId primitive.ObjectID, exp Experience) (*Profile, error) {
	return mdb.pushProfileItem(ctx, userId, "experience", exp)
}

func (mdb *MongodbRepo) PushEducation(ctx context.Context, userId primitive.ObjectID, edu Education) (*Profile, error) {
	return mdb.pushProfileItem(ctx, userId, "education", edu)
}

// pushProfileItem inserts item at the head of the named embedded list.
func (mdb *MongodbRepo) pushProfileItem(ctx context.Context, userId primitive.ObjectID, field string, item interface{}) (*Profile, error) {
	col, err := mdb.GetCollection(ctx, ProfilesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	update := bson.M{
		"$push": bson.M{
			field: bson.M{"$each": bson.A{item}, "$position": 0},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile Profile
	if err := col.FindOneAndUpdate(ctx, bson.M{"user": userId}, update, opts).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("error adding %s: %w", field, err)
	}
	return &profile, nil
}

func (mdb *MongodbRepo) PullExperience(ctx context.Context, userId, expId primitive.ObjectID) (*Profile, error) {
	return mdb.pullProfileItem(ctx, userId, "experience", expId, ErrExperienceNotFound)
}

func (mdb *MongodbRepo) PullEducation(ctx context.Context, userId, eduId primitive.ObjectID) (*Profile, error) {
	return mdb.pullProfileItem(ctx, userId, "education", eduId, ErrEducationNotFound)
}

// pullProfileItem removes the item with itemId from the named list. The
// filter only matches when the item exists, so an unknown id changes nothing.
func (mdb *MongodbRepo) pullProfileItem(ctx context.Context, userId primitive.ObjectID, field string, itemId primitive.ObjectID, missing error) (*Profile, error) {
	col, err := mdb.GetCollection(ctx, ProfilesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	filter := bson.M{"user": userId, field + "._id": itemId}
	update := bson.M{"$pull": bson.M{field: bson.M{"_id": itemId}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile Profile
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error removing %s: %w", field, err)
	}

	count, err := col.CountDocuments(ctx, bson.M{"user": userId})
	if err != nil {
		return nil, fmt.Errorf("error counting profiles: %w", err)
	}
	if count == 0 {
		return nil, ErrProfileNotFound
	}
	return nil, missing
}

func (mdb *MongodbRepo) DeleteProfile(ctx context.Context, userId primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, ProfilesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	if _, err := col.DeleteOne(ctx, bson.M{"user": userId}); err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}
	return nil
}

package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the store relies on. The unique ones
// enforce one account per email and one profile per user.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersColName: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
		},
		ProfilesColName: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_unique"),
			},
		},
		PostsColName: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetName("user_idx"),
			},
			{
				Keys:    bson.D{{Key: "date", Value: -1}},
				Options: options.Index().SetName("date_desc_idx"),
			},
		},
	}

	for colName, models := range indexes {
		col, err := mdb.GetCollection(ctx, colName)
		if err != nil {
			return fmt.Errorf("error getting collection: %v", err)
		}
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes on %s: %v", colName, err)
		}
	}
	return nil
}

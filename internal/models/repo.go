package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UsersColName    = "users"
	ProfilesColName = "profiles"
	PostsColName    = "posts"
)

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

var (
	_ UserRepo    = (*MongodbRepo)(nil)
	_ ProfileRepo = (*MongodbRepo)(nil)
	_ PostRepo    = (*MongodbRepo)(nil)
	_ UserRepo    = (*MemoryRepo)(nil)
	_ ProfileRepo = (*MemoryRepo)(nil)
	_ PostRepo    = (*MemoryRepo)(nil)
)

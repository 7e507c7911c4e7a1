package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  []byte             `bson:"password"`
	CreatedAt primitive.DateTime `bson:"created_at"`
	UpdatedAt primitive.DateTime `bson:"updated_at"`
}

func (db Database) UserInsert(ctx context.Context, u User) (string, error) {
	res, err := db.Collection(CollectionUsers).InsertOne(ctx, u)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting User with username: %s", u.Username)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("error getting ID of inserted User with username: %s", u.Username)
	}
	return id.Hex(), nil
}

func (db Database) UserFindByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := db.Collection(CollectionUsers).FindOne(ctx, bson.M{"username": username}).Decode(&u)
	return u, errors.Wrapf(err, "error finding User with username: %s", username)
}

func (db Database) UserFindByID(ctx context.Context, userID string) (User, error) {
	var u User
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return u, errors.Wrapf(err, "error parsing User ID: %s", userID)
	}
	err = db.Collection(CollectionUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, errors.Wrapf(err, "error finding User with ID: %s", userID)
}

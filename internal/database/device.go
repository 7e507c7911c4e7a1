package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Device holds one FCM registration token for push delivery.
type Device struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	FCMToken  string             `bson:"fcm_token"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

// DeviceUpsert reassigns the token to the given identity when it is already
// registered, so a device follows whoever signed in on it last.
func (db Database) DeviceUpsert(ctx context.Context, d Device) error {
	opts := options.Update().SetUpsert(true)
	_, err := db.Collection(CollectionDevices).UpdateOne(
		ctx,
		bson.M{"fcm_token": d.FCMToken},
		bson.M{
			"$set":         bson.M{"user_id": d.UserID},
			"$setOnInsert": bson.M{"fcm_token": d.FCMToken, "created_at": d.CreatedAt},
		},
		opts,
	)
	return errors.Wrapf(err, "error upserting Device for user: %s", d.UserID)
}

func (db Database) DeviceTokensFindByUser(ctx context.Context, userID string) ([]string, error) {
	var ds []Device
	cur, err := db.Collection(CollectionDevices).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find Devices for user: %s", userID)
	}
	if err = cur.All(ctx, &ds); err != nil {
		return nil, errors.Wrapf(err, "error getting Devices from cursor for user: %s", userID)
	}
	tokens := make([]string, 0, len(ds))
	for _, d := range ds {
		tokens = append(tokens, d.FCMToken)
	}
	return tokens, nil
}

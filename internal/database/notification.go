package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Notification struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   string             `bson:"user_id"`
	ItemID   string             `bson:"item_id"`
	ItemName string             `bson:"item_name"`
	Message  string             `bson:"message"`
	Channel  string             `bson:"channel"`
	Read     bool               `bson:"read"`
	SentAt   primitive.DateTime `bson:"sent_at"`
}

func (db Database) NotificationInsert(ctx context.Context, n Notification) error {
	_, err := db.Collection(CollectionNotifications).InsertOne(ctx, n)
	return errors.Wrapf(err, "error inserting Notification for Item with ID: %s for user: %s", n.ItemID, n.UserID)
}

func (db Database) NotificationsFindByUser(ctx context.Context, userID string) ([]Notification, error) {
	var ns []Notification
	opts := options.Find().SetSort(bson.M{"sent_at": -1})
	cur, err := db.Collection(CollectionNotifications).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find Notifications for user: %s", userID)
	}
	if err = cur.All(ctx, &ns); err != nil {
		return nil, errors.Wrapf(err, "error getting Notifications from cursor for user: %s", userID)
	}
	return ns, nil
}

func (db Database) NotificationMarkRead(ctx context.Context, userID string, notificationID string) error {
	id, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return errors.Wrapf(err, "error parsing Notification ID: %s", notificationID)
	}
	res, err := db.Collection(CollectionNotifications).UpdateOne(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return errors.Wrapf(err, "error marking Notification with ID: %s as read for user: %s", notificationID, userID)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrNoDocumentsModified, "Notification with ID: %s for user: %s", notificationID, userID)
	}
	return nil
}

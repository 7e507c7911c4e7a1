package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Item is one tracked product for one identity. Timestamps are RFC3339
// strings since that is what travels on the wire.
type Item struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID              string             `bson:"user_id" json:"user_id"`
	ItemID              string             `bson:"item_id" json:"item_id"`
	URL                 string             `bson:"url" json:"url"`
	ProductName         string             `bson:"product_name,omitempty" json:"product_name,omitempty"`
	Store               string             `bson:"store,omitempty" json:"store,omitempty"`
	TargetPrice         float64            `bson:"target_price" json:"target_price"`
	LastPrice           *float64           `bson:"last_price,omitempty" json:"last_price,omitempty"`
	CurrencyCode        string             `bson:"currency_code,omitempty" json:"currency_code,omitempty"`
	Status              string             `bson:"status" json:"status"`
	FrequencyMinutes    int                `bson:"frequency_minutes" json:"frequency_minutes"`
	NotificationChannel string             `bson:"notification_channel" json:"notification_channel"`
	AddedBy             string             `bson:"added_by,omitempty" json:"added_by,omitempty"`
	NotificationEmail   string             `bson:"notification_email,omitempty" json:"notification_email,omitempty"`
	NotificationPhone   string             `bson:"notification_phone,omitempty" json:"notification_phone,omitempty"`
	LastChecked         string             `bson:"last_checked,omitempty" json:"last_checked,omitempty"`
	LastNotifiedAt      string             `bson:"last_notified_at,omitempty" json:"last_notified_at,omitempty"`
	CreatedAt           string             `bson:"created_at" json:"created_at"`
}

func (db Database) ItemInsert(ctx context.Context, i Item) error {
	_, err := db.Collection(CollectionItems).InsertOne(ctx, i)
	return errors.Wrapf(err, "error inserting Item with ID: %s for user: %s", i.ItemID, i.UserID)
}

func (db Database) ItemsFindByUser(ctx context.Context, userID string) ([]Item, error) {
	var is []Item
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := db.Collection(CollectionItems).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find Items for user: %s", userID)
	}
	if err = cur.All(ctx, &is); err != nil {
		return nil, errors.Wrapf(err, "error getting Items from cursor for user: %s", userID)
	}
	return is, nil
}

func (db Database) ItemFindOne(ctx context.Context, userID string, itemID string) (Item, error) {
	var i Item
	err := db.Collection(CollectionItems).FindOne(ctx, bson.M{"user_id": userID, "item_id": itemID}).Decode(&i)
	return i, errors.Wrapf(err, "error finding Item with ID: %s for user: %s", itemID, userID)
}

// ItemUpdateFields applies a partial update and returns the item as stored
// afterwards.
func (db Database) ItemUpdateFields(ctx context.Context, userID string, itemID string, fields bson.M) (Item, error) {
	var i Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := db.Collection(CollectionItems).FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID, "item_id": itemID},
		bson.M{"$set": fields},
		opts,
	).Decode(&i)
	return i, errors.Wrapf(err, "error updating Item with ID: %s for user: %s", itemID, userID)
}

func (db Database) ItemDelete(ctx context.Context, userID string, itemID string) error {
	res, err := db.Collection(CollectionItems).DeleteOne(ctx, bson.M{"user_id": userID, "item_id": itemID})
	if err != nil {
		return errors.Wrapf(err, "error deleting Item with ID: %s for user: %s", itemID, userID)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(ErrNoDocumentsModified, "Item with ID: %s for user: %s", itemID, userID)
	}
	return nil
}

// ItemsFindActive returns every item the scanner should check.
func (db Database) ItemsFindActive(ctx context.Context) ([]Item, error) {
	var is []Item
	cur, err := db.Collection(CollectionItems).Find(ctx, bson.M{"status": "ACTIVE"})
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find active Items")
	}
	if err = cur.All(ctx, &is); err != nil {
		return nil, errors.Wrap(err, "error getting active Items from cursor")
	}
	return is, nil
}

// ItemScanUpdate records the outcome of one price observation: last_checked
// always, last_price when one was extracted, status when the target was hit.
func (db Database) ItemScanUpdate(ctx context.Context, userID string, itemID string, lastPrice *float64, targetHit bool, checkedAt string) error {
	set := bson.M{"last_checked": checkedAt}
	if lastPrice != nil {
		set["last_price"] = *lastPrice
	}
	if targetHit {
		set["status"] = "TARGET_HIT"
	}
	res, err := db.Collection(CollectionItems).UpdateOne(
		ctx,
		bson.M{"user_id": userID, "item_id": itemID},
		bson.M{"$set": set},
	)
	if err != nil {
		return errors.Wrapf(err, "error recording scan for Item with ID: %s for user: %s", itemID, userID)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrNoDocumentsModified, "Item with ID: %s for user: %s", itemID, userID)
	}
	return nil
}

func (db Database) ItemLastNotifiedUpdate(ctx context.Context, userID string, itemID string, sentAt string) error {
	_, err := db.Collection(CollectionItems).UpdateOne(
		ctx,
		bson.M{"user_id": userID, "item_id": itemID},
		bson.M{"$set": bson.M{"last_notified_at": sentAt}},
	)
	return errors.Wrapf(err, "error updating last_notified_at for Item with ID: %s for user: %s", itemID, userID)
}

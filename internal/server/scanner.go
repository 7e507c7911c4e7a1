package server

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pricepulse/internal/client"
	"pricepulse/internal/database"
	"pricepulse/internal/misc"
	"pricepulse/internal/model"
)

func (s Server) ScanPricesInInterval(ctx context.Context, ticker *time.Ticker) {
	for range ticker.C {
		s.scanPrices(ctx)
	}
}

// scanPrices checks every active item once. A failed extraction only stamps
// last_checked so the item shows up as recently scanned; a price at or below
// the target flips the item to TARGET_HIT and sends the alert.
func (s Server) scanPrices(ctx context.Context) {
	s.Logger.Info("scanPrices: Starting price scan for all active Items")
	is, err := s.DB.ItemsFindActive(ctx)
	if err != nil {
		s.Logger.Errorf("scanPrices: Error getting active Items from DB, err: %v", err)
		return
	}
	s.Logger.Infof("scanPrices: Retrieved %d active Item(s) from DB", len(is))

	for _, i := range is {
		time.Sleep(300 * time.Millisecond)
		itemName := misc.StringLimit(i.ProductName, 45)
		s.Logger.Infof("scanPrices: Checking price for Item: %s, ID: %s", itemName, i.ItemID)

		now := time.Now().UTC().Format(time.RFC3339)
		ext, err := s.Client.ExtractProductDetails(ctx, i.URL)
		if err != nil || ext.CurrentPrice == nil {
			s.Logger.Errorf("scanPrices: Error extracting price for Item: %s, url: %s, err: %v", itemName, i.URL, err)
			if err := s.DB.ItemScanUpdate(ctx, i.UserID, i.ItemID, nil, false, now); err != nil {
				s.Logger.Errorf("scanPrices: Error recording failed scan for Item: %s, err: %v", itemName, err)
			}
			continue
		}

		price := *ext.CurrentPrice
		targetHit := price <= i.TargetPrice
		if err := s.DB.ItemScanUpdate(ctx, i.UserID, i.ItemID, &price, targetHit, now); err != nil {
			s.Logger.Errorf("scanPrices: Error recording scan for Item: %s, err: %v", itemName, err)
			continue
		}
		if !targetHit {
			continue
		}

		s.Logger.Infof("scanPrices: Target hit for Item: %s, ID: %s, price: %.2f, target: %.2f",
			itemName, i.ItemID, price, i.TargetPrice)
		s.notifyTargetHit(ctx, i, price)
	}
	s.Logger.Info("scanPrices: Finished price scan")
}

func (s Server) notifyTargetHit(ctx context.Context, i database.Item, price float64) {
	itemName := misc.StringLimit(i.ProductName, 45)
	message := fmt.Sprintf("%s dropped to %.2f, at or below your target of %.2f", i.ProductName, price, i.TargetPrice)

	channel := model.NormalizeChannel(i.NotificationChannel)
	sentAt := time.Now()
	err := s.DB.NotificationInsert(ctx, database.Notification{
		UserID:   i.UserID,
		ItemID:   i.ItemID,
		ItemName: i.ProductName,
		Message:  message,
		Channel:  model.APIChannel(channel),
		SentAt:   primitive.NewDateTimeFromTime(sentAt),
	})
	if err != nil {
		s.Logger.Errorf("notifyTargetHit: Error inserting Notification for Item: %s, err: %v", itemName, err)
		return
	}

	switch channel {
	case model.ChannelEmail:
		if i.NotificationEmail == "" {
			s.Logger.Warnf("notifyTargetHit: No notification email on Item: %s, ID: %s, alert recorded only", itemName, i.ItemID)
			break
		}
		if err := s.Client.SendEmail(i.NotificationEmail, "Price alert: "+i.ProductName, message); err != nil {
			s.Logger.Errorf("notifyTargetHit: Error sending email for Item: %s, err: %v", itemName, err)
		}
	case model.ChannelPush:
		tokens, err := s.DB.DeviceTokensFindByUser(ctx, i.UserID)
		if err != nil {
			s.Logger.Errorf("notifyTargetHit: Error finding Devices for user: %s, err: %v", i.UserID, err)
			break
		}
		if len(tokens) == 0 {
			s.Logger.Warnf("notifyTargetHit: No registered devices for user: %s, alert recorded only", i.UserID)
			break
		}
		fcmResp, err := s.Client.FCMSendNotification(ctx, client.FCMSendRequest{
			Notification: client.FCMNotification{
				Title: "Price alert: " + i.ProductName,
				Body:  message,
				Sound: "default",
			},
			Data:            client.FCMData{ItemID: i.ItemID},
			RegistrationIDs: tokens,
		})
		if err != nil {
			s.Logger.Errorf("notifyTargetHit: Error sending FCM notification for Item: %s, err: %v", itemName, err)
			break
		}
		s.Logger.Infof("notifyTargetHit: Sent FCM notification for Item: %s, success: %d, failure: %d",
			itemName, fcmResp.Success, fcmResp.Failure)
	default:
		// SMS has no delivery path yet; the in-app record above is the alert.
		s.Logger.Infof("notifyTargetHit: Channel %s on Item: %s recorded without delivery", channel, itemName)
	}

	err = s.DB.ItemLastNotifiedUpdate(ctx, i.UserID, i.ItemID, sentAt.UTC().Format(time.RFC3339))
	if err != nil {
		s.Logger.Errorf("notifyTargetHit: Error updating last_notified_at for Item: %s, err: %v", itemName, err)
	}
}

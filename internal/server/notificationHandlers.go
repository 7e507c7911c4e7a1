package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pricepulse/internal/database"
)

type notificationResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Message  string `json:"message"`
	Channel  string `json:"channel"`
	Read     bool   `json:"read"`
	SentAt   string `json:"sent_at"`
}

func toNotificationResponse(n database.Notification) notificationResponse {
	return notificationResponse{
		ID:       n.ID.Hex(),
		ItemID:   n.ItemID,
		ItemName: n.ItemName,
		Message:  n.Message,
		Channel:  n.Channel,
		Read:     n.Read,
		SentAt:   n.SentAt.Time().UTC().Format(time.RFC3339),
	}
}

func (s Server) notificationList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("notificationList: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ns, err := s.DB.NotificationsFindByUser(r.Context(), ic.userID)
		if err != nil {
			s.Logger.Errorf("notificationList: Error finding Notifications, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		resp := make([]notificationResponse, 0, len(ns))
		for _, n := range ns {
			resp = append(resp, toNotificationResponse(n))
		}
		s.writeJsonResponse(w, resp, http.StatusOK)
	}
}

func (s Server) notificationMarkRead() http.HandlerFunc {
	type response struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("notificationMarkRead: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		notificationID := mux.Vars(r)["notificationID"]
		if err := s.DB.NotificationMarkRead(r.Context(), ic.userID, notificationID); err != nil {
			if errors.Is(err, database.ErrNoDocumentsModified) {
				s.Logger.Debugf("notificationMarkRead: Notification not found with ID: %s, TraceID: %s", notificationID, tid)
				s.writeMessage(w, http.StatusNotFound, "Notification not found")
				return
			}
			s.Logger.Errorf("notificationMarkRead: Error marking Notification with ID: %s, err: %v, TraceID: %s", notificationID, err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		s.writeJsonResponse(w, response{Message: "Notification marked as read"}, http.StatusOK)
	}
}

func (s Server) deviceRegister() http.HandlerFunc {
	type request struct {
		FCMToken string `json:"fcm_token"`
	}
	type response struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("deviceRegister: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("deviceRegister: Error decoding JSON, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.FCMToken) == "" {
			s.writeMessage(w, http.StatusBadRequest, "fcm_token is required")
			return
		}

		err = s.DB.DeviceUpsert(r.Context(), database.Device{
			UserID:    ic.userID,
			FCMToken:  req.FCMToken,
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		})
		if err != nil {
			s.Logger.Errorf("deviceRegister: Error upserting Device, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		s.Logger.Infof("deviceRegister: Registered device for user: %s, TraceID: %s", ic.userID, tid)
		s.writeJsonResponse(w, response{Message: "Device registered"}, http.StatusOK)
	}
}

// testExtract runs the price extractor against an arbitrary URL without
// creating an item, so the add-item form can prefill its fields.
func (s Server) testExtract() http.HandlerFunc {
	type request struct {
		URL string `json:"url"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("testExtract: Error decoding JSON, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			s.writeMessage(w, http.StatusBadRequest, "url is required")
			return
		}

		res, err := s.Client.ExtractProductDetails(r.Context(), req.URL)
		if err != nil {
			s.Logger.Debugf("testExtract: Error extracting details from url: %s, err: %v, TraceID: %s", req.URL, err, tid)
			s.writeMessage(w, http.StatusBadGateway, "Unable to detect product details")
			return
		}
		s.writeJsonResponse(w, res, http.StatusOK)
	}
}

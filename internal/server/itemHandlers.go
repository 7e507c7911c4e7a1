package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pricepulse/internal/database"
	"pricepulse/internal/model"
)

func (s Server) itemList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemList: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		is, err := s.DB.ItemsFindByUser(r.Context(), ic.userID)
		if err != nil {
			s.Logger.Errorf("itemList: Error finding Items, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if is == nil {
			is = []database.Item{}
		}
		s.writeJsonResponse(w, is, http.StatusOK)
	}
}

func (s Server) itemGetOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemGetOne: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		itemID := mux.Vars(r)["itemID"]
		i, err := s.DB.ItemFindOne(r.Context(), ic.userID, itemID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				s.Logger.Debugf("itemGetOne: Item not found with ID: %s, TraceID: %s", itemID, tid)
				s.writeMessage(w, http.StatusNotFound, "Item not found")
				return
			}
			s.Logger.Errorf("itemGetOne: Error finding Item with ID: %s, err: %v, TraceID: %s", itemID, err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		s.writeJsonResponse(w, i, http.StatusOK)
	}
}

func (s Server) itemCreate() http.HandlerFunc {
	type request struct {
		ItemID              string   `json:"item_id"`
		URL                 string   `json:"url"`
		ProductName         string   `json:"product_name"`
		Store               string   `json:"store"`
		TargetPrice         *float64 `json:"target_price"`
		LastPrice           *float64 `json:"last_price"`
		CurrencyCode        string   `json:"currency_code"`
		Status              string   `json:"status"`
		LastChecked         string   `json:"last_checked"`
		FrequencyMinutes    *int     `json:"frequency_minutes"`
		NotificationChannel string   `json:"notification_channel"`
		AddedBy             string   `json:"added_by"`
		NotificationEmail   string   `json:"notification_email"`
		NotificationPhone   string   `json:"notification_phone"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemCreate: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("itemCreate: Error decoding JSON, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var missing []string
		if strings.TrimSpace(req.URL) == "" {
			missing = append(missing, "url")
		}
		if req.TargetPrice == nil {
			missing = append(missing, "target_price")
		}
		if len(missing) > 0 {
			s.writeMessage(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
			return
		}
		if _, err := url.ParseRequestURI(req.URL); err != nil {
			s.Logger.Debugf("itemCreate: Bad url: %s, err: %v, TraceID: %s", req.URL, err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid url")
			return
		}

		i := database.Item{
			UserID:              ic.userID,
			ItemID:              req.ItemID,
			URL:                 req.URL,
			ProductName:         req.ProductName,
			Store:               req.Store,
			TargetPrice:         *req.TargetPrice,
			LastPrice:           req.LastPrice,
			CurrencyCode:        req.CurrencyCode,
			Status:              req.Status,
			NotificationChannel: req.NotificationChannel,
			AddedBy:             req.AddedBy,
			NotificationEmail:   req.NotificationEmail,
			NotificationPhone:   req.NotificationPhone,
			LastChecked:         req.LastChecked,
			CreatedAt:           time.Now().UTC().Format(time.RFC3339),
		}
		if i.ItemID == "" {
			i.ItemID = uuid.NewString()
		}
		if i.Status == "" {
			i.Status = model.APIStatusActive
		}
		if req.FrequencyMinutes != nil {
			i.FrequencyMinutes = *req.FrequencyMinutes
		} else {
			i.FrequencyMinutes = model.DefaultFrequencyMinutes
		}
		if i.NotificationChannel == "" {
			i.NotificationChannel = "email"
		}

		if err := s.DB.ItemInsert(r.Context(), i); err != nil {
			if mongo.IsDuplicateKeyError(errors.Cause(err)) {
				s.Logger.Debugf("itemCreate: Duplicate Item with ID: %s, TraceID: %s", i.ItemID, tid)
				s.writeMessage(w, http.StatusConflict, "Item already exists")
				return
			}
			s.Logger.Errorf("itemCreate: Error inserting Item, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.Logger.Infof("itemCreate: Created Item with ID: %s for user: %s, TraceID: %s", i.ItemID, ic.userID, tid)
		s.writeJsonResponse(w, i, http.StatusCreated)
	}
}

func (s Server) itemUpdate() http.HandlerFunc {
	type request struct {
		URL                 *string  `json:"url"`
		ProductName         *string  `json:"product_name"`
		Store               *string  `json:"store"`
		TargetPrice         *float64 `json:"target_price"`
		LastPrice           *float64 `json:"last_price"`
		CurrencyCode        *string  `json:"currency_code"`
		Status              *string  `json:"status"`
		FrequencyMinutes    *int     `json:"frequency_minutes"`
		NotificationChannel *string  `json:"notification_channel"`
		AddedBy             *string  `json:"added_by"`
		NotificationEmail   *string  `json:"notification_email"`
		NotificationPhone   *string  `json:"notification_phone"`
		LastChecked         *string  `json:"last_checked"`
		LastNotifiedAt      *string  `json:"last_notified_at"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemUpdate: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("itemUpdate: Error decoding JSON, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		fields := bson.M{}
		setString := func(key string, v *string) {
			if v != nil {
				fields[key] = *v
			}
		}
		setString("url", req.URL)
		setString("product_name", req.ProductName)
		setString("store", req.Store)
		setString("currency_code", req.CurrencyCode)
		setString("status", req.Status)
		setString("notification_channel", req.NotificationChannel)
		setString("added_by", req.AddedBy)
		setString("notification_email", req.NotificationEmail)
		setString("notification_phone", req.NotificationPhone)
		setString("last_checked", req.LastChecked)
		setString("last_notified_at", req.LastNotifiedAt)
		if req.TargetPrice != nil {
			fields["target_price"] = *req.TargetPrice
		}
		if req.LastPrice != nil {
			fields["last_price"] = *req.LastPrice
		}
		if req.FrequencyMinutes != nil {
			fields["frequency_minutes"] = *req.FrequencyMinutes
		}
		if len(fields) == 0 {
			s.writeMessage(w, http.StatusBadRequest, "No fields provided for update")
			return
		}

		itemID := mux.Vars(r)["itemID"]
		i, err := s.DB.ItemUpdateFields(r.Context(), ic.userID, itemID, fields)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				s.Logger.Debugf("itemUpdate: Item not found with ID: %s, TraceID: %s", itemID, tid)
				s.writeMessage(w, http.StatusNotFound, "Item not found")
				return
			}
			s.Logger.Errorf("itemUpdate: Error updating Item with ID: %s, err: %v, TraceID: %s", itemID, err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.Logger.Infof("itemUpdate: Updated Item with ID: %s for user: %s, TraceID: %s", itemID, ic.userID, tid)
		s.writeJsonResponse(w, i, http.StatusOK)
	}
}

func (s Server) itemDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ic, err := getIdentityContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemDelete: Error getting identityContext, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		itemID := mux.Vars(r)["itemID"]
		if err := s.DB.ItemDelete(r.Context(), ic.userID, itemID); err != nil {
			if errors.Is(err, database.ErrNoDocumentsModified) {
				s.Logger.Debugf("itemDelete: Item not found with ID: %s, TraceID: %s", itemID, tid)
				s.writeMessage(w, http.StatusNotFound, "Item not found")
				return
			}
			s.Logger.Errorf("itemDelete: Error deleting Item with ID: %s, err: %v, TraceID: %s", itemID, err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.Logger.Infof("itemDelete: Deleted Item with ID: %s for user: %s, TraceID: %s", itemID, ic.userID, tid)
		w.WriteHeader(http.StatusNoContent)
	}
}

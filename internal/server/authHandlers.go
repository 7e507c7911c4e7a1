package server

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"pricepulse/internal/database"
)

const tokenLifetime = 1 * time.Hour

func (s Server) authSignUp() http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("authSignUp: Error decoding JSON, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		if req.Username == "" || req.Email == "" || req.Password == "" {
			s.writeMessage(w, http.StatusBadRequest, "username, email, and password are required")
			return
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			s.Logger.Debugf("authSignUp: Invalid email: %s, err: %v, TraceID: %s", req.Email, err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		if len(req.Password) < 8 {
			s.writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.Logger.Errorf("authSignUp: Error generating password hash, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		now := primitive.NewDateTimeFromTime(time.Now())
		userID, err := s.DB.UserInsert(r.Context(), database.User{
			Username:  req.Username,
			Email:     req.Email,
			Password:  hashed,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				s.Logger.Debugf("authSignUp: Duplicate username: %s, TraceID: %s", req.Username, tid)
				s.writeMessage(w, http.StatusConflict, "Username already exists")
				return
			}
			s.Logger.Errorf("authSignUp: Error inserting User, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.Logger.Infof("authSignUp: Created User with ID: %s, username: %s, TraceID: %s", userID, req.Username, tid)
		s.writeJsonResponse(w, response{Message: "Sign up successful"}, http.StatusCreated)
	}
}

func (s Server) authSignIn() http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type response struct {
		AccessToken  string `json:"accessToken"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken,omitempty"`
		ExpiresIn    int    `json:"expiresIn"`
		TokenType    string `json:"tokenType"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("authSignIn: Error decoding JSON, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		u, err := s.DB.UserFindByUsername(r.Context(), req.Username)
		if err != nil {
			s.Logger.Debugf("authSignIn: Error finding User with username: %s, err: %v, TraceID: %s", req.Username, err, tid)
			s.writeMessage(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		if err := bcrypt.CompareHashAndPassword(u.Password, []byte(req.Password)); err != nil {
			s.Logger.Debugf("authSignIn: Password mismatch for username: %s, TraceID: %s", req.Username, tid)
			s.writeMessage(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}

		accessToken, err := s.createToken(u, "access")
		if err != nil {
			s.Logger.Errorf("authSignIn: Error creating access token, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		idToken, err := s.createToken(u, "id")
		if err != nil {
			s.Logger.Errorf("authSignIn: Error creating ID token, err: %v, TraceID: %s", err, tid)
			s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.Logger.Infof("authSignIn: Signed in User with ID: %s, username: %s, TraceID: %s", u.ID.Hex(), u.Username, tid)
		s.writeJsonResponse(w, response{
			AccessToken: accessToken,
			IDToken:     idToken,
			ExpiresIn:   int(tokenLifetime.Seconds()),
			TokenType:   "Bearer",
		}, http.StatusOK)
	}
}

func (s Server) createToken(u database.User, tokenUse string) (string, error) {
	now := time.Now()
	b := jwt.NewBuilder().
		Subject(u.ID.Hex()).
		Issuer("pricepulse").
		IssuedAt(now).
		Expiration(now.Add(tokenLifetime)).
		Claim("token_use", tokenUse).
		Claim("username", u.Username)
	if tokenUse == "id" {
		b = b.Claim("email", u.Email)
	}
	token, err := b.Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.AuthSecretKey))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

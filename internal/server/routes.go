package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.maxBytesMw, s.loggingMw)

	api.HandleFunc("/auth/signup", s.authSignUp()).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", s.authSignIn()).Methods(http.MethodPost)

	authed := api.PathPrefix("").Subrouter()
	authed.Use(s.identityMw)
	authed.HandleFunc("/items", s.itemList()).Methods(http.MethodGet)
	authed.HandleFunc("/items", s.itemCreate()).Methods(http.MethodPost)
	authed.HandleFunc("/items/{itemID}", s.itemGetOne()).Methods(http.MethodGet)
	authed.HandleFunc("/items/{itemID}", s.itemUpdate()).Methods(http.MethodPut)
	authed.HandleFunc("/items/{itemID}", s.itemDelete()).Methods(http.MethodDelete)
	authed.HandleFunc("/notifications", s.notificationList()).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{notificationID}/read", s.notificationMarkRead()).Methods(http.MethodPost)
	authed.HandleFunc("/devices", s.deviceRegister()).Methods(http.MethodPost)
	authed.HandleFunc("/test-extract", s.testExtract()).Methods(http.MethodPost)
	authed.PathPrefix("").Handler(s.notFoundHandler())

	return r
}

package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"pricepulse/internal/client"
	"pricepulse/internal/configuration"
	"pricepulse/internal/database"
	"pricepulse/internal/logger"
	"pricepulse/internal/server"
)

func main() {
	runApp()
	time.Sleep(10 * time.Second)
	os.Exit(1)
}

func runApp() error {
	appContext := context.Background()
	logOutput := io.Writer(os.Stdout)
	appLogger := logger.NewLogger(logger.LevelInfo, logOutput)

	defer func() {
		if r := recover(); r != nil {
			appLogger.Errorf("APPLICATION CRASHED: %+v", r)
		}
	}()

	config, err := configuration.GetConfig("config.toml")
	if err != nil {
		appLogger.Error("Error getting configuration from config.toml:", err)
		return err
	}

	if config.LogToFile {
		logFile, err := os.OpenFile("pricepulse.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			appLogger.Error("Error opening log file:", err)
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				appLogger.Error("Error closing log file:", err)
			}
		}()
		logOutput = io.MultiWriter(logOutput, logFile)
	}
	appLogger = logger.NewLogger(config.LogLevel, logOutput)

	appLogger.Info("Connecting to DB at", config.DatabaseURI)
	dbConn, err := database.ConnectDB(appContext, config.DatabaseURI)
	if err != nil {
		appLogger.Error("Error connecting to DB:", err)
		return err
	}
	defer func() {
		if err := dbConn.Disconnect(appContext); err != nil {
			appLogger.Error("Error disconnecting from DB:", err)
		}
	}()

	var redisClient *redis.Client
	if config.RedisAddress != "" {
		appLogger.Info("Using Redis extraction cache at", config.RedisAddress)
		redisClient = redis.NewClient(&redis.Options{Addr: config.RedisAddress})
		defer func() {
			if err := redisClient.Close(); err != nil {
				appLogger.Error("Error closing Redis client:", err)
			}
		}()
	}

	srv := server.Server{
		DB: database.Database{Database: dbConn.Database(database.Name)},
		Client: client.Client{
			Client: &http.Client{Timeout: 15 * time.Second},
			Redis:  redisClient,
			FCMKey: config.FCMKey,
			SMTP: client.SMTPConfig{
				Host:     config.SMTPHost,
				Port:     config.SMTPPort,
				Username: config.SMTPUsername,
				Password: config.SMTPPassword,
				From:     config.SMTPFrom,
			},
			Logger: appLogger,
		},
		Logger:        appLogger,
		AuthSecretKey: config.AuthSecretKey,
	}

	appLogger.Info("Starting price scanner with interval:", config.ScanInterval)
	go srv.ScanPricesInInterval(appContext, time.NewTicker(config.ScanInterval))

	httpSrv := &http.Server{
		Handler:      srv.Router(),
		Addr:         config.ServerAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	appLogger.Info("Serving on", httpSrv.Addr)
	return httpSrv.ListenAndServe()
}

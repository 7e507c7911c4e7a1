package configuration

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/pkg/errors"

	"pricepulse/internal/logger"
)

type Config struct {
	ServerAddress string
	DatabaseURI   string
	RedisAddress  string
	ScanInterval  time.Duration
	LogLevel      logger.Level
	LogToFile     bool
	AuthSecretKey jwk.Key
	FCMKey        string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
}

type tomlConfig struct {
	ServerAddress string `toml:"server_address"`
	DatabaseURI   string `toml:"database_uri"`
	RedisAddress  string `toml:"redis_address"`
	ScanInterval  string `toml:"scan_interval"`
	LogLevel      string `toml:"log_level"`
	LogToFile     bool   `toml:"log_to_file"`
	AuthSecretKey string `toml:"auth_secret_key"`
	FCMKey        string `toml:"fcm_key"`
	SMTPHost      string `toml:"smtp_host"`
	SMTPPort      int    `toml:"smtp_port"`
	SMTPUsername  string `toml:"smtp_username"`
	SMTPPassword  string `toml:"smtp_password"`
	SMTPFrom      string `toml:"smtp_from"`
}

func GetConfig(path string) (*Config, error) {
	var tc tomlConfig
	_, err := toml.DecodeFile(path, &tc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode toml file with path: %s", path)
	}

	if tc.ServerAddress == "" {
		tc.ServerAddress = "localhost:8888"
	}
	if tc.DatabaseURI == "" {
		tc.DatabaseURI = "mongodb://localhost:27017"
	}
	if tc.LogLevel == "" {
		tc.LogLevel = "INFO"
	}
	logLevel, err := logger.ParseLevel(tc.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse log_level")
	}

	if tc.ScanInterval == "" {
		return nil, errors.New("scan_interval is not set")
	}
	scanInterval, err := time.ParseDuration(tc.ScanInterval)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse scan_interval: %s", tc.ScanInterval)
	}
	if scanInterval < 15*time.Second {
		return nil, errors.Errorf("scan_interval too short (%v), minimum interval: 15s", scanInterval)
	}

	if tc.AuthSecretKey == "" {
		return nil, errors.New("auth_secret_key is not set")
	}
	authSecretKey, err := jwk.FromRaw([]byte(tc.AuthSecretKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create key from auth_secret_key")
	}

	return &Config{
		ServerAddress: tc.ServerAddress,
		DatabaseURI:   tc.DatabaseURI,
		RedisAddress:  tc.RedisAddress,
		ScanInterval:  scanInterval,
		LogLevel:      logLevel,
		LogToFile:     tc.LogToFile,
		AuthSecretKey: authSecretKey,
		FCMKey:        tc.FCMKey,
		SMTPHost:      tc.SMTPHost,
		SMTPPort:      tc.SMTPPort,
		SMTPUsername:  tc.SMTPUsername,
		SMTPPassword:  tc.SMTPPassword,
		SMTPFrom:      tc.SMTPFrom,
	}, nil
}

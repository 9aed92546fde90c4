package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("15m") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JSONConfig mirrors Config for file loading. Absent keys leave the current
// value untouched.
type JSONConfig struct {
	HTTPAddr           string   `json:"http_addr"`
	EndpointAddrGRPC   string   `json:"endpoint_addr_grpc"`
	AccountServiceAddr string   `json:"account_service_addr"`
	StorageBackend     string   `json:"storage_backend"`
	DatabaseDSN        string   `json:"database_dsn"`
	AccessSecret       string   `json:"access_secret"`
	RefreshSecret      string   `json:"refresh_secret"`
	AccessTTL          Duration `json:"access_token_ttl"`
	RefreshTTL         Duration `json:"refresh_token_ttl"`
	RemovalTimeout     Duration `json:"removal_timeout"`
	RequireAuth        *bool    `json:"require_auth"`
	StrictRefresh      *bool    `json:"strict_refresh"`
	RedisAddr          string   `json:"redis_addr"`
	RedisPassword      string   `json:"redis_password"`
	RedisDB            *int     `json:"redis_db"`
	LoginMaxAttempts   int      `json:"login_max_attempts"`
	LoginWindow        Duration `json:"login_window"`
	LogLevel           string   `json:"log_level"`
	LogFormat          string   `json:"log_format"`
}

func parseJSON(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.AccountServiceAddr, c.AccountServiceAddr)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessSecret, c.AccessSecret)
	setString(&config.RefreshSecret, c.RefreshSecret)
	setDuration(&config.AccessTTL, c.AccessTTL)
	setDuration(&config.RefreshTTL, c.RefreshTTL)
	setDuration(&config.RemovalTimeout, c.RemovalTimeout)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setDuration(&config.LoginWindow, c.LoginWindow)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.RequireAuth != nil {
		config.RequireAuth = *c.RequireAuth
	}
	if c.StrictRefresh != nil {
		config.StrictRefresh = *c.StrictRefresh
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.LoginMaxAttempts != 0 {
		config.LoginMaxAttempts = c.LoginMaxAttempts
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

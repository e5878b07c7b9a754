package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/eventspark/auth-service/internal/flagx"
	"github.com/eventspark/auth-service/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration
// files. Duration fields use timex.Duration, which parses both string
// values such as "15m" and integer nanoseconds. After unmarshalling,
// non-empty fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	JWTIssuer                    string         `json:"jwt_issuer"`
	JWTAudience                  string         `json:"jwt_audience"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	UserServiceBaseURL           string         `json:"user_service_base_url"`
}

// parseJson overlays configuration values from a JSON file onto config.
// The file path comes from the -c or -config command-line flags; when
// neither is set, no file is loaded. Fields absent from the file keep
// their current values. An unreadable or invalid file panics: a broken
// config file should stop the server at startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.JWTIssuer != "" {
		config.JWTIssuer = c.JWTIssuer
	}
	if c.JWTAudience != "" {
		config.JWTAudience = c.JWTAudience
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.UserServiceBaseURL != "" {
		config.UserServiceBaseURL = c.UserServiceBaseURL
	}
}

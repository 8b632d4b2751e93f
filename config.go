package main

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Addr              string   `envconfig:"ADDR" default:":8080"`
	MongoURL          string   `envconfig:"MONGO_URL" default:"mongodb://localhost:27017"`
	DBName            string   `envconfig:"DB_NAME" default:"stylehub"`
	CORSOrigins       []string `envconfig:"CORS_ORIGINS" default:"*"`
	JWTSecret         string   `envconfig:"JWT_SECRET" default:"change-me"`
	AdminPasswordHash string   `envconfig:"ADMIN_PASSWORD_HASH"`
	LogLevel          string   `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads a local .env when present, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process environment")
	}
	return cfg, nil
}

// AdminAuthEnabled reports whether product mutations require a token.
func (c Config) AdminAuthEnabled() bool {
	return c.AdminPasswordHash != ""
}

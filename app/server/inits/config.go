package inits

import (
	"fmt"
	"os"
	"strings"
	"time"
	"usuarios-backend/app/server/config"
)

func Config() (*config.Config, error) {
	// Env-only configuration, same knobs in every environment.
	var cfg config.Config
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // default listen address
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist || dbconn == "" {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	// Redis is optional, without it every lookup goes to the database.
	cfg.System.RedisConnectionString = os.Getenv("REDIS_CONN")

	// Docs are only served outside production; optionally behind a password.
	cfg.System.APIDocsPassword = os.Getenv("API_DOCS_PASSWORD")

	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist || sigsk == "" {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if ttlStr, exist := os.LookupEnv("TOKEN_TTL"); !exist {
		cfg.Security.TokenTTL = 60 * time.Minute
	} else if ttl, err := time.ParseDuration(ttlStr); err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL should be a positive duration")
	} else {
		cfg.Security.TokenTTL = ttl
	}

	if username, exist := os.LookupEnv("INIT_ADMIN_USERNAME"); !exist {
		cfg.Bootstrap.AdminUsername = "admin"
	} else {
		cfg.Bootstrap.AdminUsername = username
	}

	if password, exist := os.LookupEnv("INIT_ADMIN_PASSWORD"); !exist {
		cfg.Bootstrap.AdminPassword = "password"
	} else {
		cfg.Bootstrap.AdminPassword = password
	}

	return &cfg, nil
}

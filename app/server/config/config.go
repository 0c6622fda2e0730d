package config

import "time"

type Config struct {
	System struct {
		IsProd                bool   // production mode: quieter logs, no API docs
		Listen                string // listen address
		DBConnectionString    string // Postgres DSN, or "memory" for the in-process store
		RedisConnectionString string // Redis URL, empty disables the user cache
		APIDocsPassword       string // Basic auth password for the API docs, empty leaves them open
	}
	Security struct {
		SignatureSecretKey string        // HMAC key for access tokens; changing it invalidates every issued token
		TokenTTL           time.Duration // access token lifetime
	}
	Bootstrap struct {
		AdminUsername string // seeded when the user table is empty
		AdminPassword string
	}
}

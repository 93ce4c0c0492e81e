package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName            string
	Env                string
	ListenIP           string
	ListenPort         int
	DBUser             string
	DBPassword         string
	DBHost             string
	DBName             string
	RedisAddr          string
	RedisPassword      string
	SessionSecret      string
	SessionCryptSecret string
	AdminName          string
	AdminEmail         string
	AdminPassword      string
}

var AppConfig Config

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory is applied first when present (local development only).
func LoadConfig() error {
	_ = godotenv.Load()

	AppConfig = Config{
		AppName:            getEnv("APP_NAME", "Members Only"),
		Env:                getEnv("APP_ENV", "development"),
		ListenIP:           getEnv("LISTEN_IP", ""),
		ListenPort:         getEnvInt("PORT", 3340),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBHost:             getEnv("DB_HOST", "localhost:27017"),
		DBName:             getEnv("DB_NAME", "membersonly"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionCryptSecret: getEnv("SESSION_CRYPT_SECRET", ""),
		AdminName:          getEnv("ADMIN_NAME", "Admin"),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "admin123"),
	}

	var err error
	if AppConfig.SessionSecret, err = ensureSecret("SESSION_SECRET", AppConfig.SessionSecret); err != nil {
		return err
	}
	if AppConfig.SessionCryptSecret, err = ensureSecret("SESSION_CRYPT_SECRET", AppConfig.SessionCryptSecret); err != nil {
		return err
	}

	return nil
}

// Production reports whether production hardening (Secure cookies) applies.
func (c Config) Production() bool {
	return c.Env == "production"
}

// MongoURI assembles the credential store connection string. Credentials are
// URL-escaped so reserved characters in passwords survive the round trip.
func (c Config) MongoURI() string {
	if c.DBUser == "" {
		return fmt.Sprintf("mongodb://%s/%s", c.DBHost, c.DBName)
	}
	return fmt.Sprintf("mongodb://%s@%s/%s", url.UserPassword(c.DBUser, c.DBPassword), c.DBHost, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// ensureSecret generates a random value when none is configured. Cookies and
// store entries keyed with a generated secret do not survive a restart.
func ensureSecret(key, val string) (string, error) {
	if val != "" {
		return val, nil
	}
	log.Printf("WARNING: %s is not set. Generating a random value; sessions will be invalidated on restart.", key)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

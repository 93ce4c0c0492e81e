package config

import (
	"strings"
	"testing"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_NAME", "TestApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal:27017")
	t.Setenv("DB_NAME", "members_test")
	t.Setenv("REDIS_ADDR", "cache.internal:6379")
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("SESSION_CRYPT_SECRET", "test-crypt-secret")

	if err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if AppConfig.AppName != "TestApp" {
		t.Errorf("Expected AppName 'TestApp', got '%s'", AppConfig.AppName)
	}
	if !AppConfig.Production() {
		t.Error("Expected Production() to be true for APP_ENV=production")
	}
	if AppConfig.ListenPort != 9090 {
		t.Errorf("Expected ListenPort 9090, got %d", AppConfig.ListenPort)
	}
	if AppConfig.DBHost != "db.internal:27017" {
		t.Errorf("Expected DBHost 'db.internal:27017', got '%s'", AppConfig.DBHost)
	}
	if AppConfig.RedisAddr != "cache.internal:6379" {
		t.Errorf("Expected RedisAddr 'cache.internal:6379', got '%s'", AppConfig.RedisAddr)
	}
	if AppConfig.SessionSecret != "test-session-secret" {
		t.Errorf("Expected SessionSecret 'test-session-secret', got '%s'", AppConfig.SessionSecret)
	}
	if AppConfig.SessionCryptSecret != "test-crypt-secret" {
		t.Errorf("Expected SessionCryptSecret 'test-crypt-secret', got '%s'", AppConfig.SessionCryptSecret)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "LISTEN_IP", "PORT",
		"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_NAME",
		"REDIS_ADDR", "REDIS_PASSWORD",
		"SESSION_SECRET", "SESSION_CRYPT_SECRET",
	} {
		t.Setenv(key, "")
	}

	if err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if AppConfig.ListenPort != 3340 {
		t.Errorf("Expected default port 3340, got %d", AppConfig.ListenPort)
	}
	if AppConfig.DBHost != "localhost:27017" {
		t.Errorf("Expected default DBHost 'localhost:27017', got '%s'", AppConfig.DBHost)
	}
	if AppConfig.Production() {
		t.Error("Production() should be false by default")
	}
}

func TestLoadConfigInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("SESSION_CRYPT_SECRET", "s")

	if err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if AppConfig.ListenPort != 3340 {
		t.Errorf("Expected fallback port 3340 for invalid PORT, got %d", AppConfig.ListenPort)
	}
}

func TestGeneratedSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_CRYPT_SECRET", "")

	if err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if AppConfig.SessionSecret == "" {
		t.Error("Expected a generated SESSION_SECRET, got empty")
	}
	if AppConfig.SessionCryptSecret == "" {
		t.Error("Expected a generated SESSION_CRYPT_SECRET, got empty")
	}
	if AppConfig.SessionSecret == AppConfig.SessionCryptSecret {
		t.Error("Generated secrets should not be identical")
	}
}

func TestMongoURI(t *testing.T) {
	c := Config{DBHost: "localhost:27017", DBName: "members"}
	if got := c.MongoURI(); got != "mongodb://localhost:27017/members" {
		t.Errorf("Unexpected URI without credentials: %s", got)
	}

	c = Config{DBUser: "app", DBPassword: "p@ss word", DBHost: "db:27017", DBName: "members"}
	uri := c.MongoURI()
	if !strings.HasPrefix(uri, "mongodb://app:") {
		t.Errorf("URI missing user: %s", uri)
	}
	if !strings.HasSuffix(uri, "@db:27017/members") {
		t.Errorf("URI missing host/database: %s", uri)
	}
	if strings.Contains(uri, "p@ss word") {
		t.Errorf("Password was not escaped: %s", uri)
	}
}

package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.App.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.App.Port)
	}
	if cfg.Auth.JWTExpireMinute != 1440 {
		t.Errorf("default jwt expiry = %d minutes, want 1440", cfg.Auth.JWTExpireMinute)
	}
	if cfg.Redis.ArticleTTLSeconds != 2592000 {
		t.Errorf("default article ttl = %d, want 2592000 (30 days)", cfg.Redis.ArticleTTLSeconds)
	}
}

func TestOverrideByEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MYSQL_DB", "blogapi_test")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("REDIS_ARTICLE_TTL_SECONDS", "not-a-number")

	cfg := defaultConfig()
	overrideByEnv(cfg)

	if cfg.App.Port != 9090 {
		t.Errorf("port = %d, want 9090 from env", cfg.App.Port)
	}
	if cfg.MySQL.DB != "blogapi_test" {
		t.Errorf("db = %q, want blogapi_test from env", cfg.MySQL.DB)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("jwt secret = %q, want env-secret from env", cfg.Auth.JWTSecret)
	}
	if cfg.Redis.ArticleTTLSeconds != 2592000 {
		t.Errorf("unparseable env override changed ttl to %d", cfg.Redis.ArticleTTLSeconds)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "blog"
	cfg.MySQL.Password = "pw"
	cfg.MySQL.Host = "db.local"
	cfg.MySQL.Port = 3307
	cfg.MySQL.DB = "blogapi"
	cfg.MySQL.Params = "parseTime=true"

	want := "blog:pw@tcp(db.local:3307)/blogapi?parseTime=true"
	if got := cfg.MySQLDSN(); got != want {
		t.Errorf("MySQLDSN() = %q, want %q", got, want)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Layers(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "app.yaml")
	yaml := "http:\n  port: \"8080\"\nmongo:\n  db: from_yaml\nsession:\n  ttl: 30m\n"
	if err := os.WriteFile(yamlPath, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CLUBMATCH_AUTH__JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("CLUBMATCH_MONGO__DB", "from_env")

	cfg, err := LoadConfig(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("port = %q", cfg.HTTP.Port)
	}
	if cfg.Mongo.DB != "from_env" {
		t.Errorf("env must override yaml, db = %q", cfg.Mongo.DB)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("ttl = %s", cfg.Session.TTL)
	}
	if cfg.Reminder.Days != 3 || cfg.Composer.Redirect != "/posts" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Location().String() != "Asia/Taipei" {
		t.Errorf("location = %s", cfg.Location())
	}
}

func TestLoadConfig_LegacyEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy-secret-0123456789")
	t.Setenv("PORT", "4000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.JWTSecret != "legacy-secret-0123456789" || cfg.HTTP.Port != "4000" {
		t.Fatalf("legacy env ignored: %+v", cfg)
	}
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("empty jwt secret accepted")
	}
}

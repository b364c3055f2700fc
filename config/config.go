// Package config builds one Config from three layers, highest precedence
// last: .env, conf/app.yaml (optional), CLUBMATCH_ environment variables
// where "__" maps to "." (CLUBMATCH_MONGO__URI -> mongo.uri).
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const envPrefix = "CLUBMATCH_"

type HTTP struct {
	Port string `koanf:"port" validate:"required,numeric"`
}

type Mongo struct {
	URI string `koanf:"uri" validate:"required,uri"`
	DB  string `koanf:"db"  validate:"required"`
}

type Auth struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=16"`
}

// Redis is optional; with an empty Addr sessions are kept in memory.
type Redis struct {
	Addr     string `koanf:"addr" validate:"omitempty,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
}

type Session struct {
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`
}

type Log struct {
	Level      string `koanf:"level" validate:"oneof=debug info warn error"`
	Path       string `koanf:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

type RateLimit struct {
	PerMinute int `koanf:"per_minute" validate:"gte=0"`
}

// Reminder drives the sponsorship-deadline reminder job.
type Reminder struct {
	Enabled  bool   `koanf:"enabled"`
	Spec     string `koanf:"spec" validate:"required_if=Enabled true"`
	Days     int    `koanf:"days" validate:"gte=1,lte=30"`
	Timezone string `koanf:"timezone" validate:"required,timezone"`
}

type Composer struct {
	Redirect string `koanf:"redirect" validate:"required,startswith=/"`
}

type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Mongo     Mongo     `koanf:"mongo"`
	Auth      Auth      `koanf:"auth"`
	Redis     Redis     `koanf:"redis"`
	Session   Session   `koanf:"session"`
	Log       Log       `koanf:"log"`
	RateLimit RateLimit `koanf:"rate_limit"`
	Reminder  Reminder  `koanf:"reminder"`
	Composer  Composer  `koanf:"composer"`
}

func defaults() Config {
	return Config{
		HTTP:      HTTP{Port: "3000"},
		Mongo:     Mongo{URI: "mongodb://localhost:27017", DB: "clubmatch"},
		Session:   Session{TTL: 2 * time.Hour},
		Log:       Log{Level: "info", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 7},
		RateLimit: RateLimit{PerMinute: 120},
		Reminder:  Reminder{Enabled: true, Spec: "0 9 * * *", Days: 3, Timezone: "Asia/Taipei"},
		Composer:  Composer{Redirect: "/posts"},
	}
}

var validate = validator.New()

// LoadConfig reads the layers described in the package doc. yamlPath may
// point to a missing file.
func LoadConfig(yamlPath string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.S().Debugw("no .env file", "err", err)
	}

	cfg := defaults()
	k := koanf.New(".")

	if yamlPath != "" {
		err := k.Load(file.Provider(yamlPath), yaml.Parser())
		switch {
		case err == nil:
			zap.S().Debugw("config yaml loaded", "file", yamlPath)
		case errors.Is(err, fs.ErrNotExist):
			zap.S().Debugw("config yaml not found", "file", yamlPath)
		default:
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		return Config{}, err
	}

	// The unprefixed names are what earlier deployments set.
	legacy := map[string]string{
		"MONGO_URI":  "mongo.uri",
		"MONGO_DB":   "mongo.db",
		"PORT":       "http.port",
		"JWT_SECRET": "auth.jwt_secret",
	}
	for envKey, path := range legacy {
		if v, ok := os.LookupEnv(envKey); ok && !k.Exists(path) {
			_ = k.Set(path, v)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves Reminder.Timezone; validation already checked it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

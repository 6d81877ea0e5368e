package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Backend  BackendConfig
	Auth     AuthConfig
	OTP      OTPConfig
	View     ViewConfig
	Cookie   CookieConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// BackendConfig selects the service that owns accounts and rows.
// Driver is one of "postgres", "rest" or "memory".
type BackendConfig struct {
	Driver string
	URL    string
	APIKey string
}

type AuthConfig struct {
	BcryptCost               int
	SessionExpiryHours       int
	RequireEmailConfirmation bool
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type ViewConfig struct {
	IdleMinutes int
}

type CookieConfig struct {
	HashKey  string
	BlockKey string
	Secure   bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig reads the optional env file at path and overlays the process
// environment. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "zentra")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("BACKEND_DRIVER", "postgres")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("REQUIRE_EMAIL_CONFIRMATION", false)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("VIEW_IDLE_MINUTES", 30)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Backend: BackendConfig{
			Driver: strings.ToLower(v.GetString("BACKEND_DRIVER")),
			URL:    v.GetString("BACKEND_URL"),
			APIKey: v.GetString("BACKEND_API_KEY"),
		},
		Auth: AuthConfig{
			BcryptCost:               v.GetInt("BCRYPT_COST"),
			SessionExpiryHours:       v.GetInt("SESSION_EXPIRY_HOURS"),
			RequireEmailConfirmation: v.GetBool("REQUIRE_EMAIL_CONFIRMATION"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		View: ViewConfig{
			IdleMinutes: v.GetInt("VIEW_IDLE_MINUTES"),
		},
		Cookie: CookieConfig{
			HashKey:  v.GetString("COOKIE_HASH_KEY"),
			BlockKey: v.GetString("COOKIE_BLOCK_KEY"),
			Secure:   v.GetBool("COOKIE_SECURE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

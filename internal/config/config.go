package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AuthMode string

const (
	AuthModeNone    AuthMode = "none"
	AuthModeAPIKey  AuthMode = "api_key"
	AuthModeCognito AuthMode = "cognito"
)

func ParseAuthMode(raw string) (AuthMode, error) {
	switch mode := AuthMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return AuthModeNone, nil
	case AuthModeNone, AuthModeAPIKey, AuthModeCognito:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid auth mode %q", raw)
	}
}

type Config struct {
	TableName              string
	Region                 string
	Port                   string
	LogLevel               string
	AuthMode               AuthMode
	UserPoolID             string
	APIKey                 string
	SuperAdmins            []string
	PrincipalLookupTimeout time.Duration
	FallbackPath           string
	Firebase               FirebaseConfig
	Notifier               NotifierConfig
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

type NotifierConfig struct {
	Title   string
	Link    string
	Timeout time.Duration
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads the environment, after an optional .env file in the working
// directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	authMode, err := ParseAuthMode(os.Getenv("AUTH_MODE"))
	if err != nil {
		return Config{}, err
	}
	lookupTimeout, err := getDuration("PRINCIPAL_LOOKUP_TIMEOUT", 2*time.Second)
	if err != nil {
		return Config{}, err
	}
	notifyTimeout, err := getDuration("NOTIFIER_TIMEOUT", 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		TableName:              os.Getenv("TABLE_NAME"),
		Region:                 os.Getenv("AWS_REGION"),
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		AuthMode:               authMode,
		UserPoolID:             os.Getenv("COGNITO_USER_POOL_ID"),
		APIKey:                 os.Getenv("API_KEY"),
		SuperAdmins:            splitList(os.Getenv("SUPER_ADMIN_IDS")),
		PrincipalLookupTimeout: lookupTimeout,
		FallbackPath:           getEnv("FALLBACK_PATH", "/"),
		Firebase: FirebaseConfig{
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			CredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		},
		Notifier: NotifierConfig{
			Title:   os.Getenv("NOTIFY_TITLE"),
			Link:    os.Getenv("NOTIFY_LINK"),
			Timeout: notifyTimeout,
		},
	}
	if cfg.TableName == "" || cfg.Region == "" {
		return Config{}, errors.New("missing required environment variables")
	}
	if !strings.HasPrefix(cfg.FallbackPath, "/") {
		return Config{}, fmt.Errorf("FALLBACK_PATH must be absolute, got %q", cfg.FallbackPath)
	}
	return cfg, nil
}

// ValidateAPI checks the settings only the HTTP API needs.
func (c Config) ValidateAPI() error {
	switch {
	case c.AuthMode == AuthModeCognito && c.UserPoolID == "":
		return errors.New("COGNITO_USER_POOL_ID is required for cognito auth mode")
	case c.AuthMode == AuthModeAPIKey && c.APIKey == "":
		return errors.New("API_KEY is required for api_key auth mode")
	}
	return nil
}

// ValidateNotifier checks the settings only the order notifier needs.
func (c Config) ValidateNotifier() error {
	if c.Firebase.ProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required for the notifier")
	}
	return nil
}

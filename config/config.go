package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once by Load
// and handed to every constructor that needs it.
type Config struct {
	Environment string
	Port        string
	DBUrl       string

	Pretix    PretixConfig
	Sheets    SheetsConfig
	Questions QuestionConfig
	Webhook   WebhookConfig
	Mail      MailConfig

	OperatorJWTSecret string
	ScanAt            string
}

// PretixConfig is the ticketing REST API location and credentials.
type PretixConfig struct {
	APIURL    string
	Token     string
	Organizer string
}

// SheetsConfig locates the spreadsheet and its tabs.
type SheetsConfig struct {
	SpreadsheetID string
	// CredentialsJSON is the service-account key JSON.
	CredentialsJSON string
	RegistrySheet   string
	// BlocklistSheet overrides the tab name stored in BlocklistNameCell.
	BlocklistSheet string
	// BlocklistNameCell is an A1 cell holding the blocklist tab name. Empty means
	// C2 on the registry tab.
	BlocklistNameCell string
	// SlotCapacity overrides the capacity derived from the header row when > 0.
	SlotCapacity int
}

// QuestionConfig names the order questions holding attendee names.
type QuestionConfig struct {
	FirstName string
	LastName  string
}

// WebhookConfig holds the basic-auth credentials for incoming webhooks.
// An empty User disables the check.
type WebhookConfig struct {
	User     string
	Password string
}

// MailConfig selects the mailer used for denial notices.
type MailConfig struct {
	Provider              string
	FromAddress           string
	FromName              string
	AWSRegion             string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	SESInsecureSkipVerify bool
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := getenv("GO_ENV", "development")

	// In production .env might not exist and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	capacity, err := getint("BLOCKLIST_SLOT_CAPACITY", 0)
	if err != nil {
		return nil, err
	}
	insecure, err := getbool("AWS_SES_INSECURE_SKIP_VERIFY", false)
	if err != nil {
		return nil, err
	}
	registry := getenv("REGISTRY_SHEET", "Info")

	cfg := &Config{
		Environment: env,
		Port:        getenv("PORT", "8080"),
		DBUrl:       os.Getenv("DATABASE_URL"),
		Pretix: PretixConfig{
			APIURL:    os.Getenv("PRETIX_API_URL"),
			Token:     os.Getenv("PRETIX_TOKEN"),
			Organizer: getenv("PRETIX_ORGANIZER", "esnhamburg"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:     os.Getenv("SHEET_ID_BLOCKLIST"),
			CredentialsJSON:   os.Getenv("GOOGLE_JSON_KEY"),
			RegistrySheet:     registry,
			BlocklistSheet:    os.Getenv("BLOCKLIST_SHEET"),
			BlocklistNameCell: os.Getenv("BLOCKLIST_NAME_CELL"),
			SlotCapacity:      capacity,
		},
		Questions: QuestionConfig{
			FirstName: getenv("FIRST_NAME_QUESTION", "RFRGMYPK"),
			LastName:  getenv("LAST_NAME_QUESTION", "ZRV87CSB"),
		},
		Webhook: WebhookConfig{
			User:     os.Getenv("WEBHOOK_USER"),
			Password: os.Getenv("WEBHOOK_PASS"),
		},
		Mail: MailConfig{
			Provider:              strings.ToLower(getenv("MAILER_PROVIDER", "noop")),
			FromAddress:           os.Getenv("MAIL_FROM_ADDRESS"),
			FromName:              getenv("MAIL_FROM_NAME", "ESN Hamburg"),
			AWSRegion:             getenv("AWS_REGION", "eu-central-1"),
			AWSAccessKeyID:        os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SESInsecureSkipVerify: insecure,
		},
		OperatorJWTSecret: os.Getenv("OPERATOR_JWT_SECRET"),
		ScanAt:            getenv("SCAN_AT", "09:00"),
	}
	return cfg, nil
}

// Validate reports every missing variable the pretix and sheets gateways need.
func (c *Config) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"PRETIX_API_URL", c.Pretix.APIURL},
		{"PRETIX_TOKEN", c.Pretix.Token},
		{"SHEET_ID_BLOCKLIST", c.Sheets.SpreadsheetID},
		{"GOOGLE_JSON_KEY", c.Sheets.CredentialsJSON},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	if c.Webhook.User != "" && c.Webhook.Password == "" {
		errs = append(errs, errors.New("WEBHOOK_PASS is required when WEBHOOK_USER is set"))
	}
	if c.Mail.Provider != "noop" && c.Mail.FromAddress == "" {
		errs = append(errs, fmt.Errorf("MAIL_FROM_ADDRESS is required for mailer %q", c.Mail.Provider))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, s)
	}
	return v, nil
}

func getbool(key string, fallback bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, s)
	}
	return v, nil
}

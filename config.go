package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HierarchySource is one flat text export feeding the hierarchy parser.
type HierarchySource struct {
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

type Config struct {
	PortalURL  string `yaml:"portal_url"`
	PortalUser string `yaml:"portal_user"`
	PortalPass string `yaml:"portal_pass"`
	RALListURL string `yaml:"ral_list_url"`
	RECListURL string `yaml:"rec_list_url"`

	// OfflineMode skips the portal entirely and reprocesses the raw CSVs
	// already sitting in the data directory.
	OfflineMode bool `yaml:"offline_mode"`

	HierarchySources []HierarchySource `yaml:"hierarchy_sources"`

	RALColumns DatasetColumns `yaml:"ral_columns"`
	RECColumns DatasetColumns `yaml:"rec_columns"`

	DataDir       string `yaml:"data_dir"`
	DashboardPath string `yaml:"dashboard_path"`
	DashboardURL  string `yaml:"dashboard_url"`
	DBPath        string `yaml:"db_path"`

	EvolutionURL      string `yaml:"evolution_url"`
	EvolutionToken    string `yaml:"evolution_token"`
	EvolutionInstance string `yaml:"evolution_instance"`
	WhatsAppRecipient string `yaml:"whatsapp_recipient"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	UpdateIntervalMinutes int    `yaml:"update_interval_minutes"`
	DigestIntervalHours   int    `yaml:"digest_interval_hours"`
	Timezone              string `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.PortalURL, "PORTAL_URL")
	envOverride(&cfg.PortalUser, "PORTAL_USER")
	envOverride(&cfg.PortalPass, "PORTAL_PASS")
	envOverride(&cfg.RALListURL, "RAL_LIST_URL")
	envOverride(&cfg.RECListURL, "REC_LIST_URL")
	envOverrideBool(&cfg.OfflineMode, "OFFLINE_MODE")
	envOverride(&cfg.DataDir, "DATA_DIR")
	envOverride(&cfg.DashboardPath, "DASHBOARD_PATH")
	envOverride(&cfg.DashboardURL, "DASHBOARD_URL")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.EvolutionURL, "EVOLUTION_URL")
	envOverride(&cfg.EvolutionToken, "EVOLUTION_TOKEN")
	envOverride(&cfg.EvolutionInstance, "EVOLUTION_INSTANCE")
	envOverride(&cfg.WhatsAppRecipient, "WHATSAPP_RECIPIENT")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverrideInt(&cfg.UpdateIntervalMinutes, "UPDATE_INTERVAL_MINUTES")
	envOverrideInt(&cfg.DigestIntervalHours, "DIGEST_INTERVAL_HOURS")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.DashboardPath == "" {
		cfg.DashboardPath = "./public/data/dashboard.json"
	}
	if cfg.DashboardURL == "" {
		cfg.DashboardURL = "http://localhost:5173/dashboard"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./sirmonitor.db"
	}
	if cfg.EvolutionURL == "" {
		cfg.EvolutionURL = "http://localhost:8081"
	}
	if cfg.EvolutionInstance == "" {
		cfg.EvolutionInstance = "coprede_api"
	}
	if cfg.UpdateIntervalMinutes == 0 {
		cfg.UpdateIntervalMinutes = 5
	}
	if cfg.DigestIntervalHours == 0 {
		cfg.DigestIntervalHours = 1
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.RALColumns == (DatasetColumns{}) {
		cfg.RALColumns = defaultRALColumns()
	}
	if cfg.RECColumns == (DatasetColumns{}) {
		cfg.RECColumns = defaultRECColumns()
	}

	// Validate required fields
	if !cfg.OfflineMode {
		required := map[string]string{
			"portal_url":   cfg.PortalURL,
			"portal_user":  cfg.PortalUser,
			"portal_pass":  cfg.PortalPass,
			"ral_list_url": cfg.RALListURL,
			"rec_list_url": cfg.RECListURL,
		}
		for name, val := range required {
			if val == "" {
				log.Fatalf("Required config '%s' is not set (via config.yaml or env var)", name)
			}
		}
	}
	if len(cfg.HierarchySources) == 0 {
		log.Fatalf("At least one hierarchy_sources entry is required")
	}
	for i, src := range cfg.HierarchySources {
		if src.Path == "" || src.Source == "" {
			log.Fatalf("hierarchy_sources[%d] needs both path and source", i)
		}
	}
	if cfg.RALColumns.Code == "" {
		log.Fatalf("ral_columns.code binding is required")
	}
	if cfg.RECColumns.Code == "" {
		log.Fatalf("rec_columns.code binding is required")
	}
	if cfg.WhatsAppRecipient != "" && cfg.EvolutionToken == "" {
		log.Fatalf("evolution_token is required when whatsapp_recipient is set")
	}
	if cfg.SlackChannelID != "" && cfg.SlackBotToken == "" {
		log.Fatalf("slack_bot_token is required when slack_channel_id is set")
	}
	if cfg.UpdateIntervalMinutes < 1 {
		log.Fatalf("invalid update_interval_minutes '%d': must be >= 1", cfg.UpdateIntervalMinutes)
	}
	if cfg.DigestIntervalHours < 1 {
		log.Fatalf("invalid digest_interval_hours '%d': must be >= 1", cfg.DigestIntervalHours)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

// defaultRALColumns binds the logical fields to the RAL list's physical
// column names.
func defaultRALColumns() DatasetColumns {
	return DatasetColumns{
		Code:     "CF Exec.",
		Type:     "Tipo Ral",
		Desc:     "Designação",
		Date:     "Abertura",
		Duration: "Duração",
		Num:      "Num.Recup.",
	}
}

// defaultRECColumns binds the REC list's columns. REC has no RAL type, so
// the client column stands in for it, and it carries no duration column at
// all; the empty binding resolves every row to the N/A sentinel.
func defaultRECColumns() DatasetColumns {
	return DatasetColumns{
		Code: "CF Exec.",
		Type: "Cliente",
		Desc: "Designação",
		Date: "Abertura",
		Num:  "Num.Recup.",
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

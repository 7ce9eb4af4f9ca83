// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the domoload command.
type Config struct {
	// Warehouse connection
	Customer  string // instance name, resolved to https://{customer}.domo.com
	BaseURL   string // full base URL override (takes precedence over Customer)
	Token     string // developer token
	UserAgent string

	// Load target
	DatasetID   string // existing dataset to replace; empty means create
	Name        string // dataset name, required when creating
	Description string

	// Input
	InputFile string // local CSV file to load

	// Upload tuning
	ChunkBudgetKB int // per-part budget in KB (default: 10000)
	TimeoutSecs   int // HTTP timeout in seconds (default: 300)

	// Output control
	LogFile string // log file path; empty logs to stdout
	Debug   bool
	Quiet   bool // suppress the summary block (useful when run via script)
}

// Load builds configuration from CLI args, environment variables, and a YAML
// file. Priority: CLI flags > environment variables > YAML file > defaults.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("domoload", flag.ContinueOnError)
	customer := fs.String("customer", "", "Warehouse customer instance name")
	baseURL := fs.String("base-url", "", "Warehouse base URL (overrides -customer)")
	token := fs.String("token", "", "Developer token")
	authFile := fs.String("auth-file", "", "Auth file path (JSON with token)")
	userAgent := fs.String("user-agent", "", "User-Agent header override")
	datasetID := fs.String("dataset-id", "", "Dataset id to replace (empty creates a new dataset)")
	name := fs.String("name", "", "Dataset name (required when creating)")
	description := fs.String("description", "", "Dataset description")
	inputFile := fs.String("file", "", "Local CSV file to load")
	chunkBudget := fs.Int("chunk-budget-kb", 0, "Per-part upload budget in KB (default: 10000)")
	timeoutSecs := fs.Int("timeout", 0, "HTTP timeout in seconds (default: 300)")
	configFile := fs.String("config-file", "domoload-config.yaml", "Config file path (default: domoload-config.yaml)")
	logFile := fs.String("log-file", "", "Log file path (default: stdout)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	quiet := fs.Bool("quiet", false, "Suppress the summary block")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load from YAML file if it exists
	if *configFile != "" {
		if err := loadFromYAML(cfg, *configFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	loadFromEnv(cfg)

	// Override with CLI flags (highest priority)
	if *customer != "" {
		cfg.Customer = *customer
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *authFile != "" {
		if err := cfg.ReadAuthFile(*authFile); err != nil {
			return nil, fmt.Errorf("failed to read auth file: %w", err)
		}
	}
	if *userAgent != "" {
		cfg.UserAgent = *userAgent
	}
	if *datasetID != "" {
		cfg.DatasetID = *datasetID
	}
	if *name != "" {
		cfg.Name = *name
	}
	if *description != "" {
		cfg.Description = *description
	}
	if *inputFile != "" {
		cfg.InputFile = *inputFile
	}
	if *chunkBudget > 0 {
		cfg.ChunkBudgetKB = *chunkBudget
	}
	if *timeoutSecs > 0 {
		cfg.TimeoutSecs = *timeoutSecs
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *debug {
		cfg.Debug = true
	}
	if *quiet {
		cfg.Quiet = true
	}

	// Set defaults
	if cfg.ChunkBudgetKB == 0 {
		cfg.ChunkBudgetKB = 10000
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = 300
	}

	// Validate required fields
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is required (flag -token, env DOMO_TOKEN, or -auth-file)")
	}
	if cfg.Customer == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("customer or base-url is required")
	}
	if cfg.InputFile == "" {
		return nil, fmt.Errorf("file is required")
	}
	if cfg.DatasetID == "" && cfg.Name == "" {
		return nil, fmt.Errorf("dataset-id (replace) or name (create) is required")
	}

	return cfg, nil
}

// loadFromYAML loads configuration from a YAML file.
func loadFromYAML(cfg *Config, filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return err
	}

	var yamlCfg struct {
		Customer      string `yaml:"customer"`
		BaseURL       string `yaml:"base_url"`
		Token         string `yaml:"token"`
		UserAgent     string `yaml:"user_agent"`
		DatasetID     string `yaml:"dataset_id"`
		Name          string `yaml:"name"`
		Description   string `yaml:"description"`
		InputFile     string `yaml:"file"`
		ChunkBudgetKB int    `yaml:"chunk_budget_kb"`
		TimeoutSecs   int    `yaml:"timeout"`
		LogFile       string `yaml:"log_file"`
	}

	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return err
	}

	if yamlCfg.Customer != "" {
		cfg.Customer = yamlCfg.Customer
	}
	if yamlCfg.BaseURL != "" {
		cfg.BaseURL = yamlCfg.BaseURL
	}
	if yamlCfg.Token != "" {
		cfg.Token = yamlCfg.Token
	}
	if yamlCfg.UserAgent != "" {
		cfg.UserAgent = yamlCfg.UserAgent
	}
	if yamlCfg.DatasetID != "" {
		cfg.DatasetID = yamlCfg.DatasetID
	}
	if yamlCfg.Name != "" {
		cfg.Name = yamlCfg.Name
	}
	if yamlCfg.Description != "" {
		cfg.Description = yamlCfg.Description
	}
	if yamlCfg.InputFile != "" {
		cfg.InputFile = yamlCfg.InputFile
	}
	if yamlCfg.ChunkBudgetKB > 0 {
		cfg.ChunkBudgetKB = yamlCfg.ChunkBudgetKB
	}
	if yamlCfg.TimeoutSecs > 0 {
		cfg.TimeoutSecs = yamlCfg.TimeoutSecs
	}
	if yamlCfg.LogFile != "" {
		cfg.LogFile = yamlCfg.LogFile
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if val := os.Getenv("DOMO_CUSTOMER"); val != "" {
		cfg.Customer = val
	}
	if val := os.Getenv("DOMO_BASE_URL"); val != "" {
		cfg.BaseURL = val
	}
	if val := os.Getenv("DOMO_TOKEN"); val != "" {
		cfg.Token = val
	}
	if val := os.Getenv("DOMO_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}
	if val := os.Getenv("DOMO_DATASET_ID"); val != "" {
		cfg.DatasetID = val
	}
	if val := os.Getenv("DOMO_CHUNK_BUDGET_KB"); val != "" {
		if kb, err := strconv.Atoi(val); err == nil {
			cfg.ChunkBudgetKB = kb
		}
	}
	if val := os.Getenv("DOMO_TIMEOUT"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil {
			cfg.TimeoutSecs = secs
		}
	}
	if val := os.Getenv("DOMO_LOG_FILE"); val != "" {
		cfg.LogFile = val
	}
}

// ReadAuthFile reads the developer token from an auth file (JSON format).
func (c *Config) ReadAuthFile(authFile string) error {
	if authFile == "" {
		return nil
	}

	data, err := os.ReadFile(authFile)
	if err != nil {
		return fmt.Errorf("failed to read auth file: %w", err)
	}

	var auth struct {
		Token string `json:"token"`
	}

	if err := json.Unmarshal(data, &auth); err != nil {
		return fmt.Errorf("failed to parse auth file: %w", err)
	}

	c.Token = auth.Token
	return nil
}

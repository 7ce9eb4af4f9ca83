// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv blanks every DOMO_* variable Load reads so ambient environment
// never leaks into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOMO_CUSTOMER", "DOMO_BASE_URL", "DOMO_TOKEN", "DOMO_USER_AGENT",
		"DOMO_DATASET_ID", "DOMO_CHUNK_BUDGET_KB", "DOMO_TIMEOUT", "DOMO_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadFromFlags(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{
		"-customer", "acme",
		"-token", "tok-123",
		"-file", "data.csv",
		"-dataset-id", "ds-1",
		"-chunk-budget-kb", "500",
		"-debug",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Customer != "acme" || cfg.Token != "tok-123" || cfg.InputFile != "data.csv" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.DatasetID != "ds-1" {
		t.Errorf("DatasetID = %q", cfg.DatasetID)
	}
	if cfg.ChunkBudgetKB != 500 {
		t.Errorf("ChunkBudgetKB = %d, want 500", cfg.ChunkBudgetKB)
	}
	if cfg.TimeoutSecs != 300 {
		t.Errorf("TimeoutSecs = %d, want default 300", cfg.TimeoutSecs)
	}
	if !cfg.Debug {
		t.Error("Debug flag not applied")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{
		"-customer", "acme",
		"-token", "tok",
		"-file", "data.csv",
		"-name", "new dataset",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkBudgetKB != 10000 {
		t.Errorf("ChunkBudgetKB = %d, want default 10000", cfg.ChunkBudgetKB)
	}
	if cfg.TimeoutSecs != 300 {
		t.Errorf("TimeoutSecs = %d, want default 300", cfg.TimeoutSecs)
	}
	if cfg.Debug || cfg.Quiet {
		t.Errorf("boolean defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOMO_CUSTOMER", "env-corp")
	t.Setenv("DOMO_TOKEN", "env-token")
	t.Setenv("DOMO_DATASET_ID", "env-ds")
	t.Setenv("DOMO_CHUNK_BUDGET_KB", "250")

	cfg, err := Load([]string{"-file", "data.csv"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Customer != "env-corp" || cfg.Token != "env-token" || cfg.DatasetID != "env-ds" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.ChunkBudgetKB != 250 {
		t.Errorf("ChunkBudgetKB = %d, want 250", cfg.ChunkBudgetKB)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOMO_CUSTOMER", "env-corp")
	t.Setenv("DOMO_TOKEN", "env-token")
	t.Setenv("DOMO_CHUNK_BUDGET_KB", "250")

	cfg, err := Load([]string{
		"-customer", "flag-corp",
		"-file", "data.csv",
		"-dataset-id", "ds-1",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Customer != "flag-corp" {
		t.Errorf("Customer = %q, flag must beat env", cfg.Customer)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Token = %q, env must survive when no flag is given", cfg.Token)
	}
	if cfg.ChunkBudgetKB != 250 {
		t.Errorf("ChunkBudgetKB = %d, unset flag must not stomp env", cfg.ChunkBudgetKB)
	}
}

func TestLoadFromYAML(t *testing.T) {
	clearEnv(t)
	yamlPath := writeFile(t, "domoload.yaml", strings.Join([]string{
		"customer: yaml-corp",
		"token: yaml-token",
		"file: yaml.csv",
		"dataset_id: yaml-ds",
		"chunk_budget_kb: 42",
		"log_file: /tmp/load.log",
	}, "\n"))

	cfg, err := Load([]string{"-config-file", yamlPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Customer != "yaml-corp" || cfg.Token != "yaml-token" || cfg.InputFile != "yaml.csv" {
		t.Errorf("yaml not applied: %+v", cfg)
	}
	if cfg.ChunkBudgetKB != 42 || cfg.LogFile != "/tmp/load.log" {
		t.Errorf("yaml numeric/path fields: %+v", cfg)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOMO_TOKEN", "env-token")
	yamlPath := writeFile(t, "domoload.yaml", strings.Join([]string{
		"customer: yaml-corp",
		"token: yaml-token",
		"file: yaml.csv",
		"dataset_id: yaml-ds",
	}, "\n"))

	cfg, err := Load([]string{"-config-file", yamlPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Token = %q, env must beat yaml", cfg.Token)
	}
	if cfg.Customer != "yaml-corp" {
		t.Errorf("Customer = %q, yaml must survive when env is unset", cfg.Customer)
	}
}

func TestLoadMissingConfigFileIgnored(t *testing.T) {
	clearEnv(t)

	// The default config file not existing is not an error.
	_, err := Load([]string{
		"-config-file", filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		"-customer", "acme",
		"-token", "tok",
		"-file", "data.csv",
		"-dataset-id", "ds-1",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing token",
			args:    []string{"-customer", "acme", "-file", "d.csv", "-dataset-id", "ds"},
			wantErr: "token",
		},
		{
			name:    "missing customer and base url",
			args:    []string{"-token", "tok", "-file", "d.csv", "-dataset-id", "ds"},
			wantErr: "customer or base-url",
		},
		{
			name:    "missing input file",
			args:    []string{"-customer", "acme", "-token", "tok", "-dataset-id", "ds"},
			wantErr: "file",
		},
		{
			name:    "missing dataset id and name",
			args:    []string{"-customer", "acme", "-token", "tok", "-file", "d.csv"},
			wantErr: "dataset-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(tt.args)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadAuthFile(t *testing.T) {
	clearEnv(t)
	authPath := writeFile(t, "auth.json", `{"token": "file-token"}`)

	cfg, err := Load([]string{
		"-customer", "acme",
		"-auth-file", authPath,
		"-file", "data.csv",
		"-dataset-id", "ds-1",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "file-token" {
		t.Errorf("Token = %q, want token from auth file", cfg.Token)
	}

	var c Config
	if err := c.ReadAuthFile(writeFile(t, "bad.json", "not json")); err == nil {
		t.Error("expected error for malformed auth file")
	}
	if err := c.ReadAuthFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing auth file")
	}
}

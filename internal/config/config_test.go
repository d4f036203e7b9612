package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "fieldlens" {
		t.Errorf("Expected default server name to be 'fieldlens', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.MappingName != "dock_management" {
		t.Errorf("Expected default mapping to be 'dock_management', got '%s'", cfg.MappingName)
	}

	if cfg.OCRModel != "prebuilt-layout" {
		t.Errorf("Expected default OCR model to be 'prebuilt-layout', got '%s'", cfg.OCRModel)
	}

	if cfg.OpenAIAPIVersion != "2024-06-01" {
		t.Errorf("Expected default API version to be '2024-06-01', got '%s'", cfg.OpenAIAPIVersion)
	}

	currentDir, _ := os.Getwd()
	if cfg.DocumentDirectory != currentDir {
		t.Errorf("Expected default document directory to be '%s', got '%s'", currentDir, cfg.DocumentDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()

	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.DocumentDirectory = tempDir
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty document directory",
			mutate:  func(c *Config) { c.DocumentDirectory = "" },
			wantErr: "document directory",
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: "maximum file size",
		},
		{
			name:    "negative max file size",
			mutate:  func(c *Config) { c.MaxFileSize = -1 },
			wantErr: "maximum file size",
		},
		{
			name: "no mapping configured",
			mutate: func(c *Config) {
				c.MappingName = ""
				c.MappingFile = ""
			},
			wantErr: "mapping",
		},
		{
			name:   "mapping workbook only",
			mutate: func(c *Config) { c.MappingName = ""; c.MappingFile = "custom.xlsx" },
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q but got none", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestConfigValidateCreatesDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DocumentDirectory = filepath.Join(t.TempDir(), "docs")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(cfg.DocumentDirectory)
	if err != nil {
		t.Fatalf("expected directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", cfg.DocumentDirectory)
	}
}

func TestConfigHasServices(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HasRecognition() {
		t.Errorf("expected recognition to be unconfigured by default")
	}
	if cfg.HasExtraction() {
		t.Errorf("expected extraction to be unconfigured by default")
	}

	cfg.OCREndpoint = "https://example.cognitiveservices.azure.com"
	cfg.OCRKey = "key"
	if !cfg.HasRecognition() {
		t.Errorf("expected recognition to be configured")
	}

	cfg.OpenAIEndpoint = "https://example.openai.azure.com"
	cfg.OpenAIKey = "key"
	if cfg.HasExtraction() {
		t.Errorf("expected extraction to need a deployment")
	}
	cfg.OpenAIDeployment = "gpt-4.1"
	if !cfg.HasExtraction() {
		t.Errorf("expected extraction to be configured")
	}
}

func TestConfigStringElidesSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OCRKey = "ocr-secret"
	cfg.OpenAIKey = "openai-secret"

	s := cfg.String()
	if strings.Contains(s, "ocr-secret") || strings.Contains(s, "openai-secret") {
		t.Errorf("config string leaked a secret: %s", s)
	}
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsDebug() {
		t.Errorf("expected debug to be off at default log level")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Errorf("expected debug to be on")
	}
}

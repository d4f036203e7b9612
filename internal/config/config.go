package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultMappingName = "dock_management"
	DefaultOCRModel    = "prebuilt-layout"
	DefaultAPIVersion  = "2024-06-01"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the field extraction server
type Config struct {
	// Document intake
	DocumentDirectory string
	MaxFileSize       int64 // Maximum document file size in bytes

	// Recognition service
	OCREndpoint string
	OCRKey      string
	OCRModel    string

	// Azure OpenAI extraction service
	OpenAIEndpoint   string
	OpenAIKey        string
	OpenAIDeployment string
	OpenAIAPIVersion string

	// Field mapping
	MappingName string
	MappingFile string // optional xlsx overriding the built-in set

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		DocumentDirectory: currentDir,
		MaxFileSize:       DefaultMaxFileSize,
		OCRModel:          DefaultOCRModel,
		OpenAIAPIVersion:  DefaultAPIVersion,
		MappingName:       DefaultMappingName,
		Version:           "1.0.0",
		ServerName:        "fieldlens",
		LogLevel:          DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FIELDLENS")
	viper.AutomaticEnv()

	viper.SetDefault("dir", cfg.DocumentDirectory)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("ocr_endpoint", cfg.OCREndpoint)
	viper.SetDefault("ocr_key", cfg.OCRKey)
	viper.SetDefault("ocr_model", cfg.OCRModel)
	viper.SetDefault("openai_endpoint", cfg.OpenAIEndpoint)
	viper.SetDefault("openai_key", cfg.OpenAIKey)
	viper.SetDefault("openai_deployment", cfg.OpenAIDeployment)
	viper.SetDefault("openai_api_version", cfg.OpenAIAPIVersion)
	viper.SetDefault("mapping", cfg.MappingName)
	viper.SetDefault("mappingfile", cfg.MappingFile)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("dir", cfg.DocumentDirectory, "Directory containing document files")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum document file size in bytes")
	pflag.String("ocr-endpoint", cfg.OCREndpoint, "Document Intelligence endpoint URL")
	pflag.String("ocr-key", cfg.OCRKey, "Document Intelligence API key")
	pflag.String("ocr-model", cfg.OCRModel, "Document Intelligence analysis model")
	pflag.String("openai-endpoint", cfg.OpenAIEndpoint, "Azure OpenAI endpoint URL")
	pflag.String("openai-key", cfg.OpenAIKey, "Azure OpenAI API key")
	pflag.String("openai-deployment", cfg.OpenAIDeployment, "Azure OpenAI deployment name")
	pflag.String("openai-api-version", cfg.OpenAIAPIVersion, "Azure OpenAI API version")
	pflag.String("mapping", cfg.MappingName, "Name of the field mapping set")
	pflag.String("mappingfile", cfg.MappingFile, "Path to an xlsx mapping workbook overriding the built-in set")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("ocr_endpoint", pflag.Lookup("ocr-endpoint"))
	_ = viper.BindPFlag("ocr_key", pflag.Lookup("ocr-key"))
	_ = viper.BindPFlag("ocr_model", pflag.Lookup("ocr-model"))
	_ = viper.BindPFlag("openai_endpoint", pflag.Lookup("openai-endpoint"))
	_ = viper.BindPFlag("openai_key", pflag.Lookup("openai-key"))
	_ = viper.BindPFlag("openai_deployment", pflag.Lookup("openai-deployment"))
	_ = viper.BindPFlag("openai_api_version", pflag.Lookup("openai-api-version"))
	_ = viper.BindPFlag("mapping", pflag.Lookup("mapping"))
	_ = viper.BindPFlag("mappingfile", pflag.Lookup("mappingfile"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFieldLens - document field extraction and region location over MCP\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/documents\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mapping=dock_management --loglevel=debug\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_DIR                 Document directory\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_MAXFILESIZE         Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_OCR_ENDPOINT        Document Intelligence endpoint\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_OCR_KEY             Document Intelligence key\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_OCR_MODEL           Document Intelligence model\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_OPENAI_ENDPOINT     Azure OpenAI endpoint\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_OPENAI_KEY          Azure OpenAI key\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_OPENAI_DEPLOYMENT   Azure OpenAI deployment\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_OPENAI_API_VERSION  Azure OpenAI API version\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_MAPPING             Field mapping set name\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_MAPPINGFILE         Mapping workbook path\n")
		fmt.Fprintf(os.Stderr, "  FIELDLENS_LOGLEVEL            Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.DocumentDirectory = viper.GetString("dir")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OCREndpoint = viper.GetString("ocr_endpoint")
	cfg.OCRKey = viper.GetString("ocr_key")
	cfg.OCRModel = viper.GetString("ocr_model")
	cfg.OpenAIEndpoint = viper.GetString("openai_endpoint")
	cfg.OpenAIKey = viper.GetString("openai_key")
	cfg.OpenAIDeployment = viper.GetString("openai_deployment")
	cfg.OpenAIAPIVersion = viper.GetString("openai_api_version")
	cfg.MappingName = viper.GetString("mapping")
	cfg.MappingFile = viper.GetString("mappingfile")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	// Create the document directory when missing so a fresh install works.
	if _, err := os.Stat(c.DocumentDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.DocumentDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.MappingName == "" && c.MappingFile == "" {
		return errors.New("a mapping set name or mapping workbook must be configured")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// HasRecognition reports whether the recognition service is configured
func (c *Config) HasRecognition() bool {
	return c.OCREndpoint != "" && c.OCRKey != ""
}

// HasExtraction reports whether the extraction service is configured
func (c *Config) HasExtraction() bool {
	return c.OpenAIEndpoint != "" && c.OpenAIKey != "" && c.OpenAIDeployment != ""
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration with secrets
// elided
func (c *Config) String() string {
	return fmt.Sprintf("Config{DocumentDirectory: %s, Mapping: %s, OCRModel: %s, OpenAIDeployment: %s, LogLevel: %s, MaxFileSize: %d}",
		c.DocumentDirectory, c.MappingName, c.OCRModel, c.OpenAIDeployment, c.LogLevel, c.MaxFileSize)
}

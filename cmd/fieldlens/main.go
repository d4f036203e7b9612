package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/extract"
	"github.com/fieldlens/fieldlens/internal/llm"
	"github.com/fieldlens/fieldlens/internal/mapping"
	"github.com/fieldlens/fieldlens/internal/mcp"
	"github.com/fieldlens/fieldlens/internal/ocr"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds a zap logger writing to stderr so the MCP protocol on
// stdout stays clean.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

// loadMappingSet resolves the field mapping from either a workbook override
// or the built-in sets.
func loadMappingSet(cfg *config.Config) (mapping.Set, error) {
	if cfg.MappingFile != "" {
		name := cfg.MappingName
		if name == "" {
			name = config.DefaultMappingName
		}
		return mapping.LoadWorkbook(cfg.MappingFile, name)
	}
	return mapping.Builtin(cfg.MappingName)
}

func buildService(cfg *config.Config, logger *zap.Logger) (*extract.Service, error) {
	set, err := loadMappingSet(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping set: %w", err)
	}

	var recognizer extract.Recognizer
	if cfg.HasRecognition() {
		client, err := ocr.NewClient(cfg.OCREndpoint, cfg.OCRKey, ocr.WithModel(cfg.OCRModel))
		if err != nil {
			return nil, fmt.Errorf("failed to create recognition client: %w", err)
		}
		recognizer = client
	} else {
		logger.Warn("recognition service not configured, document_extract_fields will be unavailable")
	}

	var extractor extract.Extractor
	if cfg.HasExtraction() {
		client, err := llm.NewClient(cfg.OpenAIEndpoint, cfg.OpenAIKey, cfg.OpenAIDeployment,
			llm.WithAPIVersion(cfg.OpenAIAPIVersion))
		if err != nil {
			return nil, fmt.Errorf("failed to create extraction client: %w", err)
		}
		extractor = client
	} else {
		logger.Warn("extraction service not configured, document_extract_fields will be unavailable")
	}

	return extract.NewService(recognizer, extractor, set, cfg.MaxFileSize, logger), nil
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsDebug() {
		logger.Debug("starting with configuration", zap.String("config", cfg.String()))
	}

	service, err := buildService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build extraction service", zap.Error(err))
	}

	server, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		logger.Fatal("failed to create MCP server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The parent process controls our lifecycle over stdio. Exit cleanly
	// when stdin closes or the server errors.
	if err := server.Run(ctx); err != nil {
		if cfg.IsDebug() {
			logger.Error("server error", zap.Error(err))
		}
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("FieldLens\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}

// Package mcp exposes the extraction pipeline as a Model Context Protocol
// server over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/descriptions"
	"github.com/fieldlens/fieldlens/internal/document"
	"github.com/fieldlens/fieldlens/internal/extract"
	"github.com/fieldlens/fieldlens/internal/match"
	"github.com/fieldlens/fieldlens/internal/ocr"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *extract.Service
	validator *document.Validator
	inspector *document.Inspector
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *extract.Service, logger *zap.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		validator: document.NewValidator(cfg.MaxFileSize),
		inspector: document.NewInspector(cfg.MaxFileSize),
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFieldsTool := mcp.NewTool(
		"document_extract_fields",
		mcp.WithDescription(descriptions.GetToolDescription("document_extract_fields")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the document file"),
		),
	)
	s.mcpServer.AddTool(extractFieldsTool, s.handleExtractFields)

	locateFieldsTool := mcp.NewTool(
		"document_locate_fields",
		mcp.WithDescription(descriptions.GetToolDescription("document_locate_fields")),
		mcp.WithString("analyze_result_path",
			mcp.Required(),
			mcp.Description("Path to a JSON file holding the recognition result"),
		),
		mcp.WithString("fields_path",
			mcp.Required(),
			mcp.Description("Path to a JSON file holding extracted field values keyed by JSON tag"),
		),
		mcp.WithString("document_id",
			mcp.Description("Document id to stamp on regions (defaults to the recognition result's id)"),
		),
	)
	s.mcpServer.AddTool(locateFieldsTool, s.handleLocateFields)

	validateFileTool := mcp.NewTool(
		"document_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("document_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the document file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	describeFileTool := mcp.NewTool(
		"document_describe_file",
		mcp.WithDescription(descriptions.GetToolDescription("document_describe_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the document file"),
		),
	)
	s.mcpServer.AddTool(describeFileTool, s.handleDescribeFile)

	serverInfoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription(descriptions.GetToolDescription("server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ExtractFields(ctx, extract.ExtractFieldsRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonToolResult(result)
}

func (s *Server) handleLocateFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resultPath, err := request.RequireString("analyze_result_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldsPath, err := request.RequireString("fields_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	analyzeResult, err := readAnalyzeResult(resultPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := readFields(fieldsPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := extract.LocateFieldsRequest{
		Result: analyzeResult,
		Fields: fields,
	}
	if id, ok := request.GetArguments()["document_id"].(string); ok {
		req.DocumentID = id
	}

	result, err := s.service.LocateFields(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonToolResult(result)
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.validator.ValidateFile(document.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("Document %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("Document validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleDescribeFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.inspector.DescribeFile(document.DescribeFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonToolResult(result)
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set := s.service.MappingSet()

	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Document Directory: %s\n", s.config.DocumentDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Recognition Configured: %t\n", s.config.HasRecognition())
	text += fmt.Sprintf("Extraction Configured: %t\n\n", s.config.HasExtraction())

	text += fmt.Sprintf("Mapping Set: %s (%d fields)\n", set.Name, len(set.Entries))
	for _, entry := range set.Entries {
		text += fmt.Sprintf("  • %s -> %s (%s)\n", entry.FormField, entry.JSONTag, entry.DataType)
	}

	text += "\nAvailable Tools:\n"
	text += "  • document_extract_fields - full pipeline: recognition, extraction, region location\n"
	text += "  • document_locate_fields - locate stored field values in a stored recognition result\n"
	text += "  • document_validate_file - intake validation for a document file\n"
	text += "  • document_describe_file - pages, embedded text, and image inventory\n"
	text += "  • server_info - this information\n"

	return mcp.NewToolResultText(text), nil
}

func readAnalyzeResult(path string) (*ocr.AnalyzeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recognition result %s: %w", path, err)
	}
	var result ocr.AnalyzeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode recognition result %s: %w", path, err)
	}
	return &result, nil
}

func readFields(path string) (map[string]match.FieldValue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted fields %s: %w", path, err)
	}

	// Accept either the bare tag map or the extracted_fields envelope the
	// mapping model produces.
	var envelope struct {
		ExtractedFields map[string]match.FieldValue `json:"extracted_fields"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.ExtractedFields) > 0 {
		return envelope.ExtractedFields, nil
	}

	var fields map[string]match.FieldValue
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode extracted fields %s: %w", path, err)
	}
	return fields, nil
}

func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Run starts the MCP server over stdio
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		s.logger.Debug("starting MCP server over stdio",
			zap.String("document_dir", s.config.DocumentDirectory))
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// Package extract orchestrates the document pipeline: intake validation,
// recognition, LLM extraction, and region resolution against the geometric
// line model.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldlens/fieldlens/internal/document"
	"github.com/fieldlens/fieldlens/internal/geometry"
	"github.com/fieldlens/fieldlens/internal/llm"
	"github.com/fieldlens/fieldlens/internal/mapping"
	"github.com/fieldlens/fieldlens/internal/match"
	"github.com/fieldlens/fieldlens/internal/ocr"
)

// Recognizer produces a recognition result for a document file.
type Recognizer interface {
	AnalyzeFile(ctx context.Context, path string) (*ocr.AnalyzeResult, error)
}

// Extractor is the LLM collaborator of the pipeline.
type Extractor interface {
	IdentifyFormType(ctx context.Context, ocrText string) (string, error)
	ExtractPage(ctx context.Context, formType string, page llm.PageInput, previousPageSummary string) (string, error)
	MapFields(ctx context.Context, set mapping.Set, formType, knowledgeBase string, imagesBase64 []string) (map[string]match.FieldValue, error)
}

// Service runs the extraction pipeline over documents
type Service struct {
	recognizer Recognizer
	extractor  Extractor
	set        mapping.Set
	validator  *document.Validator
	logger     *zap.Logger
}

// NewService creates a pipeline service. The recognizer and extractor may be
// nil when only offline location is needed.
func NewService(recognizer Recognizer, extractor Extractor, set mapping.Set, maxFileSize int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		recognizer: recognizer,
		extractor:  extractor,
		set:        set,
		validator:  document.NewValidator(maxFileSize),
		logger:     logger,
	}
}

// MappingSet returns the mapping set the service resolves fields against
func (s *Service) MappingSet() mapping.Set {
	return s.set
}

// ExtractFields runs the full pipeline on a document file: validation,
// recognition, form-type identification, per-page knowledge-base extraction,
// field mapping, and region resolution.
func (s *Service) ExtractFields(ctx context.Context, req ExtractFieldsRequest) (*ExtractFieldsResult, error) {
	if s.recognizer == nil {
		return nil, fmt.Errorf("recognition service is not configured")
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("extraction service is not configured")
	}

	runID := uuid.New().String()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("path", req.Path))

	validation, err := s.validator.ValidateFile(document.ValidateFileRequest{Path: req.Path})
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("document failed validation: %s", validation.Message)
	}

	result, err := s.recognizer.AnalyzeFile(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}
	logger.Info("document recognized",
		zap.String("document_id", result.DocumentID),
		zap.Int("pages", len(result.Pages)))

	pageContent := result.PageContent()

	formType, err := s.extractor.IdentifyFormType(ctx, firstPageContent(result, pageContent))
	if err != nil {
		return nil, err
	}
	logger.Info("form type identified", zap.String("form_type", formType))

	knowledgeBase, err := s.buildKnowledgeBase(ctx, formType, result, pageContent)
	if err != nil {
		return nil, err
	}

	fields, err := s.extractor.MapFields(ctx, s.set, formType, knowledgeBase, nil)
	if err != nil {
		return nil, err
	}
	logger.Info("fields mapped", zap.Int("fields", len(fields)))

	regions, lines, err := s.locate(result, fields, result.DocumentID)
	if err != nil {
		return nil, err
	}
	logger.Info("regions resolved", zap.Int("lines", lines), zap.Int("regions", len(regions)))

	return &ExtractFieldsResult{
		RunID:      runID,
		DocumentID: result.DocumentID,
		Path:       req.Path,
		FormType:   formType,
		Pages:      len(result.Pages),
		Fields:     fields,
		Regions:    regions,
	}, nil
}

// LocateFields resolves regions for already-extracted field values against a
// recognition result. This path makes no model calls.
func (s *Service) LocateFields(req LocateFieldsRequest) (*LocateFieldsResult, error) {
	if req.Result == nil {
		return nil, fmt.Errorf("analyze result is required")
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = req.Result.DocumentID
	}

	regions, lines, err := s.locate(req.Result, req.Fields, documentID)
	if err != nil {
		return nil, err
	}

	return &LocateFieldsResult{
		DocumentID: documentID,
		Lines:      lines,
		Regions:    regions,
	}, nil
}

// buildKnowledgeBase runs the per-page extraction in page order, chaining
// each page's extraction into the next as context.
func (s *Service) buildKnowledgeBase(ctx context.Context, formType string, result *ocr.AnalyzeResult, pageContent map[int]string) (string, error) {
	var knowledgeBase strings.Builder
	previousSummary := ""
	for _, page := range result.Pages {
		content, err := s.extractor.ExtractPage(ctx, formType, llm.PageInput{OCRText: pageContent[page.PageNumber]}, previousSummary)
		if err != nil {
			return "", fmt.Errorf("extraction failed on page %d: %w", page.PageNumber, err)
		}
		knowledgeBase.WriteString(content)
		knowledgeBase.WriteString("\n\n")
		previousSummary = content
	}
	return knowledgeBase.String(), nil
}

func (s *Service) locate(result *ocr.AnalyzeResult, fields map[string]match.FieldValue, documentID string) ([]match.FieldRegion, int, error) {
	lineTable, _, err := geometry.Build(result)
	if err != nil {
		return nil, 0, fmt.Errorf("geometry build failed: %w", err)
	}
	lineTable = geometry.StripHeaderFooter(lineTable)

	regions := match.ResolveFields(s.set.Entries, fields, lineTable, documentID)
	return regions, lineTable.Len(), nil
}

func firstPageContent(result *ocr.AnalyzeResult, pageContent map[int]string) string {
	if len(result.Pages) == 0 {
		return ""
	}
	return pageContent[result.Pages[0].PageNumber]
}

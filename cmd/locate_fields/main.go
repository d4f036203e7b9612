package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/extract"
	"github.com/fieldlens/fieldlens/internal/mapping"
	"github.com/fieldlens/fieldlens/internal/match"
	"github.com/fieldlens/fieldlens/internal/ocr"
)

var (
	mappingName  = flag.String("mapping", config.DefaultMappingName, "Name of the built-in field mapping set")
	mappingFile  = flag.String("mappingfile", "", "Path to an xlsx mapping workbook overriding the built-in set")
	documentID   = flag.String("document-id", "", "Document id to stamp on regions (defaults to the recognition result's id)")
	outputFormat = flag.String("format", "json", "Output format: json, text")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: recognition result and extracted fields paths required\n\n")
		printUsage()
		os.Exit(1)
	}

	result, err := run(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func run(resultPath, fieldsPath string) (*extract.LocateFieldsResult, error) {
	analyzeResult, err := readAnalyzeResult(resultPath)
	if err != nil {
		return nil, err
	}
	fields, err := readFields(fieldsPath)
	if err != nil {
		return nil, err
	}

	set, err := loadMappingSet()
	if err != nil {
		return nil, err
	}

	service := extract.NewService(nil, nil, set, config.DefaultMaxFileSize, nil)
	return service.LocateFields(extract.LocateFieldsRequest{
		Result:     analyzeResult,
		Fields:     fields,
		DocumentID: *documentID,
	})
}

func loadMappingSet() (mapping.Set, error) {
	if *mappingFile != "" {
		return mapping.LoadWorkbook(*mappingFile, *mappingName)
	}
	return mapping.Builtin(*mappingName)
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

func outputResults(result *extract.LocateFieldsResult) error {
	if *outputFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Document: %s\n", result.DocumentID)
	fmt.Printf("Lines after header/footer stripping: %d\n", result.Lines)
	fmt.Printf("Regions located: %d\n\n", len(result.Regions))
	for _, region := range result.Regions {
		fmt.Printf("  %s (page %d, line %d)\n", region.FieldName, region.Page, region.LineNumber)
		fmt.Printf("    text: %s\n", region.Text)
		fmt.Printf("    value: %v\n", region.PredictedValue)
	}
	return nil
}

func printHelp() {
	fmt.Println("locate_fields - locate extracted field values in a stored recognition result")
	fmt.Println()
	fmt.Println("Reads a recognition result and an extracted-fields JSON file, matches each")
	fmt.Println("field's label and value against the recognized lines, and prints the")
	fmt.Println("located regions with their bounding geometry. No model calls are made.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -mapping       Built-in mapping set name (default dock_management)")
	fmt.Println("  -mappingfile   Path to an xlsx mapping workbook overriding the built-in set")
	fmt.Println("  -document-id   Document id to stamp on regions")
	fmt.Println("  -format        Output format: json (default), text")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  locate_fields result.json fields.json")
	fmt.Println("  locate_fields -format text -mapping dock_management result.json fields.json")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  locate_fields [OPTIONS] <analyze_result.json> <extracted_fields.json>")
}

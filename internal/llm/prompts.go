package llm

import (
	"fmt"
	"strings"

	"github.com/fieldlens/fieldlens/internal/mapping"
)

// ocrExcerptLimit bounds how much first-page text the form-type prompt
// carries; the document class is recognizable from the opening lines.
const ocrExcerptLimit = 2000

const formTypeSystemPrompt = "You are an expert in document analysis."

const formTypePromptTemplate = `Based on the following OCR text from a document, please identify the type of the document.
Examples of document types include: "Invoice", "Bill of Lading", "Packing List", "Dock Receipt", "Purchase Order", etc.
Please provide only the document type as a short, descriptive name.

OCR Text:
---
%s
---

Document Type:`

const extractionPromptTemplate = `You are an expert AI assistant specializing in structured information extraction from documents.
Your task is to analyze the visual structure of the provided document image and extract all information, accurately preserving its original hierarchy and relationships.

Instructions:
1. Analyze the entire document structure: pay close attention to headings, sections, tables, lists, and visual groupings (like boxes or lines) to understand the layout.
2. Preserve hierarchy: represent the document's structure as a nested JSON object. Fields that are grouped together under a heading on the form should be grouped together in a nested JSON object.
3. Handle sections: if you identify a section with a clear heading (e.g., "Sender Information"), use that verbatim heading as a key for a nested object containing all fields within that section.
4. Handle tables and lists: if you identify a table or a list of repeating items (like line items on an invoice), represent it as a JSON array. The key for this array should be the table's title or a logical, descriptive name if no title is present. Each row should be a separate JSON object whose keys are the table's column headers.
5. Handle checkboxes: if a field contains multiple checkbox options, represent it as a JSON array of objects, each with the option's label and whether it is "selected": true or "selected": false.
6. Use verbatim keys: you MUST use the exact, verbatim text of any field label, section heading, or table column header from the image as the JSON key. Do not change, shorten, normalize, or reformat it.
7. Ground your answers: all extracted keys and values must be visibly present in the document. Do not invent or infer information that isn't there.
8. Handle missing values: if a field, label, or section is present but its value is blank or illegible, return null for its value.
9. Final output: your final output must be a single, valid JSON object that accurately represents the hierarchical content of the document.

Form Type:
%s

[FORM TEXT]
%s
[/FORM TEXT]`

const mappingPromptTemplate = `You are an expert at extracting information from documents. Your task is to extract specific fields from the provided form text and return them in a structured JSON format.

Instructions:
1. Analyze the form text: carefully read the text provided between [FORM TEXT] and [/FORM TEXT].
2. Identify and extract fields: based on the "Fields to Extract" list, find the corresponding values in the form text.
3. Construct the JSON output: create a single JSON object with a root key named "extracted_fields". The value of this key must be a dictionary where:
   - each key is a JSONTag from the "Fields to Extract" list (e.g., %s),
   - each value is an object containing:
     - "value": the extracted text from the form for that field,
     - "form_key": a list of the original field names from the form text that correspond to the extracted value. These names must come from the field names mentioned within the form text.

Form Details:
- Form Type: %s
- Fields to Extract:
%s

Form Text:

[FORM TEXT]
%s
[/FORM TEXT]

Important Notes:
- The keys in the "extracted_fields" dictionary MUST exactly match the JSONTag values provided in the "Fields to Extract" list.
- You MUST include all fields from the "Fields to Extract" list in your response, even if you cannot find them in the document.
- The "form_key" list MUST contain the corresponding field names as they appear in the original form text.
- If a field is not found in the form text, its value should be null.
- The output should be only the JSON object, with no additional text or explanations.`

func documentSystemPrompt(formType string) string {
	return fmt.Sprintf("You are an assistant that processes OCR'd shipping documents, such as '%s'. "+
		"Extract key-value pairs of all relevant information and output valid JSON. "+
		"Ignore OCR noise and typos.", formType)
}

func formTypePrompt(ocrText string) string {
	excerpt := []rune(ocrText)
	if len(excerpt) > ocrExcerptLimit {
		excerpt = excerpt[:ocrExcerptLimit]
	}
	return fmt.Sprintf(formTypePromptTemplate, string(excerpt))
}

func extractionPrompt(formType, formText, previousPageSummary string) string {
	prompt := fmt.Sprintf(extractionPromptTemplate, formType, formText)
	if previousPageSummary != "" {
		prompt += "\n\nPrevious Page Summary:\n" + previousPageSummary
	}
	return prompt
}

func mappingPrompt(set mapping.Set, formType, formText string) string {
	var fields strings.Builder
	for _, entry := range set.Entries {
		fmt.Fprintf(&fields, "- Form Field: '%s' -> JSON Tag: '%s'", entry.FormField, entry.JSONTag)
		if entry.Notes != "" {
			fmt.Fprintf(&fields, " (Notes: %s)", entry.Notes)
		}
		fields.WriteByte('\n')
	}
	tags := fmt.Sprintf("%q", set.Tags())
	return fmt.Sprintf(mappingPromptTemplate, tags, formType, fields.String(), formText)
}

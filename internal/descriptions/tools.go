package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	DocumentExtractFieldsDescription = `Run the full extraction pipeline on a document: recognition, field extraction, and on-page region location.

**When to use:** Need structured field values from a form document along with the exact page coordinates where each value appears.

**Why it's useful:** Combines layout recognition, model-based field extraction, and geometric matching in one call, so downstream systems get both the data and the evidence for it.

**Examples:**
• Dock receipt processing: "Extract all fields from dock-receipt-4512.pdf with their page locations"
• Audit support: "Extract trailer and seal numbers from gate-log.pdf and show where they were read"
• Form ingestion: "Process inbound-manifest.pdf into the dock management schema"

**Common workflows:**
1. Intake Pipeline: Validate file → Extract fields → Store values and regions → Highlight in viewer
2. Human Review: Extract fields → Present regions alongside values → Reviewer confirms or corrects
3. Batch Processing: Validate each document → Extract → Collect results per run id

**Best practices:** Requires both recognition and extraction services to be configured; validate the file first for faster failure on bad uploads.`

	DocumentLocateFieldsDescription = `Locate already-extracted field values in a stored recognition result, without any model calls.

**When to use:** Field values and the recognition result already exist, and only the page regions need to be (re)computed.

**Why it's useful:** Re-runs the geometric matching offline, so region logic can be tuned or re-applied to historical documents without paying for recognition or extraction again.

**Examples:**
• Reprocessing: "Re-locate fields for last month's documents after a matching improvement"
• Debugging: "Show which lines the OriginCompany value matched in result-doc123.json"
• Verification: "Check that corrected field values still resolve to sensible regions"

**Common workflows:**
1. Tuning: Adjust matching → Re-locate stored documents → Compare region quality
2. Backfill: Load stored results → Locate fields → Persist regions for the viewer
3. Spot Check: Locate one document → Inspect regions → Confirm matching behavior

**Best practices:** Works entirely from stored JSON, accepts either a bare tag map or the extracted_fields envelope the model produces.`

	DocumentValidateFileDescription = `Verify document file integrity and readability before processing.

**When to use:** Before running extraction on any file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted or oversized files early, and avoids wasted recognition calls.

**Examples:**
• Batch processing safety: "Validate all PDFs in /inbound/ before bulk extraction"
• Upload verification: "Check user-uploaded receipt.pdf is valid before processing"
• Quality control: "Verify scanned-manifest.pdf is readable before queueing it"

**Common workflows:**
1. Automated Processing: Validate → Extract if valid → Handle errors gracefully
2. File Quality Check: Validate → Report issues → Fix or reject bad files
3. Pre-processing Pipeline: Validate → Route to extraction → Archive rejects

**Best practices:** Always run this first in automated workflows, essential for production systems handling unknown documents.`

	DocumentDescribeFileDescription = `Inspect a document file: content-hash identity, page count, embedded text, metadata, and image inventory.

**When to use:** Need document properties before processing, or to understand whether a document is digital-native or scanned.

**Why it's useful:** Provides the document id used to key stored results, reveals whether embedded text exists, and inventories page images.

**Examples:**
• Processing decisions: "Check if delivery-note.pdf has embedded text or is a pure scan"
• Deduplication: "Get the document id of upload.pdf to check for an existing result"
• Audit trail: "Record pages, size, and producer of signed-receipt.pdf"

**Common workflows:**
1. Document Cataloging: Describe file → Store identity and metadata → Index for search
2. Deduplication: Describe file → Look up document id → Skip already-processed files
3. Processing Planning: Check pages and images → Estimate recognition cost → Queue work

**Best practices:** The document id is a hash of file content, so identical uploads under different names resolve to the same id.`

	ServerInfoDescription = `Get server information, available tools, and the configured field mapping set.

**When to use:** Starting work with the server, troubleshooting configuration, or checking which fields the active mapping covers.

**Why it's useful:** Shows whether recognition and extraction services are configured and lists every form field to JSON tag mapping in the active set.

**Examples:**
• System check: "Verify recognition and extraction are configured before batch processing"
• Mapping review: "List the fields in the dock_management mapping set"
• Troubleshooting: "Check the document directory and size limits the server is using"

**Common workflows:**
1. Session Startup: Check server info → Verify services → Plan processing approach
2. Debugging: Review configuration → Check mapping entries → Verify tool availability
3. Planning: Review mapped fields → Align downstream schema → Execute workflow

**Best practices:** Run at the start of sessions; tools that need unconfigured services will report clear errors when called.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"document_extract_fields": DocumentExtractFieldsDescription,
	"document_locate_fields":  DocumentLocateFieldsDescription,
	"document_validate_file":  DocumentValidateFileDescription,
	"document_describe_file":  DocumentDescribeFileDescription,
	"server_info":             ServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}

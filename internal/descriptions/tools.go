package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	TradeExtractFileDescription = `Extract structured trade fields from a contract or invoice PDF.

**When to use:** Need the key commercial facts of a trade document (contract number, date, parties, product line, bank details, payment terms) as structured JSON instead of raw text.

**Why it's useful:** Applies the field rule catalog to the document text and returns one named value per field, so downstream steps never re-parse free text. Absent fields come back as null rather than guesses.

**Examples:**
• Digitize a contract: "Extract fields from sales-contract-0117.pdf for the order system"
• Invoice intake: "Get contract_no and total_amount from invoice-march.pdf"
• Party lookup: "Who is the consignee in shipment-agreement.pdf?"

**Common workflows:**
1. Document Intake: Validate → Extract → Store structured record
2. Data Entry Replacement: Extract → Review null fields → Correct manually
3. Two-Document Checks: Extract both → Compare values → Flag differences

**Best practices:** Run trade_validate_file first for files of unknown origin; a scanned image PDF with no text layer fails extraction with an empty-text error.`

	TradeMergeFilesDescription = `Merge the extracted fields of two trade documents into one consolidated record.

**When to use:** Two documents describe the same transaction (a contract and its invoice, or two contract revisions) and you want a single best-effort record.

**Why it's useful:** Field-by-field merge where the first document wins whenever both carry a value, and the second fills the gaps. No value is invented; a field empty in both stays null.

**Examples:**
• Contract + invoice: "Merge sales-contract.pdf with commercial-invoice.pdf into one record"
• Revision gap-fill: "Combine contract-v1.pdf and contract-v2.pdf, preferring v1"
• Completing partial scans: "Fill the missing bank details from the counterparty copy"

**Common workflows:**
1. Record Consolidation: Extract both → Merge → Persist merged record
2. Gap Analysis: Merge → List still-null fields → Request missing documents
3. Order-Sensitive Review: Merge in both orders → Compare outcomes

**Best practices:** Argument order decides precedence; pass the authoritative document first.`

	TradeReconcileFilesDescription = `Compare two trade documents field by field and produce a match verdict.

**When to use:** Need to know whether two documents agree on the commercial facts, e.g. checking an invoice against its contract before payment.

**Why it's useful:** Produces a per-field 0/1 indicator matrix (1 = both documents carry the same non-empty value) plus an overall verdict, and persists the comparison as a CSV table for audit.

**Examples:**
• Pre-payment check: "Reconcile invoice-2024-001.pdf against master-contract.pdf"
• Amendment diff: "Which fields changed between contract-v1.pdf and contract-v2.pdf?"
• Audit trail: "Produce the reconciliation table for shipment 0117"

**Common workflows:**
1. Payment Gate: Reconcile → Verdict successful → Approve payment
2. Discrepancy Review: Reconcile → List 0-indicator fields → Escalate mismatches
3. Reporting: Reconcile → Download table via the HTTP API → Share with finance

**Best practices:** A field missing from both documents never counts as a match; check the indicator matrix rather than relying on the verdict alone when documents are sparse.`

	TradeValidateFileDescription = `Verify that a file is a structurally readable PDF before extraction.

**When to use:** Before extracting or reconciling any PDF of unknown origin, especially in automated pipelines.

**Why it's useful:** Catches corrupted, truncated, or mislabeled files early with a clear message, instead of a confusing failure mid-pipeline. Also reports the page count.

**Examples:**
• Intake gate: "Validate supplier-invoice.pdf before running extraction"
• Batch safety: "Check every PDF in the contracts folder is readable"
• Triage: "Why does extraction fail on scanned-fax.pdf?"

**Common workflows:**
1. Automated Intake: Validate → Extract if valid → Quarantine bad files
2. Triage: Validate → Read the failure message → Re-request the document
3. Quality Control: Validate exports → Confirm page count → Release

**Best practices:** Validation checks PDF structure, not text content; a valid scan with no text layer still fails extraction later with an empty-text error.`

	TradeServerInfoDescription = `Get server information, the active field catalog, and usage guidance.

**When to use:** Starting a session against an unfamiliar server, or checking which fields the rule catalog extracts and where the reconciliation table is written.

**Why it's useful:** Shows the configured documents directory, table location, size limits, every extractable field name, and a summary of the available tools, so you can plan calls without trial and error.

**Examples:**
• Session start: "What tools does this trade document server offer?"
• Catalog check: "Does the catalog extract seller_bank and account_no?"
• Locating output: "Where does the reconciliation table get written?"

**Common workflows:**
1. Orientation: Server info → Pick tools → Operate on documents
2. Capability Check: Server info → Confirm field coverage → Extract
3. Debugging: Server info → Verify directory and limits → Retry failing call

**Best practices:** Call once at session start; file arguments to the other tools resolve relative to the documents directory shown here.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"trade_extract_file":    TradeExtractFileDescription,
	"trade_merge_files":     TradeMergeFilesDescription,
	"trade_reconcile_files": TradeReconcileFilesDescription,
	"trade_validate_file":   TradeValidateFileDescription,
	"trade_server_info":     TradeServerInfoDescription,
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

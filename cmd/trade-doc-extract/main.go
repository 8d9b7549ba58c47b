package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/trade-doc-match/internal/export"
	"github.com/a3tai/trade-doc-match/internal/fields"
	"github.com/a3tai/trade-doc-match/internal/pdf"
	"github.com/a3tai/trade-doc-match/internal/reconcile"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	tablePath    = flag.String("table", "", "Write the reconciliation table CSV here (two files only)")
	rulesPath    = flag.String("rules", "", "JSON file with custom field extraction rules")
	maxFileSize  = flag.Int64("maxfilesize", 100*1024*1024, "Maximum PDF file size in bytes")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() < 1 || flag.NArg() > 2 {
		fmt.Fprintf(os.Stderr, "Error: one or two PDF file paths required\n\n")
		printUsage()
		os.Exit(1)
	}

	catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rules: %v\n", err)
		os.Exit(1)
	}

	result, err := run(flag.Args(), catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Trade Doc Extract - pull structured trade fields out of contract and invoice PDFs")
	fmt.Println()
	fmt.Println("With one file, prints the extracted fields. With two files, additionally")
	fmt.Println("merges them (first file wins on conflict) and compares them field by field,")
	fmt.Println("reporting a 0/1 indicator per field and an overall match verdict.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format       Output format: text (default), json")
	fmt.Println("  -table        Write the reconciliation table CSV to this path (two files only)")
	fmt.Println("  -rules        JSON file with custom field extraction rules")
	fmt.Println("  -maxfilesize  Maximum PDF file size in bytes (default 100MB)")
	fmt.Println("  -help         Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  trade-doc-extract contract.pdf")
	fmt.Println("  trade-doc-extract -format json contract.pdf")
	fmt.Println("  trade-doc-extract contract.pdf invoice.pdf")
	fmt.Println("  trade-doc-extract -table reconciliation.csv contract.pdf invoice.pdf")
	fmt.Println("  trade-doc-extract -rules my-rules.json contract.pdf")
	fmt.Println()
	fmt.Println("EXTRACTED FIELDS:")
	fmt.Println("  " + strings.Join(fields.FieldNames(), ", "))
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  trade-doc-extract [OPTIONS] <pdf_file> [<pdf_file>]")
}

// FileExtraction is the per-document slice of the output
type FileExtraction struct {
	Name   string             `json:"name"`
	Fields *fields.Extraction `json:"fields"`
}

// Output is the complete CLI result for one invocation
type Output struct {
	Files      []FileExtraction   `json:"files"`
	Merged     *fields.Extraction `json:"merged,omitempty"`
	Columns    []string           `json:"columns,omitempty"`
	Indicators map[string]int     `json:"indicators,omitempty"`
	Verdict    string             `json:"verdict,omitempty"`
	TablePath  string             `json:"table_path,omitempty"`
}

func loadCatalog() (*fields.Catalog, error) {
	if *rulesPath == "" {
		return fields.DefaultCatalog(), nil
	}
	return fields.LoadRuleFile(*rulesPath)
}

func run(paths []string, catalog *fields.Catalog) (*Output, error) {
	reader := pdf.NewReader(*maxFileSize)
	recognizer := fields.NewRecognizer(catalog)

	out := &Output{}
	extractions := make([]*fields.Extraction, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		name := filepath.Base(path)
		read, err := reader.ReadBytes(pdf.ReadBytesRequest{Name: name, Data: data})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(read.Text) == "" {
			return nil, pdf.NewEmptyTextError(name)
		}

		extraction := recognizer.Recognize(read.Text)
		extractions = append(extractions, extraction)
		out.Files = append(out.Files, FileExtraction{Name: name, Fields: extraction})
	}

	if len(extractions) < 2 {
		return out, nil
	}

	out.Merged = reconcile.Merge(extractions[0], extractions[1])

	flats := []*fields.FlatFields{extractions[0].Flatten(), extractions[1].Flatten()}
	report := reconcile.Match(flats)
	out.Columns = report.Columns
	out.Indicators = report.Indicators
	out.Verdict = report.Verdict

	if *tablePath != "" {
		writer := export.NewTableWriter(*tablePath)
		if err := writer.Write(flats, report); err != nil {
			return nil, fmt.Errorf("failed to write table: %w", err)
		}
		out.TablePath = writer.Path()
	}

	return out, nil
}

func outputResults(result *Output) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *Output) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *Output) error {
	for _, file := range result.Files {
		fmt.Printf("=== %s ===\n", file.Name)
		printFlat(file.Fields.Flatten())
		fmt.Println()
	}

	if result.Merged != nil {
		fmt.Println("=== merged (first file wins) ===")
		printFlat(result.Merged.Flatten())
		fmt.Println()
	}

	if result.Indicators != nil {
		fmt.Println("=== comparison ===")
		for _, column := range result.Columns {
			fmt.Printf("%-20s %d\n", column, result.Indicators[column])
		}
		fmt.Println()
	}

	if result.Verdict != "" {
		fmt.Printf("Verdict: %s\n", result.Verdict)
	}
	if result.TablePath != "" {
		fmt.Printf("Table written to: %s\n", result.TablePath)
	}

	return nil
}

// printFlat lists every catalog field, marking absent ones
func printFlat(flat *fields.FlatFields) {
	for _, name := range flat.Names() {
		value := flat.Get(name)
		if value == "" {
			value = "-"
		}
		fmt.Printf("%-20s %s\n", name, value)
	}
}

func init() {
	// Custom flag usage
	flag.Usage = func() {
		printHelp()
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/trade-doc-match/internal/config"
	"github.com/a3tai/trade-doc-match/internal/descriptions"
	"github.com/a3tai/trade-doc-match/internal/pdf/security"
	"github.com/a3tai/trade-doc-match/internal/tradedoc"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *tradedoc.Service
	paths     *security.PathValidator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *tradedoc.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	paths, err := security.NewPathValidator(cfg.DocumentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		paths:     paths,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		"trade_extract_file",
		mcp.WithDescription("Extract structured trade fields from a contract or invoice PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the documents directory"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleTradeExtractFile)

	mergeFilesTool := mcp.NewTool(
		"trade_merge_files",
		mcp.WithDescription("Merge the extracted fields of two trade documents, first document wins"),
		mcp.WithString("path_a",
			mcp.Required(),
			mcp.Description("Path to the first PDF file (its values take precedence)"),
		),
		mcp.WithString("path_b",
			mcp.Required(),
			mcp.Description("Path to the second PDF file (fills gaps left by the first)"),
		),
	)
	s.mcpServer.AddTool(mergeFilesTool, s.handleTradeMergeFiles)

	reconcileFilesTool := mcp.NewTool(
		"trade_reconcile_files",
		mcp.WithDescription("Compare two trade documents field by field and persist the reconciliation table"),
		mcp.WithString("path_a",
			mcp.Required(),
			mcp.Description("Path to the first PDF file"),
		),
		mcp.WithString("path_b",
			mcp.Required(),
			mcp.Description("Path to the second PDF file"),
		),
	)
	s.mcpServer.AddTool(reconcileFilesTool, s.handleTradeReconcileFiles)

	validateFileTool := mcp.NewTool(
		"trade_validate_file",
		mcp.WithDescription("Validate that a file is a structurally readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the documents directory"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleTradeValidateFile)

	serverInfoTool := mcp.NewTool(
		"trade_server_info",
		mcp.WithDescription("Get server information, the active field catalog, and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleTradeServerInfo)
}

// Handler functions
func (s *Server) handleTradeExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.loadDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	extraction, err := s.service.ExtractDocument(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body, err := json.MarshalIndent(extraction, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Extracted fields from %s:\n\n%s", doc.Name, body)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTradeMergeFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pathA, err := request.RequireString("path_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pathB, err := request.RequireString("path_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	docA, err := s.loadDocument(pathA)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docB, err := s.loadDocument(pathB)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.MergeDocuments(docA, docB)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body, err := json.MarshalIndent(result.Merged, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Merged %s + %s (values from %s win on conflict):\n\n%s",
		docA.Name, docB.Name, docA.Name, body)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTradeReconcileFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pathA, err := request.RequireString("path_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pathB, err := request.RequireString("path_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	docA, err := s.loadDocument(pathA)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docB, err := s.loadDocument(pathB)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ReconcileDocuments([]tradedoc.Document{docA, docB})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatReconcileResult(docA.Name, docB.Name, result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTradeValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.loadDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ValidateDocument(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (pages: %d)", doc.Name, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", doc.Name, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTradeServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	responseText := s.formatServerInfo(s.service.Info())
	return mcp.NewToolResultText(responseText), nil
}

// loadDocument resolves a tool path argument against the documents
// directory and reads the file
func (s *Server) loadDocument(path string) (tradedoc.Document, error) {
	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return tradedoc.Document{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return tradedoc.Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	return tradedoc.Document{Name: filepath.Base(resolved), Data: data}, nil
}

// Formatting methods
func (s *Server) formatReconcileResult(nameA, nameB string, result *tradedoc.ReconcileResult) string {
	text := fmt.Sprintf("Reconciliation of %s vs %s\n", nameA, nameB)
	text += fmt.Sprintf("Run ID: %s\n", result.RunID)
	text += fmt.Sprintf("Verdict: %s\n", result.Verdict)

	if result.Indicators != nil {
		text += "\nField indicators (1 = both documents agree):\n"
		for _, column := range result.Columns {
			text += fmt.Sprintf("  %s: %d\n", column, result.Indicators[column])
		}
	}

	text += fmt.Sprintf("\nTable written to: %s\n", result.TablePath)
	return text
}

func (s *Server) formatServerInfo(info *tradedoc.Info) string {
	text := fmt.Sprintf("%s v%s - Trade Document Server\n", info.ServiceName, info.Version)
	text += fmt.Sprintf("Documents Directory: %s\n", s.paths.DocumentsDir())
	text += fmt.Sprintf("Reconciliation Table: %s\n", info.TablePath)
	text += fmt.Sprintf("Max File Size: %d MB\n", info.MaxFileSize/(1024*1024))

	text += fmt.Sprintf("\nExtractable Fields (%d):\n", info.CatalogSize)
	text += "  " + strings.Join(info.CatalogFields, ", ") + "\n"

	text += "\nAvailable Tools:\n"
	names := descriptions.GetAllToolNames()
	sort.Strings(names)
	for _, name := range names {
		text += fmt.Sprintf("\n• %s\n", name)
		text += fmt.Sprintf("  %s\n", headline(descriptions.GetToolDescription(name)))
	}

	text += "\nFile arguments resolve relative to the documents directory; absolute paths must stay inside it.\n"
	return text
}

// headline returns the first line of a long-form tool description
func headline(description string) string {
	if i := strings.IndexByte(description, '\n'); i >= 0 {
		return description[:i]
	}
	return description
}

// Run starts the MCP server on the stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		slog.Debug("mcp.stdio_start",
			"documents_dir", s.config.DocumentsDir,
			"table_path", s.config.TablePath,
		)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

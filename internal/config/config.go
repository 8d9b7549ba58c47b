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
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8410
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultTableName   = "reconciliation.csv"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the trade document service
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentsDir string
	TablePath    string
	RulesPath    string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	documentsDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		documentsDir = filepath.Join(home, "Documents")
	} else if cwd, err := os.Getwd(); err == nil {
		documentsDir = cwd
	}

	return &Config{
		Mode:         ModeStdio, // Default to stdio mode for MCP compatibility
		Host:         DefaultHost,
		Port:         DefaultPort,
		DocumentsDir: documentsDir,
		TablePath:    "", // derived from DocumentsDir unless set
		RulesPath:    "",
		Version:      "1.0.0",
		ServerName:   "trade-doc-match",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DocumentsDir != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentsDir); err == nil {
			cfg.DocumentsDir = expandedPath
		}
	}
	cfg.ApplyDerivedDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyDerivedDefaults fills settings whose defaults depend on other
// settings: the table lands next to the documents unless placed
// explicitly.
func (c *Config) ApplyDerivedDefaults() {
	if c.TablePath == "" {
		c.TablePath = filepath.Join(c.DocumentsDir, DefaultTableName)
	}
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("TRADE_DOC")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentsDir)
	viper.SetDefault("table", cfg.TablePath)
	viper.SetDefault("rules", cfg.RulesPath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentsDir, "Directory containing trade document PDFs")
	pflag.String("table", cfg.TablePath, "Path of the persisted reconciliation CSV (default <dir>/reconciliation.csv)")
	pflag.String("rules", cfg.RulesPath, "Optional JSON file with custom field extraction rules")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("table", pflag.Lookup("table"))
	_ = viper.BindPFlag("rules", pflag.Lookup("rules"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nTrade Doc Match - field extraction and reconciliation for trade document PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio MCP mode, ~/Documents (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/contracts                 "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/contracts   # HTTP API mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8411 # HTTP API on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --rules=/path/to/rules.json              # custom extraction rules\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_MODE        Server mode\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_DIR         Documents directory\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_TABLE       Reconciliation table path\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_RULES       Custom rules file\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  TRADE_DOC_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentsDir = viper.GetString("dir")
	cfg.TablePath = viper.GetString("table")
	cfg.RulesPath = viper.GetString("rules")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate documents directory
	if c.DocumentsDir == "" {
		return errors.New("documents directory cannot be empty")
	}

	// Check if documents directory exists, create if it doesn't
	if _, err := os.Stat(c.DocumentsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentsDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create documents directory %s: %w", c.DocumentsDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access documents directory %s: %w", c.DocumentsDir, err)
	}

	if c.TablePath == "" {
		return errors.New("table path cannot be empty")
	}

	// A configured rules file must exist; its content is checked when
	// the catalog loads
	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); err != nil {
			return fmt.Errorf("cannot access rules file %s: %w", c.RulesPath, err)
		}
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
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

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentsDir: %s, TablePath: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.DocumentsDir, c.TablePath, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

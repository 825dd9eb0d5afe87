package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/kite/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "kite.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "kite.yaml"

	// DefaultAddress is the default server listen address.
	DefaultAddress = "localhost:3000"

	// DefaultShutdownTimeout is the default graceful shutdown timeout.
	DefaultShutdownTimeout = "10s"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "kite"

	// DefaultQuoteSource is the default quote source kind.
	DefaultQuoteSource = SourceMemory
)

// Quote source kinds.
const (
	SourceMemory = "memory"
	SourceFile   = "file"
	SourceS3     = "s3"
)

// Refresh failure policies.
const (
	RefreshStop  = "stop"
	RefreshRetry = "retry"
)

// fileNames lists the file names Load looks for, in order.
var fileNames = []string{ConfigFileName, YAMLConfigFileName, "kite.yml"}

// Config represents the complete kite configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Quotes contains the quote API configuration.
	Quotes QuotesConfig `json:"quotes,omitempty" yaml:"quotes,omitempty"`

	// App contains the quote application configuration.
	App AppConfig `json:"app,omitempty" yaml:"app,omitempty"`

	// Telemetry contains metrics and tracing configuration.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the listen address (host:port).
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// ReadHeaderTimeout bounds reading request headers (e.g., "5s").
	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty" yaml:"readHeaderTimeout,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// AllowedOrigins lists the origins accepted on the live websocket.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// QuotesConfig contains quote API settings.
type QuotesConfig struct {
	// Source is the source kind: memory, file or s3.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// File is the JSON quote file for the file source.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// S3 locates the JSON quote object for the s3 source.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`

	// Latency delays every response (e.g., "300ms").
	Latency string `json:"latency,omitempty" yaml:"latency,omitempty"`

	// FailEvery makes every Nth request fail. Zero disables it.
	FailEvery int `json:"failEvery,omitempty" yaml:"failEvery,omitempty"`

	// Down makes every request fail.
	Down bool `json:"down,omitempty" yaml:"down,omitempty"`
}

// S3Config locates an S3 object.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key       string `json:"key,omitempty" yaml:"key,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// AppConfig contains quote application settings.
type AppConfig struct {
	// Endpoint is the quote API URL. Empty means the server's own /api/quote.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Refresh is the refresh failure policy: stop or retry.
	Refresh string `json:"refresh,omitempty" yaml:"refresh,omitempty"`

	// Styles is the path to a JSON class-name manifest.
	Styles string `json:"styles,omitempty" yaml:"styles,omitempty"`

	// Timeout bounds each fetch (e.g., "5s").
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// TelemetryConfig contains metrics and tracing settings.
type TelemetryConfig struct {
	// DisableMetrics turns off /metrics and runtime metrics.
	DisableMetrics bool `json:"disableMetrics,omitempty" yaml:"disableMetrics,omitempty"`

	// Namespace is the Prometheus namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// TracerName is the OpenTelemetry tracer name.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{Name: "kite"}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for kite.json, then kite.yaml and kite.yml.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("K100").
		WithDetail("No kite.json or kite.yaml found in " + dir)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("K100").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("K101").Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("K101").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path ends in .yaml or .yml.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("K101").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("K101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Server
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = "5s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Quotes
	if c.Quotes.Source == "" {
		c.Quotes.Source = DefaultQuoteSource
	}

	// App
	if c.App.Refresh == "" {
		c.App.Refresh = RefreshStop
	}
	if c.App.Timeout == "" {
		c.App.Timeout = "5s"
	}

	// Telemetry
	if c.Telemetry.Namespace == "" {
		c.Telemetry.Namespace = DefaultNamespace
	}
	if c.Telemetry.TracerName == "" {
		c.Telemetry.TracerName = "kite"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"server.readHeaderTimeout": c.Server.ReadHeaderTimeout,
		"server.shutdownTimeout":   c.Server.ShutdownTimeout,
		"quotes.latency":           c.Quotes.Latency,
		"app.timeout":              c.App.Timeout,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return errors.New("K102").
				WithDetailf("%s: %q is not a valid duration", name, value).
				WithSuggestion(`Use a Go duration such as "500ms" or "5s"`)
		}
	}

	switch c.Quotes.Source {
	case SourceMemory:
	case SourceFile:
		if c.Quotes.File == "" {
			return errors.New("K102").WithDetail("quotes.file is required for the file source")
		}
	case SourceS3:
		if c.Quotes.S3.Bucket == "" || c.Quotes.S3.Key == "" {
			return errors.New("K102").WithDetail("quotes.s3.bucket and quotes.s3.key are required for the s3 source")
		}
	default:
		return errors.New("K102").
			WithDetailf("quotes.source: unknown source %q", c.Quotes.Source).
			WithSuggestion("Use memory, file or s3")
	}
	if c.Quotes.FailEvery < 0 {
		return errors.New("K102").WithDetail("quotes.failEvery must not be negative")
	}

	switch c.App.Refresh {
	case RefreshStop, RefreshRetry:
	default:
		return errors.New("K102").
			WithDetailf("app.refresh: unknown policy %q", c.App.Refresh).
			WithSuggestion("Use stop or retry")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("K102").WithDetailf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("K102").WithDetailf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// ReadHeaderTimeout returns the parsed server read header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return parseDuration(c.Server.ReadHeaderTimeout, 5*time.Second)
}

// ShutdownTimeout returns the parsed server shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// QuoteLatency returns the parsed quote API latency.
func (c *Config) QuoteLatency() time.Duration {
	return parseDuration(c.Quotes.Latency, 0)
}

// FetchTimeout returns the parsed per-fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return parseDuration(c.App.Timeout, 5*time.Second)
}

// ResolvePath resolves path relative to the config file directory.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range fileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("K100").
				WithDetail("No kite.json or kite.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent holding a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

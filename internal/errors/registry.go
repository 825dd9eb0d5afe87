package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (K001-K049)
	// ============================================

	"K001": {
		Category:   CategoryRuntime,
		Message:    "Instance unmounted",
		Suggestion: "Stop rendering once Std().Done() is closed or an await returns an error",
	},
	"K002": {
		Category:   CategoryRuntime,
		Message:    "Missing key",
		Suggestion: "Render the key before calling ReplaceChild on it",
	},
	"K003": {
		Category:   CategoryRuntime,
		Message:    "Component panicked",
		Suggestion: "Return an error from the component instead of panicking",
	},
	"K004": {
		Category: CategoryRuntime,
		Message:  "Event stream closed",
	},
	"K005": {
		Category:   CategoryRuntime,
		Message:    "Element not found",
		Suggestion: "Give the element a key and look it up after rendering it",
	},

	// ============================================
	// Render Errors (K050-K099)
	// ============================================

	"K050": {
		Category:   CategoryRender,
		Message:    "Duplicate key",
		Suggestion: "Give every keyed descriptor in one render a distinct key",
	},
	"K051": {
		Category: CategoryRender,
		Message:  "Invalid descriptor",
	},

	// ============================================
	// Config Errors (K100-K149)
	// ============================================

	"K100": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Suggestion: "Create kite.json (or kite.yaml) in the project root",
	},
	"K101": {
		Category:   CategoryConfig,
		Message:    "Invalid config file",
		Suggestion: "Check that the file is valid JSON or YAML",
	},
	"K102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},

	// ============================================
	// Source Errors (K150-K199)
	// ============================================

	"K150": {
		Category: CategorySource,
		Message:  "Quote source unavailable",
	},
	"K151": {
		Category:   CategorySource,
		Message:    "Quote source is empty",
		Suggestion: "Add at least one quote to the source",
	},
	"K152": {
		Category: CategorySource,
		Message:  "Invalid quote payload",
	},

	// ============================================
	// CLI Errors (K200-K249)
	// ============================================

	"K200": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
	},
	"K201": {
		Category:   CategoryCLI,
		Message:    "Not a terminal",
		Suggestion: "Run kite tui from an interactive terminal, or use kite serve for the browser demo.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

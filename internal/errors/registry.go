package errors

import "sort"

// Template defines a registered error.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]Template{
	// Fixture errors (V001-V019)
	"V001": {
		Category: CategoryFixture,
		Message:  "Invalid tree fixture",
		Detail:   "The tree file is not valid YAML or its root is not a single node.",
	},
	"V002": {
		Category: CategoryFixture,
		Message:  "Unknown tag",
		Detail:   "Every element node needs a tag the engine knows. Text nodes use the text key instead of a tag.",
	},
	"V003": {
		Category: CategoryFixture,
		Message:  "Unknown attribute",
		Detail:   "Attribute names are a closed set: key, label, value, data, width, height, title, disabled and the on* callbacks.",
	},
	"V004": {
		Category: CategoryFixture,
		Message:  "Invalid attribute value",
		Detail:   "The attribute value has the wrong type for its key, or a data file could not be read.",
	},

	// Apply errors (V020-V039)
	"V020": {
		Category: CategoryApply,
		Message:  "Patch index not found",
		Detail:   "A patch addressed a node index the native tree does not have. The native tree no longer matches the virtual tree it was built from.",
	},
	"V021": {
		Category: CategoryApply,
		Message:  "Widget count mismatch",
		Detail:   "A toolkit built a subtree with a different number of structural widgets than the virtual subtree has nodes.",
	},
	"V022": {
		Category: CategoryApply,
		Message:  "Widget build failed",
		Detail:   "The toolkit could not create a widget for a virtual node.",
	},
	"V023": {
		Category: CategoryApply,
		Message:  "Tree not mounted",
		Detail:   "The reconciler has no live native tree to patch.",
	},

	// Config errors (V040-V059)
	"V040": {
		Category: CategoryConfig,
		Message:  "Invalid vnative.yaml",
		Detail:   "The configuration file is malformed.",
	},
	"V041": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or not one of the accepted names.",
	},
	"V042": {
		Category: CategoryConfig,
		Message:  "Invalid theme",
		Detail:   "The terminal theme file is not valid TOML or leaves a required glyph empty.",
	},

	// CLI errors (V060-V079)
	"V060": {
		Category: CategoryCLI,
		Message:  "Inspector failed",
		Detail:   "The inspector HTTP server stopped with an error.",
	},
	"V061": {
		Category: CategoryCLI,
		Message:  "File not found",
		Detail:   "A file named on the command line does not exist or cannot be read.",
	},
	"V062": {
		Category: CategoryCLI,
		Message:  "Cannot write output",
		Detail:   "An output file named on the command line could not be written.",
	},
}

// Codes returns all registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

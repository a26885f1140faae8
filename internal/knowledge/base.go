// Package knowledge splits the product knowledge document into named sections.
package knowledge

import (
	_ "embed"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/samber/oops"
)

//go:embed mapplock.md
var defaultDocument string

// Headings maps section keys to the "## <Section Name>" heading they are read from.
var Headings = map[string]string{
	"overview":  "Product Overview",
	"features":  "Key Features",
	"useCases":  "Use Cases",
	"pricing":   "Pricing Plans",
	"technical": "Technical Requirements",
	"faq":       "Common Questions",
	"support":   "Support",
}

// Base holds the parsed sections. Unknown or missing sections read as "".
type Base struct {
	sections map[string]string
}

// Parse extracts every known section from markdown.
func Parse(markdown string) *Base {
	sections := make(map[string]string, len(Headings))
	for key, heading := range Headings {
		sections[key] = ExtractSection(markdown, heading)
	}
	return &Base{sections: sections}
}

// Default parses the document embedded in the binary.
func Default() *Base {
	return Parse(defaultDocument)
}

// Load reads the document at path once. An empty path selects the embedded document.
func Load(path string) (*Base, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("knowledge").With("path", path).Wrapf(err, "failed to read knowledge document")
	}

	base := Parse(string(data))
	slog.Info("Knowledge base loaded",
		"path", path,
		"sections", base.Filled(),
	)
	return base, nil
}

// ExtractSection returns the trimmed body under "## name" up to the next "##" or the end
// of the document. The heading match ignores case. A missing heading yields "".
func ExtractSection(markdown, name string) string {
	re := regexp.MustCompile(`(?is)## ` + regexp.QuoteMeta(name) + `(.*?)(?:##|\z)`)
	match := re.FindStringSubmatch(markdown)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// Section returns the body stored under key.
func (b *Base) Section(key string) string {
	return b.sections[key]
}

// Sections returns a copy of every section keyed by section key.
func (b *Base) Sections() map[string]string {
	copied := make(map[string]string, len(b.sections))
	for k, v := range b.sections {
		copied[k] = v
	}
	return copied
}

// Filled reports how many known sections have content.
func (b *Base) Filled() int {
	n := 0
	for _, v := range b.sections {
		if v != "" {
			n++
		}
	}
	return n
}

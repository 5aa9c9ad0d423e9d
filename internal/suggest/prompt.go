package suggest

import (
	"bytes"
	"fmt"
	"strings"
)

// promptField describes one output field in a prompt's expected schema.
type promptField struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// promptSpec defines the sections of a structured prompt. Every suggestion
// operation renders one of these, so the model always sees the same layout.
type promptSpec struct {
	Purpose      string
	Background   string
	OutputFields []promptField
	Constraints  []string
	Rules        []string
	OutputFormat string
}

var strictJSONConstraints = []string{
	"Return strict JSON only.",
	"Match the schema exactly; no extra fields.",
	"No markdown, comments, or trailing commas.",
}

func buildPrompt(spec promptSpec) string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", spec.Purpose)
	writeSection(&buf, "BACKGROUND", spec.Background)
	writeSection(&buf, "OUTPUT", formatFields(spec.OutputFields))
	writeSection(&buf, "CONSTRAINTS", formatList(append(strictJSONConstraints, spec.Constraints...)))
	writeSection(&buf, "RULES", formatList(spec.Rules))
	writeSection(&buf, "OUTPUT_FORMAT", spec.OutputFormat)
	return strings.TrimSpace(buf.String()) + "\n"
}

func formatFields(fields []promptField) string {
	var buf strings.Builder
	for _, f := range fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		if f.Description != "" {
			fmt.Fprintf(&buf, "- %s (%s, %s): %s\n", f.Name, f.Type, req, f.Description)
		} else {
			fmt.Fprintf(&buf, "- %s (%s, %s)\n", f.Name, f.Type, req)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}

// Package jsonutil holds the JSON helpers shared by the AI layer and the
// workspace store: tolerant decoding for model output and marshalling that
// keeps <, > and & readable in prompts and persisted files.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when no JSON document can be located in the input.
var ErrNoJSON = errors.New("jsonutil: no JSON document found")

// MarshalNoEscape encodes v without escaping <, > and & into < etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndentNoEscape is MarshalNoEscape with two-space indentation, the
// layout used for workspace files.
func MarshalIndentNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalLoose decodes JSON that may be wrapped in markdown fences or
// surrounded by prose, as LLM responses sometimes are. It tries a direct
// unmarshal first, then a fenced block, then the first balanced JSON value
// in the text.
func UnmarshalLoose(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	text := strings.TrimSpace(string(raw))
	if fenced, ok := stripFence(text); ok {
		if err := json.Unmarshal([]byte(fenced), v); err == nil {
			return nil
		}
		text = fenced
	}
	if doc, ok := firstDocument(text); ok {
		return json.Unmarshal([]byte(doc), v)
	}
	return ErrNoJSON
}

func stripFence(text string) (string, bool) {
	if !strings.HasPrefix(text, "```") {
		return "", false
	}
	body := strings.TrimPrefix(text, "```")
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body), true
}

// firstDocument scans for the first balanced {...} or [...] outside of
// string literals.
func firstDocument(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	open := text[start]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

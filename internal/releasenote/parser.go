// internal/releasenote/parser.go
package releasenote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a model response contains no JSON object.
var ErrNoJSON = errors.New("no JSON object found in response")

// ExtractJSONObject returns the first complete top-level JSON object embedded
// in s. The scanner is brace-balanced and string-aware, so objects with
// nested values and escaped quotes are extracted whole.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseWorkItemDetails extracts the analysis JSON from a model response.
func ParseWorkItemDetails(response string) (*WorkItemDetails, error) {
	raw, ok := ExtractJSONObject(response)
	if !ok {
		return nil, fmt.Errorf("work item details: %w", ErrNoJSON)
	}

	var details WorkItemDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("work item details: %w", err)
	}
	return &details, nil
}

// ParseQueries extracts the planned query list from a model response. The
// expected shape is {"queries": [...]}.
func ParseQueries(response string) ([]string, error) {
	return parseStringList(response, "queries")
}

// ParseKeywords extracts the extracted keyword list from a model response.
// The expected shape is {"kwrds": [...]}.
func ParseKeywords(response string) ([]string, error) {
	return parseStringList(response, "kwrds")
}

func parseStringList(response, field string) ([]string, error) {
	raw, ok := ExtractJSONObject(response)
	if !ok {
		return nil, fmt.Errorf("%s: %w", field, ErrNoJSON)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}

	value, ok := envelope[field]
	if !ok {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(value, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return list, nil
}

// JoinKeywords renders a keyword list as the comma-separated form used in
// prompt context.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}

// ValidateJSONPayload reports whether the payload is well-formed JSON.
func ValidateJSONPayload(payload string) error {
	if !json.Valid([]byte(payload)) {
		return errors.New("payload is not valid JSON")
	}
	return nil
}

package sanitize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

const redactedStr = "<redacted>"

type SanitizerOptions struct {
	// ExcludeFields is a list of fields whose values are always redacted
	ExcludeFields []string
	// ExcludePatterns is a list of regexes - any capture groups are redacted
	ExcludePatterns []string
}

type Sanitizer struct {
	fields   []string
	patterns []*regexp.Regexp
}

// NullSanitizer leaves every value untouched.
var NullSanitizer = NewSanitizer(SanitizerOptions{})

// Instance is used by the logger and the printers.
var Instance = NullSanitizer

func NewSanitizer(opts SanitizerOptions) *Sanitizer {
	// dedupe patterns using map
	var patterns = make(map[string]struct{}, 2*len(opts.ExcludeFields)+len(opts.ExcludePatterns))

	// convert exclude fields to regex patterns to exclude the fields from both JSON and YAML
	for _, f := range opts.ExcludeFields {
		patterns[getExcludeFromJsonRegex(f)] = struct{}{}
		patterns[getExcludeFromYamlRegex(f)] = struct{}{}
	}

	for _, p := range opts.ExcludePatterns {
		patterns[p] = struct{}{}
	}

	s := &Sanitizer{
		fields: slices.Clone(opts.ExcludeFields),
	}

	for p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			slog.Warn("Invalid regex pattern", slog.String("pattern", p), "error", err)
			continue
		}
		s.patterns = append(s.patterns, re)
	}
	return s
}

func getExcludeFromYamlRegex(fieldName string) string {
	return fmt.Sprintf(`%s:\s*([^\n]+)`, regexp.QuoteMeta(fieldName))
}

func getExcludeFromJsonRegex(fieldName string) string {
	return fmt.Sprintf(`"%s"\s*:\s*"([^"]+)"`, regexp.QuoteMeta(fieldName))
}

// FieldExcluded reports whether values logged under the given key must be redacted.
func (s *Sanitizer) FieldExcluded(key string) bool {
	return slices.Contains(s.fields, key)
}

// SanitizeKeyValue redacts v if k is an excluded field, otherwise sanitizes its content.
func (s *Sanitizer) SanitizeKeyValue(k string, v any) any {
	if s.FieldExcluded(k) {
		return redactedStr
	}

	switch value := v.(type) {
	case nil:
		return nil
	case string:
		return s.SanitizeString(value)
	case error:
		return s.SanitizeString(value.Error())
	case bool, int, int64, uint64, float64:
		return value
	}
	return s.SanitizeStruct(v)
}

// SanitizeStruct round trips v through JSON, redacting matches on the way.
// Values that cannot be marshalled are returned unchanged.
func (s *Sanitizer) SanitizeStruct(v any) any {
	if len(s.patterns) == 0 {
		return v
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}

	sanitized := s.SanitizeString(string(data))
	if sanitized == string(data) {
		return v
	}

	var res any
	if err := json.Unmarshal([]byte(sanitized), &res); err != nil {
		return v
	}
	return res
}

func (s *Sanitizer) SanitizeString(v string) string {
	for _, re := range s.patterns {
		v = re.ReplaceAllStringFunc(v, func(match string) string {
			groups := re.FindStringSubmatch(match)
			for i := 1; i < len(groups); i++ {
				if groups[i] == "" {
					continue
				}
				match = strings.ReplaceAll(match, groups[i], redactedStr)
			}
			return match
		})
	}

	return v
}

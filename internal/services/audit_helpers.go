package services

import "strings"

// RedactedValue replaces sensitive field values in audit details.
const RedactedValue = "[REDACTED]"

var sensitiveKeyParts = []string{"password", "token", "secret", "apikey"}

// SanitizeBody returns a copy of a decoded request body with sensitive field
// values replaced by RedactedValue. Nested objects and arrays are walked; the
// originals are never mutated.
func SanitizeBody(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	return sanitizeMap(body)
}

func sanitizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		if isSensitiveKey(key) {
			out[key] = RedactedValue
			continue
		}
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return sanitizeMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}

// isSensitiveKey matches password, token, secret and apiKey style names in
// any casing, with or without separators (apiKey, api_key, refresh_token...).
func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(key)
	normalized = strings.ReplaceAll(normalized, "_", "")
	normalized = strings.ReplaceAll(normalized, "-", "")

	for _, part := range sensitiveKeyParts {
		if strings.Contains(normalized, part) {
			return true
		}
	}
	return false
}

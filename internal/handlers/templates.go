package handlers

import (
	"encoding/json"
)

// TemplateFuncs are the helpers the admin views use.
func TemplateFuncs() map[string]any {
	return map[string]any{
		"json":  prettyJSON,
		"deref": deref,
	}
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

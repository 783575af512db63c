package validator

import (
	"encoding/json"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// maxModelBytes caps the serialized chat payload; anything bigger is not a
// plausible conversation.
const maxModelBytes = 1 << 20

func ValidateSaveChat(name string, model json.RawMessage) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Chat name is required")
	} else if len(name) > 120 {
		errs.Add("name", "Chat name is too long")
	}

	if len(model) == 0 {
		errs.Add("model", "Chat model is required")
	} else if len(model) > maxModelBytes {
		errs.Add("model", "Chat model is too large")
	}

	return errs
}

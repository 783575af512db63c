package validator

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateSaveChat(t *testing.T) {
	model := json.RawMessage(`{"platform":"whatsapp"}`)
	tests := []struct {
		name      string
		chatName  string
		model     json.RawMessage
		wantField string
	}{
		{"valid", "My chat", model, ""},
		{"missing name", "", model, "name"},
		{"whitespace name", "   ", model, "name"},
		{"name too long", strings.Repeat("x", 121), model, "name"},
		{"missing model", "My chat", nil, "model"},
		{"model too large", "My chat", json.RawMessage(strings.Repeat("a", maxModelBytes+1)), "model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSaveChat(tt.chatName, tt.model)
			if tt.wantField == "" {
				if errs.HasErrors() {
					t.Errorf("ValidateSaveChat() = %v, want no errors", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("ValidateSaveChat() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

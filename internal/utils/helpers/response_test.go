package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"iptvsite/internal/apperr"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}
	huge := `{"title":"` + strings.Repeat("a", MaxJSONBody) + `"}`

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"title":"Premium"}`, ""},
		{"malformed", `{"title":`, "Invalid JSON"},
		{"oversized", huge, "Request body too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(r, &p)
			if tt.wantErr == "" {
				if err != nil || p.Title != "Premium" {
					t.Fatalf("got %+v, %v", p, err)
				}
				return
			}
			if apperr.KindOf(err) != apperr.KindValidation || err.Error() != tt.wantErr {
				t.Fatalf("got %v, want %q", err, tt.wantErr)
			}
		})
	}
}

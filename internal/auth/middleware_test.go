package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// okHandler records whether it ran and which userID it saw.
func okHandler(t *testing.T, sawUserID *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			*sawUserID = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	tokens := newTestTokenService(t)

	token, err := tokens.Generate("user-42")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var sawUserID string
	protected := RequireAuth(tokens)(okHandler(t, &sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if sawUserID != "user-42" {
		t.Errorf("handler saw userID %q, want %q", sawUserID, "user-42")
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tokens := newTestTokenService(t)
	var sawUserID string
	protected := RequireAuth(tokens)(okHandler(t, &sawUserID))

	expired, err := tokens.GenerateWithDuration("user-42", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"no header", "", "valid authentication required"},
		{"not a bearer token", "Basic abc123", "valid authentication required"},
		{"garbage token", "Bearer not.a.jwt", "valid authentication required"},
		{"expired token", "Bearer " + expired, "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			protected.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rr.Code)
			}
			if body := rr.Body.String(); !strings.Contains(body, tt.wantMsg) {
				t.Errorf("body = %q, want it to mention %q", body, tt.wantMsg)
			}
		})
	}

	if sawUserID != "" {
		t.Errorf("handler ran with userID %q despite rejection", sawUserID)
	}
}

func TestRequireAdminKey(t *testing.T) {
	var sawUserID string
	guarded := RequireAdminKey("operator-key")(okHandler(t, &sawUserID))

	t.Run("correct key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set("X-Admin-Key", "operator-key")
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set("X-Admin-Key", "guess")
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("empty configured key rejects everything", func(t *testing.T) {
		unguarded := RequireAdminKey("")(okHandler(t, &sawUserID))
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set("X-Admin-Key", "")
		rr := httptest.NewRecorder()
		unguarded.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})
}

package health

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerReturnsFixedBody(t *testing.T) {
	paths := []string{"/", "/health", "/anything?x=1"}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		Handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
		body, _ := io.ReadAll(rec.Body)
		if string(body) != Body {
			t.Errorf("GET %s: expected %q, got %q", path, Body, string(body))
		}
	}
}

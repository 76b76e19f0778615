package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func resolveLocale(t *testing.T, configure func(r *http.Request)) string {
	t.Helper()
	var got string
	handler := Locale("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	configure(req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestLocaleHeaderWins(t *testing.T) {
	got := resolveLocale(t, func(r *http.Request) {
		r.Header.Set("X-Locale", "id")
		r.Header.Set("Accept-Language", "en-US")
	})
	if got != "id" {
		t.Fatalf("locale mismatch: got %q want id", got)
	}
}

func TestLocaleFromAcceptLanguage(t *testing.T) {
	got := resolveLocale(t, func(r *http.Request) {
		r.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.5")
	})
	if got != "id" {
		t.Fatalf("locale mismatch: got %q want id", got)
	}
}

func TestLocaleFallsBackForUnsupportedLanguage(t *testing.T) {
	got := resolveLocale(t, func(r *http.Request) {
		r.Header.Set("Accept-Language", "zz")
	})
	if got != "en" {
		t.Fatalf("locale mismatch: got %q want en", got)
	}
}

func TestLocaleDefaultsWithoutHeaders(t *testing.T) {
	got := resolveLocale(t, func(r *http.Request) {})
	if got != "en" {
		t.Fatalf("locale mismatch: got %q want en", got)
	}
}

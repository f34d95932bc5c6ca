package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMXAnnotatesContext(t *testing.T) {
	var got HTMXInfo
	handler := HTMX()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = HTMXInfoFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "TRUE")
	req.Header.Set("HX-Target", "shoe-index")
	req.Header.Set("HX-Trigger", "sort-price")
	req.Header.Set("HX-Current-URL", "http://localhost/?sort=newest")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !got.IsHTMX {
		t.Fatalf("expected htmx request")
	}
	if got.IsBoosted || got.HistoryRestore {
		t.Fatalf("unexpected boosted/history flags: %+v", got)
	}
	if got.Target != "shoe-index" || got.TriggerID != "sort-price" {
		t.Fatalf("unexpected target/trigger: %+v", got)
	}
	if got.CurrentURL != "http://localhost/?sort=newest" {
		t.Fatalf("unexpected current url %q", got.CurrentURL)
	}
}

func TestIsPartialRequest(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{name: "plain navigation", want: false},
		{name: "htmx swap", headers: map[string]string{"HX-Request": "true"}, want: true},
		{name: "boosted link", headers: map[string]string{"HX-Request": "true", "HX-Boosted": "true"}, want: false},
		{name: "history restore", headers: map[string]string{"HX-Request": "true", "HX-History-Restore-Request": "true"}, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var got bool
			handler := HTMX()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = IsPartialRequest(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRequireHTMX(t *testing.T) {
	handler := HTMX()(RequireHTMX()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("direct navigation is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cards/tasman-runner", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
		if rr.Header().Get("Vary") != "HX-Request" {
			t.Fatalf("expected Vary header on 404, got %q", rr.Header().Get("Vary"))
		}
	})

	t.Run("htmx request passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cards/tasman-runner", nil)
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("Vary") != "HX-Request" {
			t.Fatalf("expected Vary header, got %q", rr.Header().Get("Vary"))
		}
	})
}

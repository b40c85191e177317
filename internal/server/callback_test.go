package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soundprint/soundprint/internal/shared"
)

func TestCallbackHandler(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		handler := NewCallbackHandler()
		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("expected /callback route, got %v", routes)
		}
	})

	t.Run("Successful Redirect", func(t *testing.T) {
		handler := NewCallbackHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth123&state=state456", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Authorization Successful") {
			t.Error("expected acknowledgment page in response body")
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/html" {
			t.Errorf("expected text/html content type, got %s", ct)
		}

		result := <-handler.Result()
		if result.Code != "auth123" {
			t.Errorf("expected code auth123, got %s", result.Code)
		}
		if result.State != "state456" {
			t.Errorf("expected state state456, got %s", result.State)
		}
		if result.Error() != nil {
			t.Errorf("expected no error, got %v", result.Error())
		}
	})

	t.Run("User Denied", func(t *testing.T) {
		handler := NewCallbackHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("denial should still render a page, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Authorization Declined") {
			t.Error("expected denial page in response body")
		}

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrAuthDenied) {
			t.Errorf("expected ErrAuthDenied, got %v", result.Error())
		}
		if !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected provider reason in error, got %v", result.Error())
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		handler := NewCallbackHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrAuthDenied) {
			t.Errorf("expected ErrAuthDenied for missing code, got %v", result.Error())
		}
	})

	t.Run("Ack Written Before Delivery", func(t *testing.T) {
		handler := NewCallbackHandler()

		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth123", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		// The result is buffered, so the page must already be complete by the
		// time ServeHTTP returns even with no receiver waiting.
		if !strings.Contains(w.Body.String(), "</html>") {
			t.Error("expected complete page before result delivery")
		}
		if len(handler.Result()) != 1 {
			t.Error("expected exactly one buffered result")
		}
	})

	t.Run("Second Request Rejected", func(t *testing.T) {
		handler := NewCallbackHandler()

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?code=first", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?code=second", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", second.Code)
		}

		result := <-handler.Result()
		if result.Code != "first" {
			t.Errorf("expected the first code to win, got %s", result.Code)
		}
	})

	t.Run("Channel Closed After Result", func(t *testing.T) {
		handler := NewCallbackHandler()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=only", nil))

		<-handler.Result()
		if _, ok := <-handler.Result(); ok {
			t.Error("expected channel to be closed after the single result")
		}
	})
}

func TestListener(t *testing.T) {
	t.Run("Starts And Closes", func(t *testing.T) {
		listener := NewListener("127.0.0.1:0", NewCallbackHandler())

		if err := listener.Start(); err != nil {
			t.Fatalf("expected clean start, got %v", err)
		}
		if err := listener.Close(); err != nil {
			t.Errorf("expected clean close, got %v", err)
		}
	})

	t.Run("Bind Failure Is Synchronous", func(t *testing.T) {
		if err := NewListener("256.0.0.1:99999", NewCallbackHandler()).Start(); err == nil {
			t.Error("expected Start to report the bind error directly")
		}
	})

	t.Run("Port In Use", func(t *testing.T) {
		holder := NewListener("127.0.0.1:53197", NewCallbackHandler())
		if err := holder.Start(); err != nil {
			t.Fatalf("failed to bind test port: %v", err)
		}
		defer holder.Close()

		if err := NewListener("127.0.0.1:53197", NewCallbackHandler()).Start(); err == nil {
			t.Error("expected Start to fail while the port is held")
		}
	})
}

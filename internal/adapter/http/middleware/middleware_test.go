package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:5173", " https://shop.example.com "}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
			t.Fatalf("expected origin echoed, got %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
			t.Fatalf("unexpected methods header %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
			t.Fatalf("unexpected headers header %q", got)
		}
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("expected no allow-origin header, got %q", got)
		}
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	for _, origin := range []string{"http://localhost:5173", "https://evil.example.com", ""} {
		t.Run("options "+origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/anything", nil)
			if origin != "" {
				req.Header.Set("Origin", origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", w.Code)
			}
			if w.Body.Len() != 0 {
				t.Fatalf("expected empty body, got %q", w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		id := w.Header().Get(RequestIDHeader)
		if len(id) != 36 {
			t.Fatalf("expected uuid request id, got %q", id)
		}
		if w.Body.String() != id {
			t.Fatalf("expected id in context, got %q", w.Body.String())
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Fatalf("expected propagated id, got %q", got)
		}
	})
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), RequestLogger())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"Internal Server Error"}` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequestLogger(t *testing.T) {
	r := newEngine(RequestID(), RequestLogger())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

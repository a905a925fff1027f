package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeChecker struct {
	online      bool
	lastSuccess time.Time
	errors      int
	successes   int
}

func (f *fakeChecker) IsOnline() bool                { return f.online }
func (f *fakeChecker) GetLastSuccessTime() time.Time { return f.lastSuccess }
func (f *fakeChecker) GetErrorCount() int            { return f.errors }
func (f *fakeChecker) GetSuccessCount() int          { return f.successes }

func TestHealthHandlerStatus(t *testing.T) {
	tests := []struct {
		name       string
		checker    *fakeChecker
		wantStatus string
		wantCode   int
	}{
		{"healthy", &fakeChecker{online: true, successes: 10}, "healthy", http.StatusOK},
		{"idle", &fakeChecker{online: true}, "healthy", http.StatusOK},
		{"degraded", &fakeChecker{online: true, successes: 7, errors: 3}, "degraded", http.StatusOK},
		{"noisy", &fakeChecker{online: true, successes: 1, errors: 9}, "unhealthy", http.StatusServiceUnavailable},
		{"source offline", &fakeChecker{online: false, successes: 10}, "unhealthy", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checker, "test")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
			var status HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if status.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tt.wantStatus)
			}
			if status.Version != "test" {
				t.Errorf("version = %q", status.Version)
			}
		})
	}
}

func TestHealthHandlerLastPacket(t *testing.T) {
	checker := &fakeChecker{online: true}
	handler := NewHealthHandler(checker, "")

	if got := handler.getHealthStatus().LastPacket; got != "never" {
		t.Errorf("LastPacket = %q, want never", got)
	}

	checker.lastSuccess = time.Now().Add(-5 * time.Minute)
	if got := handler.getHealthStatus().LastPacket; got != "5 minutes ago" {
		t.Errorf("LastPacket = %q, want \"5 minutes ago\"", got)
	}
}

func TestNewServerRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics"))
	})
	server := NewServer(9090, NewHealthHandler(&fakeChecker{online: true}, ""), metrics)

	if server.Addr != ":9090" {
		t.Errorf("Addr = %q", server.Addr)
	}

	for path, want := range map[string]int{
		"/":        http.StatusOK,
		"/health":  http.StatusOK,
		"/metrics": http.StatusOK,
		"/other":   http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, want)
		}
	}

	noMetrics := NewServer(9090, NewHealthHandler(&fakeChecker{online: true}, ""), nil)
	rec := httptest.NewRecorder()
	noMetrics.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("/metrics without collector: status = %d, want 404", rec.Code)
	}
}

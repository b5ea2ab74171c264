package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "should log success at info", status: http.StatusOK, wantLevel: "info"},
		{name: "should log client errors at warn", status: http.StatusBadRequest, wantLevel: "warn"},
		{name: "should log server errors at error", status: http.StatusInternalServerError, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			router := gin.New()
			router.Use(requestLogger(zerolog.New(&buf)))
			router.GET("/clients", func(c *gin.Context) {
				c.Status(tt.status)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/clients", nil))

			var entry map[string]any
			err := json.Unmarshal(buf.Bytes(), &entry)
			if err != nil {
				t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.wantLevel {
				t.Fatalf("\nwanted:\n%s\ngot:\n%v", tt.wantLevel, entry["level"])
			}
			if entry["path"] != "/clients" || entry["status"] != float64(tt.status) {
				t.Fatalf("unexpected entry: %v", entry)
			}
		})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pocketplan/internal/logger"
	"pocketplan/internal/middleware"
	"pocketplan/internal/services"
	"pocketplan/internal/validator"
)

const testUserID = "0191d0d8-1111-7000-8000-000000000001"

type auditEntry struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Record(_ context.Context, ev services.AuditEvent) {
	m.entries = append(m.entries, auditEntry{ev.UserID, string(ev.Action), ev.ResourceType, ev.ResourceID})
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := middleware.WithSession(c.Request.Context(), middleware.Session{UserID: uid})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("from session", func(t *testing.T) {
		r := gin.New()
		r.GET("/", injectUserID(testUserID), func(c *gin.Context) {
			id, err := getUserID(c)
			if err != nil {
				respondWithError(c, err)
				return
			}
			c.String(http.StatusOK, id)
		})

		rec := doRequest(r, "GET", "/", "")
		if rec.Body.String() != testUserID {
			t.Errorf("expected %s, got %s", testUserID, rec.Body.String())
		}
	})

	t.Run("from gin key", func(t *testing.T) {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			c.Set(middleware.UserIDKey, "abc")
			id, _ := getUserID(c)
			c.String(http.StatusOK, id)
		})

		rec := doRequest(r, "GET", "/", "")
		if rec.Body.String() != "abc" {
			t.Errorf("expected abc, got %s", rec.Body.String())
		}
	})

	t.Run("missing", func(t *testing.T) {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			_, err := getUserID(c)
			respondWithError(c, err)
		})

		rec := doRequest(r, "GET", "/", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}

func TestParseFlexibleTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), false},
		{"2025-03-10T08:30:00Z", time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC), false},
		{"10/03/2025", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := parseFlexibleTime(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFlexibleTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseFlexibleTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	run := func(query string) (*httptest.ResponseRecorder, map[string]interface{}) {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			p, err := parsePeriod(c, time.UTC)
			if err != nil {
				respondWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, p)
		})
		rec := doRequest(r, "GET", "/"+query, "")
		var body map[string]interface{}
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		return rec, body
	}

	t.Run("explicit", func(t *testing.T) {
		rec, body := run("?month=2&year=2024")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body["month"].(float64) != 2 || body["year"].(float64) != 2024 {
			t.Errorf("unexpected period %v", body)
		}
	})

	t.Run("defaults to current month", func(t *testing.T) {
		now := time.Now().UTC()
		_, body := run("")
		if int(body["month"].(float64)) != int(now.Month()) || int(body["year"].(float64)) != now.Year() {
			t.Errorf("expected current month, got %v", body)
		}
	})

	for _, q := range []string{"?month=13", "?month=0", "?month=abc", "?year=-1", "?year=x"} {
		t.Run("invalid "+q, func(t *testing.T) {
			rec, body := run(q)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, body, "INVALID_PERIOD")
		})
	}
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/robaadekings/Robert-portifolio-website/internal/config"
	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/internal/services"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := models.Open(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, gormlogger.Silent)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAuditLog_RecordsWrites(t *testing.T) {
	db := newAuditDB(t)

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(ContextUserID, uint(7))
		c.Set(ContextEmail, "admin@example.com")
		c.Next()
	}, AuditLog(services.NewSystemLogService(db)))

	var seenBody string
	router.POST("/api/auth/register-admin", func(c *gin.Context) {
		b, _ := c.GetRawData()
		seenBody = string(b)
		c.JSON(201, gin.H{})
	})
	router.GET("/api/projects", func(c *gin.Context) { c.JSON(200, []string{}) })

	payload := `{"email":"admin@example.com","password":"hunter2"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/auth/register-admin", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/projects", nil)
	router.ServeHTTP(w, req)

	if seenBody != payload {
		t.Errorf("handler should still see the full body, got %q", seenBody)
	}

	var rows []models.SystemLog
	db.Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("expected only the write to be audited, got %d rows", len(rows))
	}
	row := rows[0]
	if row.Resource != "auth" || row.Action != "register-admin" {
		t.Errorf("unexpected resource/action %q/%q", row.Resource, row.Action)
	}
	if row.UserID == nil || *row.UserID != 7 {
		t.Error("user id should be recorded")
	}
	if row.RequestID == "" {
		t.Error("request id should be recorded")
	}
	if strings.Contains(row.Extra, "hunter2") {
		t.Errorf("password leaked into audit log: %s", row.Extra)
	}
}

func captureFor(contentType, body string) interface{} {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest("POST", "/api/auth/register-admin", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", contentType)
	return captureBody(c)
}

func TestCaptureBody_Multipart(t *testing.T) {
	if got := captureFor("multipart/form-data; boundary=x", "binary"); got != "[multipart/form-data]" {
		t.Errorf("captureBody = %v", got)
	}
}

func TestCaptureBody_RedactsCredentials(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		secret      string
	}{
		{"json", "application/json", `{"email":"a@b.c","password": "secret123"}`, "secret123"},
		{"json escaped quote", "application/json", `{"password":"ab\"TailSecret"}`, "TailSecret"},
		{"json nested", "application/json", `{"user":{"Password":"deepSecret"},"tokens":[{"api_key":"k-123"}]}`, "deepSecret"},
		{"json api key", "application/json; charset=utf-8", `{"apiKey":"k-123"}`, "k-123"},
		{"form", "application/x-www-form-urlencoded", "name=A&email=a%40x.com&password=SuperSecret42", "SuperSecret42"},
		{"form repeated", "application/x-www-form-urlencoded", "password=one&password=Another9", "Another9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := captureFor(tt.contentType, tt.body)
			if got == nil {
				t.Fatal("expected a captured body")
			}
			encoded, _ := json.Marshal(got)
			if strings.Contains(string(encoded), tt.secret) {
				t.Errorf("secret leaked: %s", encoded)
			}
		})
	}
}

func TestCaptureBody_KeepsNonSensitiveFields(t *testing.T) {
	got, ok := captureFor("application/x-www-form-urlencoded", "name=A&email=a%40x.com&password=x").(map[string]interface{})
	if !ok {
		t.Fatal("expected a decoded form")
	}
	if got["email"] != "a@x.com" || got["name"] != "A" {
		t.Errorf("unexpected form capture %v", got)
	}
	if got["password"] != "***" {
		t.Errorf("password = %v", got["password"])
	}
}

func TestCaptureBody_DropsUndecodable(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"broken json", "application/json", `{"password":"abc`},
		{"plain text", "text/plain", "password=hunter2"},
		{"no content type", "", `{"password":"hunter2"}`},
		{"bad form escape", "application/x-www-form-urlencoded", "password=%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := captureFor(tt.contentType, tt.body); got != nil {
				t.Errorf("expected nothing captured, got %v", got)
			}
		})
	}
}

func TestCaptureBody_Oversized(t *testing.T) {
	body := `{"password":"` + strings.Repeat("x", maxAuditBody) + `"}`
	if got := captureFor("application/json", body); got != "[truncated]" {
		t.Errorf("captureBody = %v", got)
	}
}

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		path, method     string
		resource, action string
	}{
		{"/api/projects", "POST", "projects", "create"},
		{"/api/projects/:id", "PUT", "projects", "update"},
		{"/api/projects/:id", "DELETE", "projects", "delete"},
		{"/api/messages/:id/read", "PATCH", "messages", "read"},
		{"/api/auth/upload-profile", "POST", "auth", "upload-profile"},
		{"", "POST", "unknown", "create"},
	}

	for _, tt := range tests {
		resource, action := parseRouteInfo(tt.path, tt.method)
		if resource != tt.resource || action != tt.action {
			t.Errorf("parseRouteInfo(%q, %q) = %q, %q; expected %q, %q",
				tt.path, tt.method, resource, action, tt.resource, tt.action)
		}
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/robaadekings/Robert-portifolio-website/internal/services"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
)

const maxAuditBody = 2000

// AuditLog records write operations (POST/PUT/PATCH/DELETE) to system_logs.
// Multipart bodies are not captured; only their content type is noted.
// JSON and form bodies are stored with credential fields redacted.
func AuditLog(logs *services.SystemLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "PATCH" && method != "DELETE" {
			c.Next()
			return
		}

		bodySnippet := captureBody(c)

		c.Next()

		status := c.Writer.Status()
		resource, action := parseRouteInfo(c.FullPath(), method)

		logs.Record(services.AuditEntry{
			Resource:  resource,
			Action:    action,
			Message:   formatAuditMessage(GetEmail(c), method, c.Request.URL.Path, status),
			Status:    status,
			UserID:    GetUserID(c),
			RequestID: c.GetString(logger.RequestIDKey),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Extra: map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"body":   bodySnippet,
			},
		})
	}
}

// captureBody returns a redacted copy of a JSON or urlencoded body. Other
// content types and bodies that fail to decode are not kept.
func captureBody(c *gin.Context) interface{} {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	ct := c.ContentType()
	if strings.HasPrefix(ct, "multipart/") {
		return "[" + ct + "]"
	}
	if ct != binding.MIMEJSON && ct != binding.MIMEPOSTForm {
		return nil
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody+1))
	rest := c.Request.Body
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(bodyBytes), rest))
	if err != nil || len(bodyBytes) == 0 {
		return nil
	}
	if len(bodyBytes) > maxAuditBody {
		return "[truncated]"
	}

	if ct == binding.MIMEJSON {
		var doc interface{}
		if err := json.Unmarshal(bodyBytes, &doc); err != nil {
			return nil
		}
		return redactJSON(doc)
	}

	values, err := url.ParseQuery(string(bodyBytes))
	if err != nil {
		return nil
	}
	form := make(map[string]interface{}, len(values))
	for k, v := range values {
		if isSensitiveKey(k) {
			form[k] = redacted
			continue
		}
		if len(v) == 1 {
			form[k] = v[0]
		} else {
			form[k] = v
		}
	}
	return form
}

// parseRouteInfo extracts resource and action from a Gin route pattern.
// e.g. "/api/projects/:id" + "PUT" -> resource="projects", action="update"
func parseRouteInfo(fullPath, method string) (resource, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")

	parts := strings.SplitN(path, "/", 2)
	resource = parts[0]
	if resource == "" {
		resource = "unknown"
	}

	switch method {
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}

	// Sub-actions such as /auth/register-admin or /messages/:id/read.
	if len(parts) == 2 {
		segs := strings.Split(parts[1], "/")
		if last := segs[len(segs)-1]; last != "" && !strings.HasPrefix(last, ":") {
			action = last
		}
	}
	return resource, action
}

func formatAuditMessage(email, method, path string, status int) string {
	var b strings.Builder
	b.WriteString("[Audit] ")
	if email == "" {
		email = "anonymous"
	}
	b.WriteString(email)
	b.WriteString(" ")
	b.WriteString(method)
	b.WriteString(" ")
	b.WriteString(path)
	b.WriteString(" -> ")
	if status >= 200 && status < 300 {
		b.WriteString("OK")
	} else {
		b.WriteString("Failed")
	}
	return b.String()
}

const redacted = "***"

var sensitiveKeys = []string{"password", "token", "secret", "apikey"}

func isSensitiveKey(key string) bool {
	k := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// redactJSON replaces the values of sensitive keys at any depth.
func redactJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if isSensitiveKey(k) {
				t[k] = redacted
			} else {
				t[k] = redactJSON(child)
			}
		}
		return t
	case []interface{}:
		for i, child := range t {
			t[i] = redactJSON(child)
		}
		return t
	default:
		return v
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

// ctxAuditLoggedKey flags that an audit entry was already written for this
// request, so a request produces at most one entry.
const ctxAuditLoggedKey = "auditLogged"

// maxAuditBody caps how much of a request body is captured for the trail.
const maxAuditBody = 64 << 10

// MarkAudited suppresses the trail middleware's entry for this request.
// Handlers that write their own entry via LogAction call this.
func MarkAudited(c *gin.Context) {
	c.Set(ctxAuditLoggedKey, true)
}

// AuditTrail persists one audit entry for every state-changing request that
// completes below the error threshold with a principal attached. The entry is
// written after the handler ran, from values captured before the body was
// consumed. An audit write failure never alters the client response.
func AuditTrail(audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		body := captureBody(c)

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		principal, ok := CurrentPrincipal(c)
		if !ok {
			return
		}

		if c.GetBool(ctxAuditLoggedKey) {
			return
		}
		MarkAudited(c)

		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		resource, resourceID := routeResource(c)

		audit.LogAction(c.Request.Context(), principal, services.ActionEvent{
			Action:     c.Request.Method + " " + c.Request.URL.Path,
			Resource:   resource,
			ResourceID: resourceID,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Details: map[string]any{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"params": params,
				"query":  c.Request.URL.RawQuery,
				"body":   services.SanitizeBody(body),
				"status": c.Writer.Status(),
			},
		})
	}
}

// captureBody reads and restores the JSON request body so the handler still
// sees it. Non-JSON bodies are skipped; oversized bodies are passed through
// intact with no capture.
func captureBody(c *gin.Context) map[string]any {
	if c.Request.Body == nil {
		return nil
	}
	if !strings.Contains(c.ContentType(), "application/json") {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody+1))
	if err != nil {
		return nil
	}
	// The handler must always see the full stream, captured or not.
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))

	if len(raw) > maxAuditBody {
		return nil
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}

// routeResource derives (resource, id) from the matched route, e.g.
// "/api/projects/:id" yields ("projects", <id param>).
func routeResource(c *gin.Context) (string, string) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	resource := ""
	for _, seg := range segments {
		if seg == "" || seg == "api" {
			continue
		}
		if !strings.HasPrefix(seg, ":") && !strings.HasPrefix(seg, "*") {
			resource = seg
		}
		break
	}

	return resource, c.Param("id")
}

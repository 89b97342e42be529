package cache

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware caches rendered post pages (/post/:slug). Requests carrying a
// logged-in session bypass the cache entirely: their pages are rendered with
// user data and must never be stored or served to other visitors.
func Middleware(maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		slug := postSlugFromPath(c.Request.URL.Path)
		if slug == "" {
			c.Next()
			return
		}

		if hasSessionUser(c) {
			c.Next()
			return
		}

		if cached, found := Read(slug, maxAge); found {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK &&
			c.Writer.Header().Get("Content-Type") == "text/html; charset=utf-8" {
			Write(slug, writer.body.String())
		}
	}
}

// hasSessionUser reports whether the request has a logged-in session. Works
// without the sessions middleware installed (no session means anonymous).
func hasSessionUser(c *gin.Context) bool {
	v, ok := c.Get(sessions.DefaultKey)
	if !ok {
		return false
	}

	session, ok := v.(sessions.Session)
	if !ok {
		return false
	}

	return session.Get("user_id") != nil
}

// postSlugFromPath extracts the slug from /post/:slug paths; anything else
// returns "".
func postSlugFromPath(path string) string {
	if !strings.HasPrefix(path, "/post/") {
		return ""
	}

	slug := strings.TrimPrefix(path, "/post/")
	if slug == "" || strings.Contains(slug, "/") {
		return ""
	}

	return slug
}

package sse

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Stream writes raw SSE lines in the form:
//
//	data: <token>\n\n
//
// and finishes with:
//
//	data: [DONE]\n\n
//
// This matches the frontend's simple 'data:' line parsing. It watches the
// request context so a client disconnect stops the stream promptly; the
// return value reports whether the stream ended because the client aborted.
func Stream(c *gin.Context, ch <-chan string) (aborted bool) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return false
	}

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return true
		case msg, open := <-ch:
			if !open {
				_, _ = c.Writer.Write([]byte("data: [DONE]\n\n"))
				flusher.Flush()
				return false
			}
			writeEvent(c, msg)
			flusher.Flush()
		}
	}
}

// writeEvent emits one SSE event. Multi-line tokens need each line prefixed
// with 'data: ' or the client-side parser drops content between newlines; the
// original '\n' is reinjected on all but the last line so nothing is lost.
func writeEvent(c *gin.Context, msg string) {
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		token := line
		if i < len(lines)-1 {
			token += "\n"
		}
		_, _ = c.Writer.Write([]byte("data: " + token + "\n"))
	}
	_, _ = c.Writer.Write([]byte("\n"))
}

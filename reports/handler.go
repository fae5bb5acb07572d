package reports

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bearcare-backend/openai"
)

// AIClient is the subset of the model client needed here; mocked in tests.
type AIClient interface {
	Complete(ctx context.Context, msgs []openai.Message) (string, error)
}

type Handler struct {
	ai AIClient
}

func NewHandler(ai AIClient) *Handler { return &Handler{ai: ai} }

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/enhance", h.enhance)
}

const enhanceInstruction = `Transform these medical notes into a well-structured professional medical report.
Use proper Markdown formatting with:
- Clear headings (##)
- Bullet points for lists
- Bold for important terms
- Tables where appropriate
- Include sections for: Summary, Key Findings, Recommendations

Notes to transform:
%s`

// enhance turns raw clinical notes into a structured Markdown report with a
// generated report id and timestamp.
func (h *Handler) enhance(c *gin.Context) {
	var req struct {
		Notes []string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Notes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notes array is required"})
		return
	}

	prompt := fmt.Sprintf(enhanceInstruction, strings.Join(req.Notes, "\n\n"))
	markdown, err := h.ai.Complete(c.Request.Context(), []openai.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Printf("[reports][enhance][fail] notes=%d err=%v", len(req.Notes), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process notes"})
		return
	}

	reportID := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339)
	formatted := fmt.Sprintf("# Enhanced Medical Report\nReport ID: %s\nGenerated: %s\n\n%s", reportID, timestamp, markdown)

	c.JSON(http.StatusOK, gin.H{
		"markdown":  formatted,
		"reportId":  reportID,
		"timestamp": timestamp,
	})
}

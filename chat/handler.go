package chat

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bearcare-backend/openai"
	"bearcare-backend/sse"
)

// AIClient abstracts the model client so handlers and the suggestion
// pipeline can be unit-tested with mocks.
type AIClient interface {
	StreamChat(ctx context.Context, msgs []openai.Message) (<-chan string, error)
	Complete(ctx context.Context, msgs []openai.Message) (string, error)
}

type Handler struct {
	ai        AIClient
	assembler *ContextAssembler
	suggest   *SuggestPipeline
}

func NewHandler(ai AIClient, assembler *ContextAssembler, suggest *SuggestPipeline) *Handler {
	return &Handler{ai: ai, assembler: assembler, suggest: suggest}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/chat", h.message)
}

type chatRequest struct {
	Messages []Message `json:"messages"`
}

// message runs one chat turn: mention extraction, context assembly, the
// conditional suggestion pipeline, prompt composition, then the streamed
// model reply over SSE.
func (h *Handler) message(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages array is required"})
		return
	}

	start := time.Now()
	ctx := c.Request.Context()

	ids := ExtractPatientIDs(req.Messages)
	patientContext := ""
	if len(ids) > 0 {
		patientContext = h.assembler.Build(ctx, ids)
		log.Printf("[chat][context][built] patients=%d chars=%d", len(ids), len(patientContext))
	}

	// The citation section only exists when the user asked for suggestions
	// AND the search credential is configured; a missing credential leaves
	// the prompt without any citation instruction.
	suggestActive := IsSuggestTurn(req.Messages) && h.suggest.Enabled()
	citations := ""
	if suggestActive {
		citations = h.suggest.Citations(ctx, req.Messages)
	}

	system := ComposeSystemPrompt(patientContext, suggestActive, citations)
	modelMsgs := append([]openai.Message{{Role: "system", Content: system}}, ToModelMessages(req.Messages)...)

	stream, err := h.ai.StreamChat(ctx, modelMsgs)
	if err != nil {
		log.Printf("[chat][stream][start.fail] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	aborted := sse.Stream(c, stream)
	log.Printf("[chat][stream][done] aborted=%v patients=%d suggest=%v elapsed_ms=%d",
		aborted, len(ids), suggestActive, time.Since(start).Milliseconds())
}

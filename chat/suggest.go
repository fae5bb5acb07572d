package chat

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"bearcare-backend/openai"
	"bearcare-backend/search"
)

const suggestPrefix = "suggest:"

// querySuffix constrains the web search to the domains the citation filter
// accepts, so most raw results already qualify.
const querySuffix = " site:.gov OR site:.edu OR site:.org medical"

const maxCitations = 3

const keywordInstruction = `You are an AI that extracts crisp, relevant medical search keywords from chat history.
Return only a short comma-separated list of keywords. No sentences, no explanations.`

var medicalTitlePattern = regexp.MustCompile(`(?i)health|medical|medicine|nih|cdc|who|clinic|hospital`)

// Searcher is the web-search collaborator; satisfied by search.Client.
type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, num int) ([]search.Result, error)
}

// SuggestPipeline derives search keywords from the conversation, queries the
// web and formats medically relevant hits as a references block. Every
// failure degrades to an empty contribution; the chat turn never fails
// because of this pipeline.
type SuggestPipeline struct {
	ai       AIClient
	searcher Searcher
}

func NewSuggestPipeline(ai AIClient, searcher Searcher) *SuggestPipeline {
	return &SuggestPipeline{ai: ai, searcher: searcher}
}

// Enabled reports whether the search credential is configured. Without it
// the pipeline is inert and the prompt gets no citation section at all.
func (p *SuggestPipeline) Enabled() bool {
	return p != nil && p.searcher != nil && p.searcher.Enabled()
}

// IsSuggestTurn reports whether the latest user message with a leading text
// part asks for suggestions via the "suggest:" prefix.
func IsSuggestTurn(msgs []Message) bool {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Role != "user" || len(m.Parts) == 0 || !m.Parts[0].IsText() {
			continue
		}
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(m.Parts[0].Text)), suggestPrefix)
	}
	return false
}

// Citations runs the keyword -> search -> filter -> format flow and returns
// the references block, or "" when nothing usable came back.
func (p *SuggestPipeline) Citations(ctx context.Context, msgs []Message) string {
	if !p.Enabled() {
		log.Printf("[chat][suggest][skip] reason=search_key_missing")
		return ""
	}

	keywords := p.deriveKeywords(ctx, msgs)
	if keywords == "" {
		log.Printf("[chat][suggest][skip] reason=no_keywords")
		return ""
	}
	log.Printf("[chat][suggest][keywords] %q", keywords)

	results, err := p.searcher.Search(ctx, keywords+querySuffix, 5)
	if err != nil {
		log.Printf("[chat][suggest][skip] reason=search_failed err=%v", err)
		return ""
	}

	filtered := filterMedical(results)
	log.Printf("[chat][suggest][filtered] kept=%d of=%d", len(filtered), len(results))
	if len(filtered) > maxCitations {
		filtered = filtered[:maxCitations]
	}
	if len(filtered) == 0 {
		return ""
	}

	lines := make([]string, 0, len(filtered))
	for i, r := range filtered {
		lines = append(lines, fmt.Sprintf("%d. [%s](%s)", i+1, r.Title, r.Link))
	}
	return "\n\n#### References:\n" + strings.Join(lines, "\n")
}

// deriveKeywords asks the model for a comma-separated keyword list over the
// full conversation history. Errors and empty answers both yield "".
func (p *SuggestPipeline) deriveKeywords(ctx context.Context, msgs []Message) string {
	prompt := append([]openai.Message{{Role: "system", Content: keywordInstruction}}, ToModelMessages(msgs)...)
	keywords, err := p.ai.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[chat][suggest][keywords.fail] err=%v", err)
		return ""
	}
	return strings.TrimSpace(keywords)
}

// filterMedical keeps results whose host ends in .gov/.edu/.org or whose
// title matches the medical keyword heuristic, preserving relevance order.
// Filtering happens before truncation so a late qualifying hit is not lost
// to an early junk one.
func filterMedical(results []search.Result) []search.Result {
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		if r.Link == "" {
			continue
		}
		if hostIsMedical(r.Link) || medicalTitlePattern.MatchString(r.Title) {
			out = append(out, r)
		}
	}
	return out
}

func hostIsMedical(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".org")
}

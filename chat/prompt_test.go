package chat

import (
	"strings"
	"testing"
)

func TestComposeSystemPrompt_noPatientContext(t *testing.T) {
	got := ComposeSystemPrompt("", false, "")
	if strings.Contains(got, "Patient Context:") {
		t.Fatalf("empty context must not produce a label:\n%s", got)
	}
	if !strings.Contains(got, "You are BearCare AI") {
		t.Fatalf("instruction template missing:\n%s", got)
	}
	if !strings.Contains(got, "Recommend consulting healthcare professionals") {
		t.Fatalf("closing template missing:\n%s", got)
	}
	if strings.Contains(got, "The user is asking for suggestions") {
		t.Fatalf("citation instruction must be absent when inactive:\n%s", got)
	}
}

func TestComposeSystemPrompt_withPatientContext(t *testing.T) {
	ctx := "### PATIENT INFORMATION ###\nPatient ID: 101\n"
	got := ComposeSystemPrompt(ctx, false, "")
	if !strings.Contains(got, "Patient Context:\n### PATIENT INFORMATION ###") {
		t.Fatalf("context section missing or unlabeled:\n%s", got)
	}
}

func TestComposeSystemPrompt_suggestWithCitations(t *testing.T) {
	citations := "\n\n#### References:\n1. [t](https://nih.gov)"
	got := ComposeSystemPrompt("", true, citations)
	if !strings.Contains(got, "The user is asking for suggestions") {
		t.Fatalf("citation instruction missing:\n%s", got)
	}
	if !strings.Contains(got, "#### References:") {
		t.Fatalf("citation block missing:\n%s", got)
	}
}

func TestComposeSystemPrompt_suggestWithEmptyCitations(t *testing.T) {
	// Pipeline active but nothing survived the filter: the instruction still
	// tells the model to use only provided links, with nothing following.
	got := ComposeSystemPrompt("", true, "")
	if !strings.Contains(got, "only use the provided links") {
		t.Fatalf("citation instruction must stay when citations are empty:\n%s", got)
	}
	if strings.Contains(got, "#### References:") {
		t.Fatalf("no references block expected:\n%s", got)
	}
}

func TestComposeSystemPrompt_sectionOrder(t *testing.T) {
	got := ComposeSystemPrompt("ctx-body", true, "\n\n#### References:\n1. [t](l)")
	iHead := strings.Index(got, "You are BearCare AI")
	iCtx := strings.Index(got, "Patient Context:")
	iSug := strings.Index(got, "The user is asking for suggestions")
	iTail := strings.Index(got, "Always:")
	if !(iHead >= 0 && iHead < iCtx && iCtx < iSug && iSug < iTail) {
		t.Fatalf("sections out of order (head=%d ctx=%d suggest=%d tail=%d):\n%s", iHead, iCtx, iSug, iTail, got)
	}
}

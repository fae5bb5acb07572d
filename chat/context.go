package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"bearcare-backend/patients"
	"bearcare-backend/records"
)

// PatientSource and RecordSource are the data-service collaborators the
// assembler reads from. They are injected at construction time (the patients
// and records repositories in production, mocks in tests).
type PatientSource interface {
	Get(ctx context.Context, id int) (*patients.Patient, error)
}

type RecordSource interface {
	ByPatient(ctx context.Context, patientID int) ([]records.Record, error)
}

// ContextAssembler renders the mentioned patients' demographic and record
// data into a single text block for the system prompt.
type ContextAssembler struct {
	patients PatientSource
	records  RecordSource
}

func NewContextAssembler(p PatientSource, r RecordSource) *ContextAssembler {
	return &ContextAssembler{patients: p, records: r}
}

// patientSection is the per-identifier outcome: rendered text on success,
// failed when a fetch errored. A patient the store simply does not have
// yields neither (empty text, not failed).
type patientSection struct {
	text   string
	failed bool
}

const contextAdvisory = "Note: There was an error retrieving complete patient data.\n"

// Build fetches every identifier concurrently and joins the rendered
// sections in extraction order, so output is deterministic for a given
// input regardless of completion order. A failed identifier is skipped
// without aborting the rest; any failure appends one advisory line.
func (a *ContextAssembler) Build(ctx context.Context, ids []string) string {
	if len(ids) == 0 {
		return ""
	}

	sections := make([]patientSection, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sections[i] = a.buildSection(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var b strings.Builder
	failures := 0
	for _, s := range sections {
		if s.failed {
			failures++
			continue
		}
		b.WriteString(s.text)
	}
	if failures > 0 {
		b.WriteString(contextAdvisory)
	}
	return b.String()
}

func (a *ContextAssembler) buildSection(ctx context.Context, id string) patientSection {
	numericID, err := strconv.Atoi(id)
	if err != nil {
		// Mentions are digit runs, so this only happens with a hand-built id.
		return patientSection{}
	}

	patient, err := a.patients.Get(ctx, numericID)
	if errors.Is(err, patients.ErrNotFound) {
		log.Printf("[chat][context][skip] patient=%s reason=not_found", id)
		return patientSection{}
	}
	if err != nil {
		log.Printf("[chat][context][skip] patient=%s reason=patient_fetch_failed err=%v", id, err)
		return patientSection{failed: true}
	}

	recs, err := a.records.ByPatient(ctx, numericID)
	if err != nil {
		log.Printf("[chat][context][skip] patient=%s reason=records_fetch_failed err=%v", id, err)
		return patientSection{failed: true}
	}

	return patientSection{text: renderPatient(id, patient, recs)}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func genderLabel(g string) string {
	switch g {
	case "m":
		return "Male"
	case "f":
		return "Female"
	}
	return orUnknown(g)
}

func renderPatient(id string, p *patients.Patient, recs []records.Record) string {
	var b strings.Builder
	b.WriteString("### PATIENT INFORMATION ###\n")
	fmt.Fprintf(&b, "Patient ID: %s\n", id)
	fmt.Fprintf(&b, "Name: %s\n", orUnknown(p.Name))
	if p.Age > 0 {
		fmt.Fprintf(&b, "Age: %d years\n", p.Age)
	} else {
		b.WriteString("Age: Unknown years\n")
	}
	fmt.Fprintf(&b, "Birth Date: %s\n", orUnknown(p.BirthDate))
	fmt.Fprintf(&b, "Gender: %s\n", genderLabel(p.Gender))
	fmt.Fprintf(&b, "Contact: %s\n", orUnknown(p.Telecom))

	if len(p.Conditions) > 0 {
		b.WriteString("\nMedical Conditions:\n")
		for _, cond := range p.Conditions {
			fmt.Fprintf(&b, "- %s\n", cond)
		}
	}
	if len(p.Medications) > 0 {
		b.WriteString("\nCurrent Medications:\n")
		for _, med := range p.Medications {
			fmt.Fprintf(&b, "- %s\n", med)
		}
	}

	fmt.Fprintf(&b, "\n### START OF PATIENT %s RECORDS ###\n", id)
	if len(recs) > 0 {
		for i, rec := range recs {
			fmt.Fprintf(&b, "\n--- RECORD %d ---\n", i+1)
			serialized, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				serialized = []byte("{}")
			}
			b.Write(serialized)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("No medical records available for this patient.\n")
	}
	fmt.Fprintf(&b, "### END OF PATIENT %s RECORDS ###\n\n", id)
	return b.String()
}

package chat

import "strings"

// instructionTemplate is the fixed capability/behavior head of every system
// prompt. The chartjs guidance lets the dashboard render chart code blocks.
const instructionTemplate = `You are BearCare AI, a medical assistant specialized in healthcare data analysis and patient care recommendations. You are also a healthcare professional.

Instructions:
- Use only the provided patient context and do not speculate or invent information.
- Provide clear, concise, and semi-formal medical information and recommendations.
- Reply in Markdown format for readability (use lists, bold, headings, etc. where appropriate).
- If the user requests a graph, chart, or visualization, reply with a Markdown code block using the language 'chartjs' and provide a valid Chart.js config as JSON. Example:

` + "```chartjs" + `
{
  "type": "bar",
  "data": { "labels": ["A", "B"], "datasets": [{ "label": "Example", "data": [1,2] }] }
}
` + "```" + `

- Do not repeat the same disclaimers or information in every message.
- Be straight to the point and avoid unnecessary repetition.
- If information is missing, state only what is available in the context.

Capabilities:
- Analyze patient FHIR records and medical data
- Provide evidence-based treatment recommendations
- Explain medical insights in clear, professional language
- Maintain HIPAA compliance and patient privacy`

const citationInstruction = `IMPORTANT: The user is asking for suggestions. After your answer, append the following citations as Markdown links under a "References" heading. Do NOT invent or hallucinate citations, only use the provided links.`

const instructionTemplateTail = `Always:
1. Give crisp, actionable medical information (under 100 words when possible)
2. Reference evidence or reasoning when appropriate
3. Use Markdown formatting for clarity

Remember: You are an AI assistant. Recommend consulting healthcare professionals for medical decisions.`

// promptBuilder accumulates optional sections and renders them in the order
// added. A section is either fully present or fully absent; an empty body
// never produces a dangling label.
type promptBuilder struct {
	sections []string
}

func (b *promptBuilder) add(body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	b.sections = append(b.sections, body)
}

func (b *promptBuilder) addLabeled(label, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	b.sections = append(b.sections, label+"\n"+body)
}

func (b *promptBuilder) String() string {
	return strings.Join(b.sections, "\n\n")
}

// ComposeSystemPrompt merges the fixed template, the patient context and the
// conditional citation block into the final system instruction.
//
// When the suggestion pipeline activated but produced no citations, the
// citation instruction is still included with nothing following it, so the
// model knows to use only provided links (of which there are none).
func ComposeSystemPrompt(patientContext string, suggestActive bool, citations string) string {
	var b promptBuilder
	b.add(instructionTemplate)
	b.addLabeled("Patient Context:", patientContext)
	if suggestActive {
		b.add(citationInstruction + citations)
	}
	b.add(instructionTemplateTail)
	return b.String()
}

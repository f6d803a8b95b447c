package llm

import (
	"fmt"
	"strings"
	"text/template"
)

// translateSystemPrompt pins the translation call to translation-only output;
// any commentary from the model would pollute the search query.
const translateSystemPrompt = "You are a precise translator. Return only the Arabic translation with no explanation."

// composeSystemPrompt is the synthesis instruction. The model must ground
// every statement in the supplied passages and return machine-parseable JSON;
// citation safety is enforced again by the caller regardless.
const composeSystemPrompt = "You are Nusus AI. Build answers strictly from provided sources from the local corpus. " +
	"Return different scholarly opinions where sources differ. " +
	"Answer must be in the same language as the user question. " +
	"Citations themselves remain in Arabic metadata and are handled by the backend. " +
	"Never invent citations or facts outside the provided context. " +
	"Return valid JSON only."

// composeSchemaHint shows the model the exact response shape expected.
const composeSchemaHint = `{"answer": "string", "opinions": [{"title": "string", "summary": "string", "citation_ids": ["id1", "id2"]}]}`

var composeUserTmpl = template.Must(template.New("compose").Parse(`Question language: {{.Language}}
Question: {{.Question}}
Max opinions: {{.MaxOpinions}}
JSON schema shape: {{.SchemaHint}}
Use only these sources:
{{.Context}}`))

// renderComposePrompt builds the user message for a synthesis call. Each
// passage is enumerated with its id and full citation metadata so the model
// can cite by id.
func renderComposePrompt(in ComposeInput) (string, error) {
	lines := make([]string, 0, len(in.Passages))
	for _, p := range in.Passages {
		lines = append(lines, fmt.Sprintf(
			"[id=%s] الكتاب: %s | المؤلف: %s | المرجع: %s | النص: %s",
			p.ID, p.BookTitle, p.Author, p.SourceRef, p.Snippet,
		))
	}

	var sb strings.Builder
	err := composeUserTmpl.Execute(&sb, struct {
		Language    string
		Question    string
		MaxOpinions int
		SchemaHint  string
		Context     string
	}{
		Language:    in.Language,
		Question:    in.Question,
		MaxOpinions: in.MaxOpinions,
		SchemaHint:  composeSchemaHint,
		Context:     strings.Join(lines, "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("rendering compose prompt: %w", err)
	}
	return sb.String(), nil
}

// Package narrative asks an LLM for the written part of the report.
package narrative

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"ocean-report/internal/domain"
	"ocean-report/internal/llm"
)

// ErrorPrefix starts the text returned in place of a narrative when generation fails.
const ErrorPrefix = "Error generating report: "

// Instructions is sent as the system instructions of every narrative request.
const Instructions = "You are an objective psychometrician and career counselor. " +
	"You are analyzing Big Five (OCEAN) personality scores to create a profile."

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:markdown|md)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// Generator produces the markdown narrative for a set of trait scores.
type Generator struct {
	client llm.LLMClient
	logger *zap.Logger
}

func NewGenerator(client llm.LLMClient, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// Generate never fails: on any error it returns ErrorPrefix followed by the cause, so
// the report can render it in place of the narrative.
func (g *Generator) Generate(ctx context.Context, scores domain.TraitScore) string {
	if g == nil || g.client == nil {
		return ErrorPrefix + "narrative generator not configured"
	}
	raw, err := g.client.Generate(ctx, BuildPrompt(scores))
	if err != nil {
		g.logger.Warn("narrative generation failed", zap.Error(err))
		return ErrorPrefix + err.Error()
	}
	text := cleanMarkdownResponse(raw)
	if text == "" {
		g.logger.Warn("narrative generation returned empty text")
		return ErrorPrefix + llm.ErrEmptyResponse.Error()
	}
	return text
}

// BuildPrompt lists every trait in OCEAN order and fixes the five report sections.
func BuildPrompt(scores domain.TraitScore) string {
	var b strings.Builder
	b.WriteString("**User's Normalized Scores (0-100 Scale):**\n")
	for _, tp := range scores.Ordered() {
		fmt.Fprintf(&b, "- %s: %.1f\n", tp.Trait, tp.Percentage)
	}
	b.WriteString(`
*(Note: 0 is the absolute minimum, 50 is average, 100 is the absolute maximum)*

**Instructions:**
1. **Contextualize:** Interpret the scores knowing they are normalized percentages.
2. **Be Honest & Direct:** Provide a balanced, realistic view. Do not sugarcoat or rely on toxic positivity. If a score indicates a tendency to be disorganized, easily stressed, uncooperative, or withdrawn, state it plainly.
3. **Keep it Simple:** Use clear, accessible, everyday language. Avoid dense academic jargon.

**Structure the report EXACTLY as follows in clean Markdown:**

- **Executive Summary:** A concise, 2-sentence overview of their core personality type.
- **Key Strengths:** 3 brief bullet points highlighting their clearest advantages based on their highest relative scores.
- **Genuine Blind Spots:** 2-3 specific areas they will likely struggle with. Be constructive but completely honest.
- **Work & Career Style:** 2-3 sentences explaining how they naturally operate in a professional environment and team setting.
- **Actionable Growth Advice:** 2-3 practical, realistic steps they can take immediately to mitigate their biggest blind spot.
`)
	return b.String()
}

// cleanMarkdownResponse quita BOM y fences ```markdown ... ``` que algunos modelos agregan.
func cleanMarkdownResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

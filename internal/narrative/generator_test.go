package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ocean-report/internal/domain"
	"ocean-report/internal/llm"
)

func TestBuildPromptListsTraitsInOrder(t *testing.T) {
	prompt := BuildPrompt(domain.TraitScore{
		{Trait: domain.TraitNeuroticism, Percentage: 12.5},
		{Trait: domain.TraitOpenness, Percentage: 80},
	})
	last := -1
	for _, trait := range domain.TraitOrder {
		idx := strings.Index(prompt, "- "+trait+":")
		if idx <= last {
			t.Fatalf("trait %s missing or out of order in prompt", trait)
		}
		last = idx
	}
	if !strings.Contains(prompt, "- Openness: 80.0") || !strings.Contains(prompt, "- Extraversion: 0.0") {
		t.Fatalf("unexpected score lines:\n%s", prompt)
	}
	for _, section := range []string{"Executive Summary", "Key Strengths", "Genuine Blind Spots", "Work & Career Style", "Actionable Growth Advice"} {
		if !strings.Contains(prompt, section) {
			t.Fatalf("prompt missing section %q", section)
		}
	}
}

func TestGenerateReturnsCleanedMarkdown(t *testing.T) {
	client := &llm.MockClient{Response: "```markdown\n## Executive Summary\nCalm.\n```"}
	out := NewGenerator(client, nil).Generate(context.Background(), domain.TraitScore{})
	if out != "## Executive Summary\nCalm." {
		t.Fatalf("unexpected narrative %q", out)
	}
	if !strings.Contains(client.LastPrompt(), "Executive Summary") {
		t.Fatal("expected prompt to be sent")
	}
}

func TestGenerateDegradesToErrorText(t *testing.T) {
	out := NewGenerator(&llm.MockClient{Err: errors.New("quota exceeded")}, nil).Generate(context.Background(), nil)
	if out != "Error generating report: quota exceeded" {
		t.Fatalf("unexpected fallback %q", out)
	}

	out = NewGenerator(&llm.MockClient{Response: "   "}, nil).Generate(context.Background(), nil)
	if !strings.HasPrefix(out, ErrorPrefix) {
		t.Fatalf("expected error text for empty response, got %q", out)
	}

	var g *Generator
	if out := g.Generate(context.Background(), nil); !strings.HasPrefix(out, ErrorPrefix) {
		t.Fatalf("expected error text for nil generator, got %q", out)
	}
}

func TestCleanMarkdownResponseLeavesInnerFences(t *testing.T) {
	in := "Intro\n\n```\ncode\n```"
	if got := cleanMarkdownResponse(in); got != in {
		t.Fatalf("unfenced text should be unchanged, got %q", got)
	}
}

package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ocean-report/internal/domain"
	"ocean-report/internal/scoring"
)

func TestAskAllSupportsBackAndRetries(t *testing.T) {
	var script strings.Builder
	script.WriteString("5\n")
	script.WriteString("b\n")
	script.WriteString("x\n")
	script.WriteString("9\n")
	script.WriteString("1\n")
	for i := 2; i <= scoring.TotalItems; i++ {
		script.WriteString("3\n")
	}
	var out bytes.Buffer
	answers, err := askAll(bufio.NewReader(strings.NewReader(script.String())), &out)
	if err != nil {
		t.Fatalf("askAll: %v", err)
	}
	if len(answers) != scoring.TotalItems {
		t.Fatalf("expected %d answers, got %d", scoring.TotalItems, len(answers))
	}
	if answers[1] != 1 {
		t.Fatalf("expected revised first answer 1, got %d", answers[1])
	}
	if !strings.Contains(out.String(), "Please enter a number") {
		t.Fatalf("expected retry hint in output")
	}
}

func TestAskAllStopsOnEOF(t *testing.T) {
	_, err := askAll(bufio.NewReader(strings.NewReader("3\n")), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error when input ends early")
	}
}

func TestLoadAnswers(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`{"1": 5, "44": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	answers, err := loadAnswers(good)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if answers[1] != 5 || answers[44] != 2 || len(answers) != 2 {
		t.Fatalf("unexpected answers %v", answers)
	}

	for name, body := range map[string]string{
		"range.json": `{"1": 6}`,
		"item.json":  `{"45": 3}`,
		"bad.json":   `{"one": 3}`,
		"json.json":  `[1,2]`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := loadAnswers(path); err == nil {
			t.Fatalf("expected error for %s", name)
		}
	}
}

func TestPrintScores(t *testing.T) {
	var out bytes.Buffer
	printScores(&out, domain.TraitScore{{Trait: domain.TraitOpenness, Percentage: 80}})
	if !strings.Contains(out.String(), "Openness") || !strings.Contains(out.String(), "80.0%") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !strings.Contains(out.String(), "Neuroticism") {
		t.Fatalf("expected all traits listed")
	}
}

func TestRunWritesReportFromAnswersFile(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("SCORING_KEY_FILE", "")
	dir := t.TempDir()
	answersPath := filepath.Join(dir, "answers.json")
	if err := os.WriteFile(answersPath, []byte(`{"1": 4, "2": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "report.html")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{
		"--answers", answersPath,
		"--name", "Ada",
		"--out", outPath,
		"--media", filepath.Join(dir, "no-media"),
		"--seed", "3",
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "Prepared for: Ada") {
		t.Fatalf("report missing candidate name")
	}
	if !strings.Contains(out.String(), "Report written to "+outPath) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

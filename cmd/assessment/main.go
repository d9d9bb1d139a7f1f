// Command assessment runs the 44-item questionnaire in the terminal (or reads answers
// from a JSON file) and writes the HTML personality report.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ocean-report/internal/config"
	"ocean-report/internal/domain"
	"ocean-report/internal/llm"
	"ocean-report/internal/media"
	"ocean-report/internal/narrative"
	"ocean-report/internal/questionnaire"
	"ocean-report/internal/report"
	"ocean-report/internal/sampler"
	"ocean-report/internal/scoring"
	"ocean-report/internal/service"
)

var (
	answersFile string
	outputPath  string
	candidate   string
	mediaDir    string
	seed        uint64
)

var rootCmd = &cobra.Command{
	Use:   "assessment",
	Short: "Run the Big Five questionnaire and write a personality report",
	Long: `Run the 44-item Big Five questionnaire and write a self-contained HTML report.

Answers are read interactively (1-5 per statement, "b" to go back) unless
--answers points at a JSON file of the form {"1": 4, "2": 2, ...}.

Examples:
  assessment --name "Ada"
  assessment --answers answers.json --name "Ada" --out report.html
  assessment --answers answers.json --seed 42 --media ./Emotional_Behaviour`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&answersFile, "answers", "", "JSON file with item -> answer (1-5)")
	rootCmd.Flags().StringVarP(&outputPath, "out", "o", report.DownloadName, "Where to write the report")
	rootCmd.Flags().StringVarP(&candidate, "name", "n", "", "Candidate name shown on the report")
	rootCmd.Flags().StringVar(&mediaDir, "media", "", "Directory with valence.npy, arousal.npy and video.mp4 (overrides MEDIA_DIR)")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for snapshot sampling (overrides SAMPLE_SEED)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if mediaDir != "" {
		cfg.MediaDir = mediaDir
	}
	if cmd.Flags().Changed("seed") {
		cfg.SampleSeed = seed
	}

	logger := zap.NewExample()
	defer logger.Sync()

	key, err := cfg.ScoringKey()
	if err != nil {
		return fmt.Errorf("invalid scoring key: %w", err)
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	var answers domain.Response
	if answersFile != "" {
		answers, err = loadAnswers(answersFile)
	} else {
		answers, err = askAll(in, out)
	}
	if err != nil {
		return err
	}

	name := strings.TrimSpace(candidate)
	if name == "" {
		name, err = prompt(in, out, "Candidate name: ")
		if err != nil {
			return err
		}
	}

	scores := scoring.Score(answers, key)
	printScores(out, scores)

	var narrator *narrative.Generator
	if cfg.LLMAPIKey != "" {
		narrator = narrative.NewGenerator(llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, narrative.Instructions, logger), logger)
	} else {
		narrator = narrative.NewGenerator(nil, logger)
	}
	reportSvc := service.NewReportService(key, narrator, service.MediaConfig{
		ValencePath: cfg.ValencePath(),
		ArousalPath: cfg.ArousalPath(),
		VideoPath:   cfg.VideoPath(),
		Prober:      &media.LocalProber{Binary: cfg.FFprobePath},
		Extractor:   &media.FrameExtractor{Binary: cfg.FFmpegPath},
	}, sampler.NewSampler(cfg.SampleCount, sampler.NewRand(cfg.SampleSeed), logger), nil, nil, logger)

	fmt.Fprintln(out, "Generating report...")
	artifact, err := reportSvc.Generate(context.Background(), service.ReportRequest{
		CandidateName: name,
		Responses:     answers,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(artifact.HTML), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(out, "Report written to %s\n", outputPath)
	return nil
}

// askAll walks the questionnaire until every statement has been answered.
func askAll(in *bufio.Reader, out io.Writer) (domain.Response, error) {
	session := questionnaire.NewSession("cli")
	for !session.Done() {
		q, _ := session.Current()
		fmt.Fprintf(out, "\n[%d/%d] I see myself as someone who... %s\n", q.Item, q.Total, q.Statement)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
		line, err := prompt(in, out, "> ")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(line, "b") {
			session = session.Back()
			continue
		}
		value, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Please enter a number from 1 to 5, or b to go back.")
			continue
		}
		next, err := session.Answer(value)
		if err != nil {
			fmt.Fprintln(out, err.Error())
			continue
		}
		session = next
	}
	return session.Answers, nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// loadAnswers reads {"<item>": <value>} and rejects values outside 1..5.
func loadAnswers(path string) (domain.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	answers := make(domain.Response, len(raw))
	for k, v := range raw {
		item, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || item < 1 || item > scoring.TotalItems {
			return nil, fmt.Errorf("parse answers: invalid item %q", k)
		}
		if v < scoring.MinValue || v > scoring.MaxValue {
			return nil, fmt.Errorf("parse answers: item %d has value %d outside 1-5", item, v)
		}
		answers[item] = v
	}
	return answers, nil
}

func printScores(out io.Writer, scores domain.TraitScore) {
	fmt.Fprintln(out, "\nTrait breakdown (0-100%):")
	for _, tp := range scores.Ordered() {
		fmt.Fprintf(out, "  %-18s %5.1f%%\n", tp.Trait, tp.Percentage)
	}
}

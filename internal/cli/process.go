package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/planora/planora/internal/ingest"
	"github.com/planora/planora/internal/llm"
	"github.com/planora/planora/internal/model"
	"github.com/planora/planora/internal/pipeline"
	"github.com/planora/planora/internal/store"
)

var (
	docURL      string
	docID       string
	docVersion  string
	llmProvider string
	llmModel    string
	maxChars    int
	workers     int
	outPath     string
	storeDir    string
	rawMode     bool
	procTimeout time.Duration
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Process a document into a structured plan",
	Long: `Process reads a document (from a file, a URL, or stdin), extracts
its rules through the configured oracle, and assembles a plan.

With no input at all, a built-in demo document is processed instead.

Example:
  planora process spec.txt
  planora process --url https://example.com/policy.html
  cat spec.txt | planora process -
  planora process spec.txt --raw --out plan.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&docURL, "url", "", "fetch the document from a URL instead of a file")
	processCmd.Flags().StringVar(&docID, "doc-id", "", "document id (default: generated)")
	processCmd.Flags().StringVar(&docVersion, "doc-version", "", "plan version (default: v1)")
	processCmd.Flags().StringVar(&llmProvider, "provider", "openai", "oracle provider (openai, anthropic, ollama)")
	processCmd.Flags().StringVar(&llmModel, "model", "", "oracle model name (provider default if empty)")
	processCmd.Flags().IntVar(&maxChars, "max-chars", 0, "max characters per chunk (default 1200)")
	processCmd.Flags().IntVar(&workers, "workers", 0, "max concurrent oracle calls (default 10)")
	processCmd.Flags().StringVar(&outPath, "out", "", "also write the plan JSON to this path ('-' for stdout)")
	processCmd.Flags().StringVar(&storeDir, "store-dir", "", "artifact directory (default: artifacts)")
	processCmd.Flags().BoolVar(&rawMode, "raw", false, "single-shot mode: send the whole document in one oracle call")
	processCmd.Flags().DurationVar(&procTimeout, "timeout", 15*time.Minute, "overall processing timeout")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), procTimeout)
	defer cancel()

	cfg := buildConfig()

	text, err := readDocument(ctx, cfg, args)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}

	st := store.NewLayeredStore(cfg.Store.Dir, cfg.Store.MemoryTTL)
	p := pipeline.New(provider, st, cfg, logger)

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s\n", provider.Name())
		fmt.Fprintf(os.Stderr, "Document: %d chars\n", len(text))
		fmt.Fprintln(os.Stderr)
	}

	var result model.Plan
	if rawMode {
		result, err = p.ProcessRaw(ctx, text, docID, docVersion)
	} else {
		result, err = p.ProcessDocument(ctx, text, docID, docVersion)
	}
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Extracted %d rules, %d open questions\n", len(result.Rules), len(result.OpenQuestions))
	fmt.Fprintf(os.Stderr, "✓ Plan saved: %s\n", store.PlanKey(result.DocumentID))

	if outPath != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal plan: %w", err)
		}
		if outPath == "-" {
			fmt.Println(string(data))
		} else if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
	}

	return nil
}

// buildConfig layers flag values over the defaults and pulls API keys
// from the environment
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if maxChars > 0 {
		cfg.Chunker.MaxChars = maxChars
	}
	if workers > 0 {
		cfg.Concurrency.ExtractionWorkers = workers
	}
	if storeDir != "" {
		cfg.Store.Dir = storeDir
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg
}

// readDocument resolves the document text from --url, the file
// argument, stdin ("-"), or nothing (empty text selects the fixture)
func readDocument(ctx context.Context, cfg *model.Config, args []string) (string, error) {
	if docURL != "" {
		fetcher := ingest.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes)
		result, err := fetcher.Fetch(ctx, docURL)
		if err != nil {
			return "", fmt.Errorf("fetch document: %w", err)
		}
		return result.Text, nil
	}

	if len(args) == 0 {
		return "", nil
	}

	if args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

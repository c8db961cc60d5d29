package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planora/planora/internal/llm"
	"github.com/planora/planora/internal/pipeline"
	"github.com/planora/planora/internal/server"
	"github.com/planora/planora/internal/store"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the document-to-plan pipeline over HTTP",
	Long: `Serve starts the HTTP boundary:

  POST /plan      {"doc": "...", "name": "...", "version": "..."}
  POST /plan/raw  {"doc": "..."}

Both return the plan JSON. On total extraction failure the response is
still plan-shaped, with empty rules and an explicit error field.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&llmProvider, "provider", "openai", "oracle provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "model", "", "oracle model name (provider default if empty)")
	serveCmd.Flags().StringVar(&storeDir, "store-dir", "", "artifact directory (default: artifacts)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	cfg.Server.Addr = serveAddr

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

	fmt.Fprintf(os.Stderr, "Listening on %s (provider: %s)\n", cfg.Server.Addr, provider.Name())

	return server.New(p, logger).Run(cfg.Server.Addr)
}

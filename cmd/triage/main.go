package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/llm-doc-triage/internal/adapters/intake"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/di"
)

func main() {
	flags := &di.CLIFlags{}

	cmd := &cobra.Command{
		Use:   "triage [file]",
		Short: "Classify a document and run it through the matching agent",
		Long: "triage reads a .json, .txt, .pdf or .eml file (or stdin when no file is given),\n" +
			"classifies it as structured data, email or plain text, and prints the agent's result.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.BuildCLIContainer(flags)
			if err != nil {
				return fmt.Errorf("failed to build dependency container: %w", err)
			}
			return container.Invoke(func(
				logger *zap.Logger,
				cli *intake.CLIIntake,
				llmClient core.LLMClient,
				sink core.Sink,
			) error {
				defer logger.Sync()
				defer closeResources(logger, llmClient, sink)

				ctx := cmd.Context()
				if len(args) == 1 {
					_, err := cli.RunPath(ctx, args[0])
					return err
				}
				logger.Debug("Reading document from stdin")
				_, err := cli.RunReader(ctx, cmd.InOrStdin(), "stdin")
				return err
			})
		},
	}
	di.BindFlags(cmd, flags)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func closeResources(logger *zap.Logger, llmClient core.LLMClient, sink core.Sink) {
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
	if err := sink.Close(); err != nil {
		logger.Error("Failed to close sink", zap.Error(err))
	}
}

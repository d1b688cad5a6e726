package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blimu-dev/api-typegen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logLevel string
	logger := slog.Default()

	root := &cobra.Command{
		Use:           "apitypegen",
		Short:         "Generate TypeScript API types from OpenAPI documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = cli.NewLogger(os.Stderr, logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(&logger))
	root.AddCommand(newPlanCmd(&logger))
	root.AddCommand(newValidateCmd(&logger))

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newGenerateCmd(logger **slog.Logger) *cobra.Command {
	var params cli.RunGenerateParams

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cmd.Context(), *logger, params)
		},
	}

	cmd.Flags().StringVarP(&params.ConfigPath, "config", "c", "", "Path to apitypegen.yaml config")
	cmd.Flags().StringVar(&params.Target, "target", "", "Generate only the named target from config")
	cmd.Flags().BoolVar(&params.Check, "check", false, "Report out of date files instead of writing them")
	// Fallback single-target flags
	cmd.Flags().StringVar(&params.Fallback.Spec, "input", "", "OpenAPI document file (yaml/json) or URL")
	cmd.Flags().StringVar(&params.Fallback.Type, "type", "", "Target type (axios or types)")
	cmd.Flags().StringVar(&params.Fallback.OutDir, "out", "", "Output directory")
	cmd.Flags().StringArrayVar(&params.Fallback.IncludeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&params.Fallback.ExcludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")

	return cmd
}

func newPlanCmd(logger **slog.Logger) *cobra.Command {
	var params cli.RunPlanParams
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the generation plan of an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunPlan(cmd.Context(), *logger, cmd.OutOrStdout(), params)
		},
	}
	cmd.Flags().StringVar(&params.Spec, "input", "", "OpenAPI document file (yaml/json) or URL")
	cmd.Flags().StringVar(&params.Format, "format", "yaml", "Output format (yaml or json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newValidateCmd(logger **slog.Logger) *cobra.Command {
	var input string
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(cmd.Context(), *logger, cmd.OutOrStdout(), input, strict)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI document file (yaml/json) or URL")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when the document produces diagnostics")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

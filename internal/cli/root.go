// Package cli provides the command-line interface for shapeyaml.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/shapeyaml"
	"github.com/reoring/shapeyaml/i18n"
)

// Version information (set at build time).
var Version = "0.1.0"

// app holds the resolved global flags shared by every subcommand.
type app struct {
	driverName string
	verbose    bool
	colorMode  string
	lang       string
	maxBytes   int64

	driver shapeyaml.Driver
	logger *slog.Logger
}

func (a *app) parseOpt() shapeyaml.ParseOpt {
	return shapeyaml.ParseOpt{
		MaxBytes: a.maxBytes,
		Driver:   a.driver,
		Logger:   a.logger,
		Strictness: shapeyaml.Strictness{
			OnDuplicateKey: shapeyaml.Warn,
		},
	}
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "shapeyaml",
		Short: "Inspect and lint YAML documents",
		Long: `shapeyaml inspects YAML the way the shapeyaml decoder sees it:
document counts, the classified node tree with source positions, and
structural problems such as duplicate keys or dangling aliases.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.setup(cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.driverName, "driver", "yaml.v3", "document driver (yaml.v3|go-yaml|go-json)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&a.colorMode, "color", "auto", "Colorize output (auto|always|never)")
	rootCmd.PersistentFlags().StringVar(&a.lang, "lang", "en", "Language for issue labels (en|ja)")
	rootCmd.PersistentFlags().Int64Var(&a.maxBytes, "max-bytes", 0, "Reject inputs larger than this many bytes (0 = no limit)")

	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return shapeyaml.DriverNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newDocsCommand(a))
	rootCmd.AddCommand(newTreeCommand(a))
	rootCmd.AddCommand(newLintCommand(a))

	return rootCmd
}

func (a *app) setup(stderr io.Writer) error {
	drv, ok := shapeyaml.DriverByName(a.driverName)
	if !ok {
		return fmt.Errorf("unknown driver %q (want one of %v)", a.driverName, shapeyaml.DriverNames())
	}
	a.driver = drv

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	i18n.SetLanguage(a.lang)
	a.logger.Debug("cli configured", "driver", drv.Name(), "lang", a.lang)
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

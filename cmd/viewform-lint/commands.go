package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-viewform/pkg/config"
	"github.com/goliatone/go-viewform/pkg/enhancer"
)

type options struct {
	verbose    bool
	formatters []string
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "viewform-lint",
		Short:         "Lint and inspect form configuration documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every loaded document")

	root.AddCommand(newCheckCommand(opts), newDumpCommand(opts))
	return root
}

func newCheckCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Load, merge and validate configuration files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			doc, err := load(logger, args)
			if err != nil {
				logger.Error().Err(err).Msg("load failed")
				return err
			}

			e := enhancer.New(enhancer.WithConfig(doc), enhancer.WithLogger(logger))
			known := make(map[string]bool, len(opts.formatters))
			for _, name := range opts.formatters {
				known[strings.TrimSpace(name)] = true
			}
			resolves := func(name string) bool {
				return known[name] || e.ResolvesFormatter(name)
			}

			if err := doc.Validate(resolves); err != nil {
				problems := splitJoined(err)
				for _, problem := range problems {
					logger.Error().Msg(problem)
				}
				return fmt.Errorf("viewform-lint: %d problem(s) found", len(problems))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d form type(s), %d widget rule(s), %d validator rule(s)\n",
				len(doc.Forms), len(doc.Widgets), len(doc.Validators))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&opts.formatters, "formatter", nil, "additional formatter implementation names to accept")
	return cmd
}

func newDumpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [paths...]",
		Short: "Print the merged configuration in normalised YAML form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			doc, err := load(logger, args)
			if err != nil {
				logger.Error().Err(err).Msg("load failed")
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("viewform-lint: encode: %w", err)
			}
			return enc.Close()
		},
	}
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).
		Level(level)
}

// load merges the documents at paths in argument order. Directories are
// walked recursively.
func load(logger zerolog.Logger, paths []string) (*config.Document, error) {
	doc := config.New()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("viewform-lint: %w", err)
		}

		var layer *config.Document
		if info.IsDir() {
			layer, err = config.LoadFS(os.DirFS(path))
		} else {
			layer, err = config.LoadFile(path)
		}
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Int("forms", len(layer.Forms)).Msg("loaded")
		doc = config.Merge(doc, layer)
	}
	return doc, nil
}

func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		out := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

// Package cli implements the sectioner command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/sectioner/internal/config"
	"github.com/tsawler/sectioner/internal/store"
	"github.com/tsawler/sectioner/internal/version"
	"github.com/tsawler/sectioner/logging"
)

// options holds the persistent flag values
type options struct {
	configFile     string
	mode           string
	duplicates     string
	bandStart      float64
	bandEnd        float64
	excludeRunning bool
	rawText        bool
	language       string
	format         string
	pretty         bool
	output         string
	logLevel       string
	database       string
	workers        int
}

// NewRootCommand returns the sectioner command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "sectioner",
		Short: "Split OCR output into titled sections or paragraphs",
		Long: `sectioner reads OCR results (Textract-style JSON, hOCR, or images when
built with the ocr tag) and groups the recognized lines into sections under
detected headers, or into paragraphs when the document has no headers.`,
		SilenceUsage: true,
	}
	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("sectioner %s\n", version.String()))

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&opts.mode, "mode", "m", "", "Header detection mode (font-height, indent-band, headerless)")
	flags.StringVar(&opts.duplicates, "duplicates", "", "Repeated header handling (keep-all, collapse-to-last)")
	flags.Float64Var(&opts.bandStart, "band-start", 0, "Indent band start as a fraction of page width")
	flags.Float64Var(&opts.bandEnd, "band-end", 0, "Indent band end as a fraction of page width")
	flags.BoolVar(&opts.excludeRunning, "exclude-running", false, "Remove repeated page headers and footers")
	flags.BoolVar(&opts.rawText, "raw", false, "Keep OCR text without Unicode normalization")
	flags.StringVar(&opts.language, "lang", "", "OCR language for image input (e.g. eng, eng+fra)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format (json, jsonl, csv, tsv, markdown, text)")
	flags.BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	flags.StringVarP(&opts.output, "output", "o", "", "Write results to a file instead of stdout")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.database, "db", "", "SQLite database for jobs and results")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Files processed concurrently")

	root.AddCommand(
		newSectionsCommand(opts),
		newParagraphsCommand(opts),
		newLinesCommand(opts),
		newSubmitCommand(opts),
		newCompleteCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// load resolves the configuration file and flag overrides, and installs
// the logger.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.LoadFile(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = o.mode
	}
	if flags.Changed("duplicates") {
		cfg.Duplicates = o.duplicates
	}
	if flags.Changed("band-start") {
		cfg.IndentBand.Start = o.bandStart
	}
	if flags.Changed("band-end") {
		cfg.IndentBand.End = o.bandEnd
	}
	if flags.Changed("exclude-running") {
		cfg.Running.Exclude = o.excludeRunning
	}
	if flags.Changed("raw") {
		cfg.RawText = o.rawText
	}
	if flags.Changed("lang") {
		cfg.OCR.Language = o.language
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = o.pretty
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("db") {
		cfg.Database = o.database
	}
	if flags.Changed("workers") && o.workers > 0 {
		cfg.Workers = o.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.SetLogger(logging.NewTextLogger(cmd.ErrOrStderr(), level))
	return cfg, nil
}

// openStore opens the configured database, or returns nil when none is set
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Database == "" {
		return nil, nil
	}
	return store.Open(cfg.Database)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sectioner %s\n", version.String())
		},
	}
}

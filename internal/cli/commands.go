package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/sectioner"
	"github.com/tsawler/sectioner/export"
	"github.com/tsawler/sectioner/internal/config"
	"github.com/tsawler/sectioner/layout"
	"github.com/tsawler/sectioner/logging"
	"github.com/tsawler/sectioner/model"
	"github.com/tsawler/sectioner/ocr"
)

func newSectionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sections FILE...",
		Short: "Group lines into sections under detected headers",
		Long: `Detect section headers by font height (default) or by left indent, and
collect the text that follows each header up to the next one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if !cfg.ParsedMode().IsHeaderBased() {
				return fmt.Errorf("sections needs a header mode, got %s", cfg.Mode)
			}
			return runSegment(cmd, cfg, opts.output, args)
		},
	}
}

func newParagraphsCommand(opts *options) *cobra.Command {
	var byPeriod bool

	cmd := &cobra.Command{
		Use:   "paragraphs FILE...",
		Short: "Split lines into paragraphs from spacing and width",
		Long: `Split lines into paragraphs where the gap above a line is larger than the
gap below it. With --by-period a paragraph ends at every line ending in a
period instead, and text after the last period is dropped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg.Mode = model.ModeHeaderless.String()
			if byPeriod {
				cfg.ByPeriod = true
			}
			return runSegment(cmd, cfg, opts.output, args)
		},
	}

	cmd.Flags().BoolVar(&byPeriod, "by-period", false, "End paragraphs at lines ending in a period")
	return cmd
}

func newLinesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lines FILE",
		Short: "Print the extracted line records and height tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			lines, warnings, err := newSegmenter(cfg, args[0]).Lines()
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), args[0], warnings)

			out := cmd.OutOrStdout()
			printLines(out, args[0], lines)

			heights := layout.NewHeightIndex()
			for _, line := range lines {
				heights.Add(line.Height, line.Sequence)
			}
			for _, tier := range layout.HeaderTiers(heights) {
				fmt.Fprintf(out, "%s %.3f -> %.3f\n", dimStyle.Render("tier:"), tier.Header, tier.Body)
			}
			return nil
		},
	}
}

func newSubmitCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "submit DOCUMENT",
		Short: "Record an OCR job for a document and print its ID",
		Long: `Record a new in-progress OCR job for DOCUMENT in the database. Pass the
printed ID as the job tag so the completion notification can be matched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			if st == nil {
				return fmt.Errorf("submit needs a database (--db)")
			}
			defer st.Close()

			job, err := st.SubmitJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), job.ID)
			return nil
		},
	}
}

func newCompleteCommand(opts *options) *cobra.Command {
	var results string

	cmd := &cobra.Command{
		Use:   "complete NOTIFICATION",
		Short: "Handle an OCR job completion notification",
		Long: `Read a job completion notification, update the job status in the
database and, when the job succeeded and --results is given, segment the
results and store them under the notification's document path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			note, err := ocr.DecodeNotification(data)
			if err != nil {
				return err
			}

			logging.Logger().Info("job completed",
				"job", note.JobID,
				"status", note.Status,
				"document", note.DocumentPath(),
				"at", note.CompletedAt())

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
				id := note.JobTag
				if id == "" {
					id = note.JobID
				}
				if err := st.UpdateJobStatus(cmd.Context(), id, note.Status, note.CompletedAt()); err != nil {
					return err
				}
			}

			if !note.Succeeded() {
				return fmt.Errorf("job %s finished with status %s", note.JobID, note.Status)
			}
			if results == "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s %s\n",
					successStyle.Render("✓"), titleStyle.Render(note.DocumentPath()), note.Status)
				return nil
			}

			doc, warnings, err := newSegmenter(cfg, results).Path(note.DocumentPath()).Document()
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), results, warnings)
			if st != nil {
				if err := st.SaveDocument(cmd.Context(), doc); err != nil {
					return err
				}
			}
			printSummary(cmd.ErrOrStderr(), doc)
			return writeDocuments(cmd.OutOrStdout(), cfg, opts.output, []*model.Document{doc})
		},
	}

	cmd.Flags().StringVarP(&results, "results", "r", "", "OCR results file for the completed job")
	return cmd
}

// newSegmenter returns a Segmenter for file configured from cfg
func newSegmenter(cfg *config.Config, file string) *sectioner.Segmenter {
	seg := sectioner.Open(file).
		Mode(cfg.ParsedMode()).
		Duplicates(cfg.DuplicatePolicy())
	if cfg.ParsedMode() == model.ModeIndentBand {
		band := cfg.Band()
		seg = seg.IndentBand(band.Start, band.End)
	}
	if cfg.Running.Exclude {
		seg = seg.RunningLineConfig(cfg.RunningLines())
	}
	if cfg.RawText {
		seg = seg.RawText()
	}
	if cfg.ByPeriod {
		seg = seg.ByPeriod()
	}
	if cfg.OCR.Language != "" {
		seg = seg.Language(cfg.OCR.Language)
	}
	return seg
}

// segmentFiles segments files concurrently. Results follow argument order.
func segmentFiles(ctx context.Context, cfg *config.Config, files []string) ([]*model.Document, [][]sectioner.Warning, error) {
	docs := make([]*model.Document, len(files))
	warnings := make([][]sectioner.Warning, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, file := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			doc, w, err := newSegmenter(cfg, file).Document()
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			docs[i] = doc
			warnings[i] = w
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return docs, warnings, nil
}

// runSegment segments files, stores the results when a database is
// configured and writes them in the configured format
func runSegment(cmd *cobra.Command, cfg *config.Config, output string, files []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docs, warnings, err := segmentFiles(ctx, cfg, files)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	for i, doc := range docs {
		printWarnings(errOut, files[i], warnings[i])
		printSummary(errOut, doc)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		for _, doc := range docs {
			if err := st.SaveDocument(ctx, doc); err != nil {
				return fmt.Errorf("saving %s: %w", doc.Path, err)
			}
		}
	}

	return writeDocuments(cmd.OutOrStdout(), cfg, output, docs)
}

// writeDocuments exports docs to output, or to w when output is empty
func writeDocuments(w io.Writer, cfg *config.Config, output string, docs []*model.Document) error {
	exporter := export.NewExporterWithConfig(cfg.ExportConfig())
	if output != "" {
		return exporter.ExportToFile(docs, output)
	}
	return exporter.Export(docs, w)
}

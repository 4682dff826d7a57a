package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/shapekit/internal/analysis"
	"github.com/ironsheep/shapekit/internal/config"
	"github.com/ironsheep/shapekit/internal/imaging"
	"github.com/ironsheep/shapekit/internal/report"
)

// analyzeOpts holds the command-line flags for the analyze command. Only
// flags set explicitly override the loaded configuration.
type analyzeOpts struct {
	input      string  // image to analyze
	output     string  // output directory
	mode       string  // "cluster" or "classify"
	threshold  float64 // clustering threshold on the P²/A ratio
	minArea    float64 // contours at or below this area are ignored
	histograms bool    // also write colour and ratio histograms
	panel      bool    // also write a 2x2 summary panel
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Group the contours of an image by shape",
		Long: `Analyze decodes an image, blurs it, detects edges, extracts closed contours
and describes each by its P²/A ratio. Contours are then grouped either by
running-mean clustering (--mode cluster) or by nearest reference shape
(--mode classify). A JSON report, a results table and annotated images are
written to the output directory.`,
		Example: `  shapekit analyze --input shapes.png
  shapekit analyze -i shapes.png -o out --mode classify --histograms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.Flags(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input image path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config: output)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "grouping mode: cluster or classify")
	cmd.Flags().Float64VarP(&opts.threshold, "threshold", "t", 0, "clustering threshold on the P²/A ratio (default 2)")
	cmd.Flags().Float64Var(&opts.minArea, "min-area", 0, "ignore contours with area at or below this (default 300)")
	cmd.Flags().BoolVar(&opts.histograms, "histograms", false, "also write colour and ratio histograms")
	cmd.Flags().BoolVar(&opts.panel, "panel", false, "also write a summary panel image")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// analyzeSettings merges explicitly set flags over the loaded settings and
// validates the result.
func analyzeSettings(base *config.Config, flags *pflag.FlagSet, opts analyzeOpts) (config.AnalyzeConfig, error) {
	merged := *base
	ac := &merged.Analyze
	if flags.Changed("output") {
		ac.OutputDir = opts.output
	}
	if flags.Changed("mode") {
		ac.Mode = opts.mode
	}
	if flags.Changed("threshold") {
		ac.Threshold = opts.threshold
	}
	if flags.Changed("min-area") {
		ac.MinArea = opts.minArea
	}
	if flags.Changed("histograms") {
		ac.Histograms = opts.histograms
	}
	if err := merged.Validate(); err != nil {
		return config.AnalyzeConfig{}, err
	}
	return *ac, nil
}

func runAnalyze(ctx context.Context, flags *pflag.FlagSet, w io.Writer, opts analyzeOpts) error {
	logger := loggerFromContext(ctx)

	ac, err := analyzeSettings(configFromContext(ctx), flags, opts)
	if err != nil {
		return err
	}
	mode, err := report.ParseMode(ac.Mode)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	img, err := imaging.NewCache().Load(opts.input)
	if err != nil {
		return fmt.Errorf("could not read image: %w", err)
	}
	b := img.Bounds()
	prog.done(fmt.Sprintf("Loaded %s (%dx%d)", opts.input, b.Dx(), b.Dy()))

	prog = newProgress(logger)
	res, err := analysis.Run(ctx, img, analysis.Options{
		Mode:       mode,
		Threshold:  ac.Threshold,
		MinArea:    ac.MinArea,
		Preprocess: ac.PreprocessOptions(),
	})
	if err != nil {
		return err
	}
	res.Report.Source = opts.input
	logger.Debug("contours extracted", "contours", len(res.Contours), "min_area", ac.MinArea)
	prog.done(fmt.Sprintf("Detected %d shapes", len(res.Descriptors)))

	files, err := res.Save(ac.OutputDir, analysis.SaveOptions{
		Histograms: ac.Histograms,
		Panel:      opts.panel,
	})
	if err != nil {
		return err
	}

	printAnalysisSummary(w, res.Report)
	printSuccess(w, "Wrote %d files to %s", len(files), ac.OutputDir)
	for _, f := range files {
		printFile(w, f)
	}
	return nil
}

func printAnalysisSummary(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, StyleTitle.Render("Shape groups"))
	printKeyValue(w, "Mode", string(r.Mode))
	if r.Threshold != nil {
		printKeyValue(w, "Threshold", fmt.Sprintf("%.2f", *r.Threshold))
	}
	printKeyValue(w, "Shapes", StyleNumber.Render(fmt.Sprint(len(r.Entries))))
	printKeyValue(w, "Groups", StyleNumber.Render(fmt.Sprint(r.NonEmptyGroups())))

	if len(r.Entries) == 0 {
		printWarning(w, "no shapes found")
		return
	}
	fmt.Fprintln(w, groupTable(r))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/acm19/imageshrink/apps/cli/completion"
	"github.com/acm19/imageshrink/internal/logger"
	"github.com/acm19/imageshrink/internal/shrink"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "imageshrink [flags] FILE...",
	Short: "Write smaller copies of JPEG, PNG and BMP images",
	Long: `Imageshrink writes a reduced-resolution copy of each JPEG, PNG and BMP file
next to the original, named <name>_smaller.<ext>. Both sides are divided by the
reduction factor using nearest-neighbour sampling. Other files are reported as
failures; paths that are not regular files are ignored.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	Run:     runShrink,
}

var (
	factor       float64
	outputFormat string
	jpegQuality  int
	tagOriginal  bool
	exiftoolPath string
	uploadBucket string
	uploadPrefix string
	showProgress bool
	debug        bool
)

const noFactorMessage = "Failed to get amount to shrink the image(s) by ... exited"

func init() {
	rootCmd.Flags().Float64VarP(&factor, "factor", "f", 0, "Reduction factor (0 = none chosen); prompts when omitted")
	rootCmd.Flags().StringVar(&outputFormat, "format", string(shrink.OutputSource), "Output encoding: source (match the extension) or jpeg")
	rootCmd.Flags().IntVarP(&jpegQuality, "quality", "q", 75, "JPEG quality (1-100)")
	rootCmd.Flags().BoolVar(&tagOriginal, "tag-original", false, "Write OriginalFileName metadata into outputs (requires exiftool)")
	rootCmd.Flags().StringVar(&exiftoolPath, "exiftool", "", "Path to the exiftool binary")
	rootCmd.Flags().StringVar(&uploadBucket, "upload", "", "S3 bucket to copy the shrunken files to")
	rootCmd.Flags().StringVar(&uploadPrefix, "prefix", "", "Key prefix inside the upload bucket")
	rootCmd.Flags().BoolVarP(&showProgress, "progress", "p", false, "Print progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(shrink.OutputSource), string(shrink.OutputJPEG)}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.RegisterFlagCompletionFunc("factor", cobra.FixedCompletions(
		[]string{"2", "4", "8", "16"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"jpg", "jpeg", "png", "bmp"}, cobra.ShellCompDirectiveFilterFileExt
	}

	rootCmd.AddCommand(completion.NewInstallCmd(rootCmd))
	rootCmd.AddCommand(completion.NewUninstallCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runConfig is everything a shrink run needs besides the paths
type runConfig struct {
	factor       shrink.Factor
	factorSet    bool
	opts         shrink.Options
	bucket       string
	prefix       string
	showProgress bool
}

func runShrink(cmd *cobra.Command, args []string) {
	if debug {
		logger.SetDebug(true)
	}

	opts, err := newOptions(outputFormat, jpegQuality)
	if err != nil {
		logger.Error("Invalid flags", "error", err)
		os.Exit(1)
	}
	opts.TagOriginalName = tagOriginal
	opts.ExiftoolPath = exiftoolPath

	cfg := runConfig{
		factor:       shrink.Factor(factor),
		factorSet:    cmd.Flags().Changed("factor"),
		opts:         opts,
		bucket:       uploadBucket,
		prefix:       uploadPrefix,
		showProgress: showProgress,
	}

	if err := shrinkFiles(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, cfg); err != nil {
		os.Exit(1)
	}
}

// newOptions validates the encoding flags
func newOptions(format string, quality int) (shrink.Options, error) {
	opts := shrink.DefaultOptions()

	mode, err := shrink.ParseOutputMode(format)
	if err != nil {
		return opts, err
	}
	if quality < 1 || quality > 100 {
		return opts, fmt.Errorf("invalid JPEG quality %d (must be 1-100)", quality)
	}

	opts.OutputMode = mode
	opts.JPEGQuality = quality
	return opts, nil
}

// shrinkFiles runs one batch and prints its report to out.
// It returns nil when there is nothing to do and an error when the run must exit non-zero.
func shrinkFiles(ctx context.Context, in io.Reader, out, errOut io.Writer, paths []string, cfg runConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	files := shrink.RegularFiles(paths)
	if len(files) == 0 {
		fmt.Fprintln(out, "No files found")
		return nil
	}

	f := cfg.factor
	if !cfg.factorSet {
		f = promptFactor(in, errOut)
	}

	var tagger shrink.ExifTagger
	if cfg.opts.TagOriginalName && f.Validate() == nil {
		et, err := shrink.NewExiftool(cfg.opts.ExiftoolPath)
		if err != nil {
			logger.Error("Failed to initialise exiftool", "error", err)
			return err
		}
		defer et.Close()
		tagger = shrink.NewExifTagger(et)
	}

	var wg sync.WaitGroup
	if cfg.showProgress {
		progress := make(chan shrink.ProgressEvent, 100)
		cfg.opts.ProgressChan = progress
		wg.Add(1)
		go printProgress(progress, errOut, &wg)
		defer func() {
			close(progress)
			wg.Wait()
		}()
	}

	processor := shrink.NewBatchProcessor(shrink.NewDownscaler(cfg.opts), tagger, cfg.opts)
	report, err := processor.Process(files, f)
	switch {
	case errors.Is(err, shrink.ErrNoFactor):
		fmt.Fprintln(errOut, noFactorMessage)
		return err
	case errors.Is(err, shrink.ErrNoFiles):
		fmt.Fprintln(out, "No files found")
		return nil
	case err != nil:
		logger.Error("Shrink failed", "error", err)
		return err
	}

	fmt.Fprintln(out, report.String())
	if report.SuccessCount > 0 {
		logger.Info("Summary",
			"succeeded", report.SuccessCount,
			"failed", report.FailCount,
			"input_size", humanize.Bytes(uint64(report.InputBytes)),
			"output_size", humanize.Bytes(uint64(report.OutputBytes)))
	}

	if cfg.bucket == "" {
		return nil
	}
	uploader, err := shrink.NewS3Uploader(ctx)
	if err != nil {
		logger.Error("Failed to initialise upload", "error", err)
		return err
	}
	if err := uploader.Upload(ctx, report.Outputs, cfg.bucket, cfg.prefix); err != nil {
		logger.Error("Upload failed", "error", err)
		return err
	}
	return nil
}

// printProgress writes progress events until the channel is closed
func printProgress(progress <-chan shrink.ProgressEvent, w io.Writer, wg *sync.WaitGroup) {
	defer wg.Done()
	for event := range progress {
		fmt.Fprintf(w, "[%d/%d] %s: %s\n", event.Current, event.Total, event.Message, event.File)
	}
}

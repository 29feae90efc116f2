package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pyhub-apps/paperminer"
	"github.com/pyhub-apps/paperminer/pkg/config"
	"github.com/pyhub-apps/paperminer/pkg/metadata"
)

type flags struct {
	configFile string
	input      string
	output     string
	password   string
	techniques string
	samples    string
	tolerance  float64
	match      string
	workers    int
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          "paperminer",
		Short:        "Extract bibliographic metadata and images from a PDF paper",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cfg, cmd.OutOrStdout())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "YAML configuration file")
	fl.StringVarP(&f.input, "input", "i", "", "input PDF file")
	fl.StringVarP(&f.output, "output", "o", ".", "output folder for images and pdf_info.xls")
	fl.StringVar(&f.password, "password", "", "user password of an encrypted PDF")
	fl.StringVar(&f.techniques, "techniques", "", "line-delimited list of sequencing techniques")
	fl.StringVar(&f.samples, "samples", "", "line-delimited list of sample types")
	fl.Float64Var(&f.tolerance, "tolerance", 0.2, "relative bounding-box tolerance for column merging")
	fl.StringVar(&f.match, "match", "first", "bucket match policy: first or all")
	fl.IntVar(&f.workers, "workers", 1, "pages walked concurrently")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level")
	return cmd
}

// resolveConfig layers explicitly set flags over the loaded configuration
func resolveConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input = f.input
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("password") {
		cfg.Password = f.password
	}
	if changed("techniques") {
		cfg.TechniquesFile = f.techniques
	}
	if changed("samples") {
		cfg.SamplesFile = f.samples
	}
	if changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if changed("match") {
		cfg.MatchPolicy = f.match
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

func loadList(path string, logger logrus.FieldLogger) metadata.ReferenceList {
	list, err := metadata.LoadReferenceList(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("reference list unavailable")
		return nil
	}
	return list
}

// run extracts, prints and writes the record. A missing or locked PDF yields
// an empty record rather than an error.
func run(cfg *config.Config, stdout io.Writer) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	log := logger.WithField("input", cfg.Input)

	policy, _ := paperminer.ParseMatchPolicy(cfg.MatchPolicy)
	opts := []paperminer.Option{
		paperminer.WithPassword(cfg.Password),
		paperminer.WithTolerance(cfg.Tolerance),
		paperminer.WithMatchPolicy(policy),
		paperminer.WithWorkers(cfg.Workers),
		paperminer.WithLogger(log),
		paperminer.WithImageSink(func(img paperminer.ExtractedImage) {
			log.WithFields(logrus.Fields{
				"page":   img.PageNumber,
				"file":   img.Filename,
				"width":  img.Width,
				"height": img.Height,
			}).Debug("image saved")
		}),
	}

	var pageTexts, pageChars []string
	var outline []paperminer.OutlineEntry
	if result, ok := paperminer.ExtractPages(cfg.Input, cfg.Output, opts...); ok {
		pageTexts, pageChars, outline = result.PageTexts, result.PageChars, result.Outline
		log.WithField("pages", len(pageTexts)).Info("document extracted")
	} else {
		log.Warn("no text extracted; writing an empty record")
	}

	extractor := metadata.NewExtractor(
		loadList(cfg.TechniquesFile, log),
		loadList(cfg.SamplesFile, log),
		log,
	)
	record := extractor.Extract(outline, pageTexts, pageChars)

	if err := metadata.Print(stdout, record); err != nil {
		return err
	}

	out := filepath.Join(cfg.Output, metadata.OutputName)
	if err := metadata.WriteTSV(out, record); err != nil {
		log.WithError(err).Error("failed to write sheet")
		return nil
	}
	log.WithField("path", out).Info("sheet written")
	return nil
}

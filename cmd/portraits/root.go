package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phrazzld/specialist-portraits/internal/batch"
	"github.com/phrazzld/specialist-portraits/internal/config"
	"github.com/phrazzld/specialist-portraits/internal/generation"
	"github.com/phrazzld/specialist-portraits/internal/platform/imagen"
	"github.com/phrazzld/specialist-portraits/internal/platform/logger"
	"github.com/phrazzld/specialist-portraits/internal/prompt"
	"github.com/phrazzld/specialist-portraits/internal/store"
	"github.com/phrazzld/specialist-portraits/internal/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

// errMissingProject is returned after the guidance has been printed.
var errMissingProject = errors.New("google cloud project ID is required")

const missingProjectHelp = `Error: Google Cloud Project ID is required!
Set the GOOGLE_CLOUD_PROJECT environment variable or pass it as an argument:
  portraits YOUR_PROJECT_ID
`

// generatorFactory builds the image generator for a run.
type generatorFactory func(ctx context.Context, logger *slog.Logger, cfg config.ImagenConfig) (generation.ImageGenerator, error)

// app holds the process-level collaborators of the command.
type app struct {
	stdout       io.Writer
	stderr       io.Writer
	newGenerator generatorFactory
	sleeper      batch.Sleeper
}

func defaultApp() *app {
	return &app{
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		newGenerator: newImagenGenerator,
		sleeper:      batch.TimerSleeper{},
	}
}

// newRootCommand creates the portraits command.
func newRootCommand(a *app) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "portraits [PROJECT_ID]",
		Short: "Generate portraits for specialists that do not have one yet",
		Long: `portraits reads static/data/doctors.json under the program root, generates a
portrait with Vertex AI Imagen for every specialist whose image file does not
exist in static/Images, and writes the document back once with each record's
image path filled in.

The project is taken from GOOGLE_CLOUD_PROJECT, then from the PROJECT_ID
argument. Credentials come from Application Default Credentials unless
PORTRAITS_IMAGEN_ACCESS_TOKEN is set.

Re-running is safe: existing images are skipped. Running two instances against
the same images directory at the same time is not supported.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var projectArg string
			if len(args) > 0 {
				projectArg = args[0]
			}
			return a.run(cmd.Context(), config.LoadOptions{
				ConfigFile: configFile,
				Flags:      cmd.Flags(),
				ProjectArg: projectArg,
			})
		},
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "optional config file (YAML, JSON or TOML)")
	flags.String("location", config.DefaultLocation, "Vertex AI region")
	flags.String("model", config.DefaultModel, "Imagen model")
	flags.String("base-url", "", "override the prediction service base URL")
	flags.Int("batch-size", config.DefaultBatchSize, "records per batch before pausing")
	flags.Duration("delay", config.DefaultBatchDelay, "pause between batches")
	flags.String("root", "", "program root holding static/ (auto-detected when empty)")
	flags.String("data-file", config.DefaultDataFile, "specialist document, relative to the root")
	flags.String("images-dir", config.DefaultImagesDir, "images directory, relative to the root")
	flags.String("style-policy", "name_fragments", "appearance descriptor policy: name_fragments or neutral")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "json", "log format: json or text")

	return cmd
}

// run wires the components for one batch. Only configuration and setup
// errors are returned; batch failures are logged and reported.
func (a *app) run(ctx context.Context, opts config.LoadOptions) error {
	cfg, err := config.Load(opts)
	if err != nil {
		if config.IsMissingProject(err) {
			fmt.Fprint(a.stderr, missingProjectHelp)
			return errMissingProject
		}
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Log, a.stdout)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	root, err := workspace.FindRoot(cfg.Paths.Root, log)
	if err != nil {
		return fmt.Errorf("failed to resolve program root: %w", err)
	}
	dataFile := workspace.Resolve(root, cfg.Paths.DataFile)
	imagesDir := workspace.Resolve(root, cfg.Paths.ImagesDir)

	log.Info("Configuration loaded",
		"project_id", cfg.Imagen.ProjectID,
		"location", cfg.Imagen.Location,
		"model", cfg.Imagen.Model,
		"root", root,
		"data_file", dataFile,
		"images_dir", imagesDir)

	generator, err := a.newGenerator(ctx, log, cfg.Imagen)
	if err != nil {
		return fmt.Errorf("failed to create image client: %w", err)
	}

	images, err := store.NewImageStore(imagesDir, cfg.Paths.ImagePrefix)
	if err != nil {
		return fmt.Errorf("failed to prepare images directory: %w", err)
	}

	builder, err := prompt.NewBuilder(promptOptions(cfg.Prompt))
	if err != nil {
		return fmt.Errorf("failed to create prompt builder: %w", err)
	}

	orchestrator, err := batch.NewOrchestrator(
		store.NewJSONStore(dataFile, log),
		images,
		generator,
		builder,
		batch.Config{BatchSize: cfg.Batch.Size, Delay: cfg.Batch.Delay},
		log,
		batch.WithSleeper(a.sleeper),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	report := orchestrator.Run(ctx)

	log.Info("Image generation complete",
		"run_id", report.RunID.String(),
		"images_dir", images.Dir(),
		"interrupted", report.Interrupted)

	return nil
}

// promptOptions maps prompt configuration onto builder options.
func promptOptions(cfg config.PromptConfig) prompt.Options {
	opts := prompt.DefaultOptions()
	if cfg.QualitySuffix != "" {
		opts.QualitySuffix = cfg.QualitySuffix
	}
	if cfg.StylePolicy == "neutral" {
		opts.Style = prompt.NeutralPolicy{}
	}
	return opts
}

// newImagenGenerator builds the Imagen client with a static token when one
// is configured and Application Default Credentials otherwise.
func newImagenGenerator(ctx context.Context, log *slog.Logger, cfg config.ImagenConfig) (generation.ImageGenerator, error) {
	var tokens oauth2.TokenSource
	if cfg.AccessToken != "" {
		tokens = imagen.StaticTokenSource(cfg.AccessToken)
	} else {
		var err error
		tokens, err = imagen.DefaultTokenSource(ctx)
		if err != nil {
			return nil, err
		}
	}
	return imagen.NewClient(log, tokens, cfg)
}

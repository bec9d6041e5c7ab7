package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"heroimage/api/model"
	"heroimage/azure"
	"heroimage/config"
	"heroimage/converter"
	"heroimage/service"
	"heroimage/shared/log"
	"heroimage/shared/trace"
	"heroimage/storage"
	"io"
	"os"
	"os/signal"
	"path/filepath"
)

// ErrUsage marks errors caused by missing or malformed arguments.
var ErrUsage = errors.New("usage error")

type usageError struct {
	msg string
}

func (e usageError) Error() string        { return e.msg }
func (e usageError) Is(target error) bool { return target == ErrUsage }

type options struct {
	contentType model.ContentType
	slug        string
	size        string
	quality     model.Quality
	format      string
	width       int
	root        string
	upload      bool
	verbose     bool
}

// application holds what every subcommand needs once flags are parsed.
type application struct {
	cfg      *config.Config
	logger   *zap.Logger
	shutdown []func(context.Context) error
}

func (a *application) init(ctx context.Context, opts *options, stderr io.Writer) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if opts.root != "" {
		cfg.ContentRoot = opts.root
	}
	a.cfg = cfg

	logger, shutdownLogs := log.InitLogger(ctx, log.Options{
		Verbose: opts.verbose,
		OTLP:    cfg.OTLPEndpoint != "",
		Output:  zapcore.AddSync(stderr),
	})
	a.logger = logger
	a.shutdown = append(a.shutdown, shutdownLogs)

	shutdownTrace, err := trace.InitTrace(cfg, stderr)
	if err != nil {
		return err
	}
	a.shutdown = append(a.shutdown, shutdownTrace)

	return nil
}

func (a *application) close(ctx context.Context) {
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil && a.logger != nil {
			a.logger.Warn("Error during shutdown", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *application) publisher(opts *options) (service.Publisher, error) {
	if !opts.upload {
		return nil, nil
	}

	publisher, err := storage.NewS3Publisher(a.cfg.S3, a.logger)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

func newRootCmd(a *application) *cobra.Command {
	opts := &options{size: model.DefaultSize, quality: model.QualityHigh}

	root := &cobra.Command{
		Use:   "heroimage [flags] <prompt> [output]",
		Short: "Generate hero images using the Azure OpenAI image API",
		Long: `Generate an image from a prompt and save it as PNG, WEBP or JPEG.

The output format follows the file extension (.png, .webp, .jpg). With --type
and --slug the image is written to public/images/webp/{type}/{slug}.webp.`,
		Example: `  # Generate for a content type (tips, guides, news)
  heroimage --type news --slug "plant-science-november-2025" "Beautiful plant science collage"
  heroimage --type tips --slug "winter-care-guide" "Winter houseplant care illustration"

  # Generate to a custom path
  heroimage "a beautiful sunset over mountains" output.webp
  heroimage "your prompt" output.png --size 1024x1024 --quality medium`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return usageError{fmt.Sprintf("accepts at most 2 arguments, received %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), opts, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), a, opts, args)
		},
	}

	flags := root.Flags()
	flags.Var(&opts.contentType, "type", "Content type (tips, guides, or news). With --slug, writes to the content image directory")
	flags.StringVar(&opts.slug, "slug", "", "Content slug (URL-friendly name). Used with --type to build the output path")
	flags.StringVar(&opts.size, "size", model.DefaultSize, "Image size. Options: 1024x1024, 1792x1024, 1024x1792, 1536x1024")
	flags.Var(&opts.quality, "quality", "Image quality: low, medium, high, auto")
	flags.StringVar(&opts.format, "format", "", "Output format, overriding the file extension (png, webp, jpeg, gif, bmp, tiff, avif)")
	flags.IntVar(&opts.width, "width", 0, "Resize to this width before saving, keeping the aspect ratio (0 keeps the generated size)")

	persistent := root.PersistentFlags()
	persistent.StringVar(&opts.root, "root", "", "Content root holding public/images/webp (default: $CONTENT_ROOT or the working directory)")
	persistent.BoolVar(&opts.upload, "upload", false, "Also upload the image to S3")
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})

	root.AddCommand(newServeCmd(a, opts))

	return root
}

func runGenerate(ctx context.Context, a *application, opts *options, args []string) error {
	var prompt, output string
	if len(args) > 0 {
		prompt = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}

	params := service.GenerateParams{
		Request: model.GenerationRequest{Prompt: prompt, Size: opts.size, Quality: opts.quality},
		Width:   opts.width,
	}

	if !opts.contentType.IsZero() && opts.slug != "" {
		if prompt == "" {
			return usageError{"prompt is required"}
		}
		if opts.format != "" {
			return usageError{"--format cannot be combined with --type and --slug; content images are always webp"}
		}

		path, err := model.ContentPath(a.cfg.ContentRoot, opts.contentType, opts.slug)
		if err != nil {
			return usageError{err.Error()}
		}
		params.Output = path
		params.Key = model.ContentKey(opts.contentType, opts.slug)
		params.Format = converter.WEBP

		a.logger.Info(fmt.Sprintf("Generating %s hero image", opts.contentType),
			zap.String("slug", opts.slug),
			zap.String("output", path))
	} else {
		if prompt == "" || output == "" {
			return usageError{"Both prompt and output path are required (or use --type and --slug)"}
		}
		params.Output = output
		params.Key = filepath.Base(output)
	}

	if opts.format != "" {
		format, err := converter.MakeFromString(opts.format)
		if err != nil {
			return usageError{err.Error()}
		}
		params.Format = format
	}
	if opts.width < 0 {
		return usageError{"--width must not be negative"}
	}

	publisher, err := a.publisher(opts)
	if err != nil {
		return err
	}

	svc := service.NewImageService(azure.New(a.cfg, a.logger), converter.MustStrategy(a.logger), publisher, a.logger)

	_, err = svc.Generate(ctx, params)
	return err
}

// Execute runs the CLI. Errors have already been reported on stderr when it
// returns; the caller only decides the exit code.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &application{}
	return execute(ctx, newRootCmd(a), a)
}

func execute(ctx context.Context, root *cobra.Command, a *application) error {
	cmd, err := root.ExecuteContextC(ctx)
	a.close(context.Background())

	if err != nil {
		report(cmd, err)
	}
	return err
}

func report(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Error: %v\n", err)

	var apiErr *azure.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Details != nil {
			details, _ := json.Marshal(apiErr.Details)
			fmt.Fprintf(w, "Error details: %s\n", details)
		} else if apiErr.Body != "" {
			fmt.Fprintf(w, "Response text: %s\n", apiErr.Body)
		}
	}

	if errors.Is(err, ErrUsage) {
		fmt.Fprintln(w)
		fmt.Fprint(w, cmd.UsageString())
	}
}

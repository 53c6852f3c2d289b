package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yuanying/brandeck/internal/deck"
	"github.com/yuanying/brandeck/internal/outline"
	"github.com/yuanying/brandeck/internal/pptx"
	"github.com/yuanying/brandeck/internal/preview"
	"github.com/yuanying/brandeck/internal/watch"
)

const (
	envTemplate = "BRANDECK_TEMPLATE"
	envFooter   = "BRANDECK_FOOTER"

	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

var errTemplateRequired = fmt.Errorf("template is required (--template, deck file or %s)", envTemplate)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brandeck",
		Short: "Generate branded PowerPoint decks from a template",
		Long: `brandeck fills a corporate PowerPoint template with title, content,
image and table slides described in a YAML deck file or imported from an
HTML report.

Flag defaults for the template and footer are read from BRANDECK_TEMPLATE
and BRANDECK_FOOTER, which may be set in a .env file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", defaultLogFormat, "Log format: console or json")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")

	root.AddCommand(newBuildCmd(), newImportCmd(), newInitTemplateCmd())
	return root
}

type globalOptions struct {
	Logger *zap.Logger
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	level, _ := flags.GetString("log-level")
	format, _ := flags.GetString("log-format")
	verbose, _ := flags.GetBool("verbose")

	level = strings.ToLower(strings.TrimSpace(level))
	if _, err := zapcore.ParseLevel(level); err != nil || level == "dpanic" || level == "panic" || level == "fatal" {
		return globalOptions{}, fmt.Errorf("invalid --log-level %q: must be debug, info, warn or error", level)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "console" && format != "json" {
		return globalOptions{}, fmt.Errorf("invalid --log-format %q: must be console or json", format)
	}
	if verbose {
		level = "debug"
	}
	return globalOptions{Logger: buildLogger(cmd.ErrOrStderr(), level, format)}, nil
}

// buildLogger writes to w at level. An unknown level falls back to info.
func buildLogger(w io.Writer, level, format string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if strings.EqualFold(format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
}

func defaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".pptx"
}

// pick prefers an explicitly set flag, then the deck file, then the flag
// default.
func pick(explicit bool, flag, file string) string {
	if explicit || file == "" {
		return flag
	}
	return file
}

type buildOptions struct {
	DeckPath           string
	Template           string
	TemplateSet        bool
	Footer             string
	FooterSet          bool
	Output             string
	PreviewDir         string
	PreviewWidth       int
	Watch              bool
	MaxImageWidth      int
	KeepTemplateSlides bool
	Logger             *zap.Logger
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build DECK.yaml",
		Short: "Build a deck from a YAML deck file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readBuildOptions(cmd, args)
			if err != nil {
				return err
			}
			defer opts.Logger.Sync() //nolint:errcheck

			if !opts.Watch {
				return runBuild(opts)
			}
			return runWatch(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file path (default: deck file output or DECK.pptx)")
	cmd.Flags().StringP("template", "t", os.Getenv(envTemplate), "Template .pptx (overrides the deck file)")
	cmd.Flags().String("footer", os.Getenv(envFooter), "Footer text (overrides the deck file)")
	cmd.Flags().String("preview", "", "Render PNG previews of every slide into this directory")
	cmd.Flags().Int("preview-width", preview.DefaultWidth, "Preview width in pixels")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild when the deck file or template changes")
	cmd.Flags().Int("max-image-width", 0, "Downscale images wider than this many pixels (0 keeps originals)")
	cmd.Flags().Bool("keep-template-slides", false, "Keep the slides stored in the template")
	return cmd
}

func readBuildOptions(cmd *cobra.Command, args []string) (buildOptions, error) {
	global, err := readGlobalOptions(cmd)
	if err != nil {
		return buildOptions{}, err
	}
	flags := cmd.Flags()
	opts := buildOptions{DeckPath: args[0], Logger: global.Logger}
	opts.Template, _ = flags.GetString("template")
	opts.TemplateSet = flags.Changed("template")
	opts.Footer, _ = flags.GetString("footer")
	opts.FooterSet = flags.Changed("footer")
	opts.Output, _ = flags.GetString("output")
	opts.PreviewDir, _ = flags.GetString("preview")
	opts.PreviewWidth, _ = flags.GetInt("preview-width")
	opts.Watch, _ = flags.GetBool("watch")
	opts.MaxImageWidth, _ = flags.GetInt("max-image-width")
	opts.KeepTemplateSlides, _ = flags.GetBool("keep-template-slides")

	if opts.MaxImageWidth < 0 {
		return buildOptions{}, fmt.Errorf("invalid --max-image-width %d: must be >= 0", opts.MaxImageWidth)
	}
	if opts.PreviewWidth <= 0 {
		return buildOptions{}, fmt.Errorf("invalid --preview-width %d: must be > 0", opts.PreviewWidth)
	}
	if _, err := loadDeck(opts); err != nil {
		return buildOptions{}, err
	}
	return opts, nil
}

// loadDeck reads the deck file and applies the command line overrides.
func loadDeck(opts buildOptions) (*outline.Deck, error) {
	d, err := outline.LoadFile(opts.DeckPath)
	if err != nil {
		return nil, err
	}
	d.Template = pick(opts.TemplateSet, opts.Template, d.Template)
	d.Footer = pick(opts.FooterSet, opts.Footer, d.Footer)
	if opts.Output != "" {
		d.Output = opts.Output
	}
	if d.Template == "" {
		return nil, errTemplateRequired
	}
	return d, nil
}

func (o buildOptions) deckOptions() []deck.Option {
	opts := []deck.Option{
		deck.WithLogger(o.Logger),
		deck.WithMaxImageWidth(o.MaxImageWidth),
	}
	if o.KeepTemplateSlides {
		opts = append(opts, deck.WithKeepTemplateSlides())
	}
	return opts
}

func runBuild(opts buildOptions) error {
	d, err := loadDeck(opts)
	if err != nil {
		return err
	}
	opts.Logger.Info("building deck",
		zap.String("deck", opts.DeckPath),
		zap.String("template", d.Template),
		zap.Int("slides", len(d.Slides)))

	out, err := d.Build(opts.deckOptions()...)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	reportOutput(opts.Logger, out)

	if opts.PreviewDir != "" {
		if _, err := preview.Render(out, opts.PreviewDir, opts.PreviewWidth, opts.Logger); err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
	}
	return nil
}

func runWatch(ctx context.Context, opts buildOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := runBuild(opts); err != nil {
		opts.Logger.Error("initial build failed", zap.Error(err))
	}
	d, err := loadDeck(opts)
	if err != nil {
		return err
	}
	paths := []string{opts.DeckPath, d.Template}
	opts.Logger.Info("watching for changes", zap.Strings("paths", paths))

	return watch.Run(ctx, paths, watch.DefaultDebounce, func(context.Context) error {
		return runBuild(opts)
	}, watch.WithLogger(opts.Logger))
}

func reportOutput(logger *zap.Logger, path string) {
	fields := []zap.Field{zap.String("output", path)}
	if info, err := os.Stat(path); err == nil {
		fields = append(fields, zap.String("size", humanize.Bytes(uint64(info.Size()))))
	}
	logger.Info("done", fields...)
}

type importOptions struct {
	InputPath     string
	Template      string
	Footer        string
	Output        string
	AssetDir      string
	Logo          bool
	MaxImageWidth int
	Logger        *zap.Logger
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import REPORT.html",
		Short: "Build a deck from an HTML report or exported notebook",
		Long: `import reads an HTML report, for example a notebook exported with
nbconvert. The first h1 becomes the title slide and every h2 starts a new
slide. Embedded images are written to the asset directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readImportOptions(cmd, args)
			if err != nil {
				return err
			}
			defer opts.Logger.Sync() //nolint:errcheck
			return runImport(opts)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file path (default: input with .pptx extension)")
	cmd.Flags().StringP("template", "t", os.Getenv(envTemplate), "Template .pptx")
	cmd.Flags().String("footer", os.Getenv(envFooter), "Footer text")
	cmd.Flags().String("assets", "", "Directory for embedded images (default: OUTPUT_assets)")
	cmd.Flags().Bool("no-logo", false, "Do not close the deck with a logo slide")
	cmd.Flags().Int("max-image-width", 0, "Downscale images wider than this many pixels (0 keeps originals)")
	return cmd
}

func readImportOptions(cmd *cobra.Command, args []string) (importOptions, error) {
	global, err := readGlobalOptions(cmd)
	if err != nil {
		return importOptions{}, err
	}
	flags := cmd.Flags()
	opts := importOptions{InputPath: args[0], Logger: global.Logger}
	opts.Template, _ = flags.GetString("template")
	opts.Footer, _ = flags.GetString("footer")
	opts.Output, _ = flags.GetString("output")
	opts.AssetDir, _ = flags.GetString("assets")
	noLogo, _ := flags.GetBool("no-logo")
	opts.Logo = !noLogo
	opts.MaxImageWidth, _ = flags.GetInt("max-image-width")

	if opts.Template == "" {
		return importOptions{}, errTemplateRequired
	}
	if opts.MaxImageWidth < 0 {
		return importOptions{}, fmt.Errorf("invalid --max-image-width %d: must be >= 0", opts.MaxImageWidth)
	}
	if opts.Output == "" {
		opts.Output = defaultOutputPath(opts.InputPath)
	}
	if opts.AssetDir == "" {
		opts.AssetDir = strings.TrimSuffix(opts.Output, filepath.Ext(opts.Output)) + "_assets"
	}
	return opts, nil
}

func runImport(opts importOptions) error {
	f, err := os.Open(opts.InputPath)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	defs, err := outline.FromHTML(f, outline.HTMLOptions{
		BaseDir:  filepath.Dir(opts.InputPath),
		AssetDir: opts.AssetDir,
		Bookends: opts.Logo,
		Logger:   opts.Logger,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	opts.Logger.Info("imported report", zap.String("input", opts.InputPath), zap.Int("slides", len(defs)))

	out, err := deck.Build(opts.Template, defs, opts.Output, opts.Footer,
		deck.WithLogger(opts.Logger), deck.WithMaxImageWidth(opts.MaxImageWidth))
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	reportOutput(opts.Logger, out)
	return nil
}

func newInitTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-template OUT.pptx",
		Short: "Write a starter template with the expected layouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			global, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			defer global.Logger.Sync() //nolint:errcheck

			force, _ := cmd.Flags().GetBool("force")
			var opts pptx.BlankTemplateOptions
			opts.LogoText, _ = cmd.Flags().GetString("logo-text")
			opts.DarkColor, _ = cmd.Flags().GetString("dark-color")
			opts.Font, _ = cmd.Flags().GetString("font")
			return runInitTemplate(args[0], opts, force, global.Logger)
		},
	}
	cmd.Flags().String("logo-text", "", "Text shown on the closing slide layout")
	cmd.Flags().String("dark-color", "", "Background of the title and closing layouts (RRGGBB)")
	cmd.Flags().String("font", "", "Theme font")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func runInitTemplate(path string, opts pptx.BlankTemplateOptions, force bool, logger *zap.Logger) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := pptx.WriteBlankTemplate(&buf, opts); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	reportOutput(logger, path)
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

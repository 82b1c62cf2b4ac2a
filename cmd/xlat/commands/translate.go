package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/xlat/config"
	"github.com/teranos/xlat/display"
	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
	"github.com/teranos/xlat/plugin"
	"github.com/teranos/xlat/progress"
	"github.com/teranos/xlat/sink"
	"github.com/teranos/xlat/symbols"
	"github.com/teranos/xlat/translators"
)

var (
	translateInterest  string
	translatePlatforms []string
	translateTypes     []string
	translateJSON      bool
	translateWatch     bool
	translateDryRun    bool
)

// TranslateCmd runs a translation configuration
var TranslateCmd = &cobra.Command{
	Use:   "translate <config>",
	Short: "Run a translation configuration",
	Long: `Translate the source assembly named by a configuration document.

The document may be TOML, YAML or JSON. Flags override the matching
document fields; XLAT_* environment variables override both.

Examples:
  xlat translate project.toml                     # Translate every platform
  xlat translate project.toml -p web -p win       # Only web and win
  xlat translate project.toml --type A.B          # Only one kind
  xlat translate project.toml --dry-run           # List the files without writing
  xlat translate project.toml --json              # Progress as JSON lines
  xlat translate project.toml --watch             # Re-translate on change`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	TranslateCmd.Flags().StringVar(&translateInterest, "interest", "", "Events to report: None, Doing, Done, All, Errors")
	TranslateCmd.Flags().StringSliceVarP(&translatePlatforms, "platform", "p", nil, "Target platforms (default: from config)")
	TranslateCmd.Flags().StringSliceVarP(&translateTypes, "type", "t", nil, "Full names of kinds to translate (default: all)")
	TranslateCmd.Flags().BoolVarP(&translateJSON, "json", "j", false, "Emit progress as JSON lines")
	TranslateCmd.Flags().BoolVarP(&translateWatch, "watch", "w", false, "Re-translate when the config, source or descriptor changes")
	TranslateCmd.Flags().BoolVar(&translateDryRun, "dry-run", false, "Simulate output requests in memory")
}

// translateOptions carries the per-invocation output choices.
type translateOptions struct {
	Verbosity int
	JSON      bool
	DryRun    bool
	Out       io.Writer
}

// outcome is what one translation produced.
type outcome struct {
	Result  *engine.Result
	Summary progress.Summary
	Files   []string
	Loaded  *plugin.Loaded
}

func runTranslate(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	opts := translateOptions{
		Verbosity: verbosity,
		JSON:      display.ShouldOutputJSON(cmd),
		DryRun:    translateDryRun,
		Out:       cmd.OutOrStdout(),
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !translateWatch {
		_, err := translateDocument(ctx, doc, opts)
		return err
	}
	return watchDocument(ctx, args[0], doc, opts)
}

// loadDocument loads and validates a configuration, applying flag overrides.
func loadDocument(path string) (*config.Document, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyOverrides(doc)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func applyOverrides(doc *config.Document) {
	if translateInterest != "" {
		doc.Interest = translateInterest
	}
	if len(translatePlatforms) > 0 {
		doc.TargetPlatforms = translatePlatforms
	}
	if len(translateTypes) > 0 {
		doc.TargetTypes = translateTypes
	}
}

// translateDocument runs one translation of doc.
func translateDocument(ctx context.Context, doc *config.Document, opts translateOptions) (*outcome, error) {
	log := logger.ComponentLogger("translate")

	settings, err := doc.Settings()
	if err != nil {
		return nil, errors.WrapDescriptor(err, "invalid interest")
	}

	if err := translators.Register(plugin.DefaultRegistry()); err != nil {
		return nil, errors.Mark(err, errors.ErrLoad)
	}
	loaded, err := plugin.NewLoader().Load(doc.PluginPath(), settings)
	if err != nil {
		return nil, err
	}

	reader := metadata.NewDocumentReader()
	var bundleOpts []model.Option
	if doc.NamesakeAssembly != "" {
		bundleOpts = append(bundleOpts, model.WithNamesake(doc.NamesakePath()))
	}
	bundle, err := model.Open(doc.SourcePath(), reader, bundleOpts...)
	if err != nil {
		return nil, err
	}

	var emitter progress.Emitter = progress.NewCLIEmitter(opts.Verbosity)
	if opts.JSON {
		emitter = progress.NewJSONEmitter(opts.Out)
	}
	plog := progress.NewLog(emitter)

	var (
		target engine.RequestSink
		memory *sink.Memory
	)
	if opts.DryRun {
		memory = sink.NewMemory()
		target = memory
	} else {
		dir, err := sink.NewDirectory(doc.OutputPath())
		if err != nil {
			return nil, err
		}
		target = dir
	}
	dispatcher := sink.NewDispatcher(target, plog.Diagnostic, logger.ComponentLogger("sink"))

	resolver := symbols.NewAssemblyResolver(reader,
		symbols.WithSearchDirs(filepath.Dir(doc.SourcePath())),
		symbols.WithResolverLogger(logger.ComponentLogger("symbols")))
	resolver.Register(bundle.Assembly)

	eng := engine.New(loaded.Translator, dispatcher, settings,
		engine.WithAssemblyResolver(resolver),
		engine.WithLogger(logger.ComponentLogger("engine")))
	plog.Attach(eng)

	log.Infow("Translating",
		logger.FieldAssembly, bundle.Name(),
		logger.FieldPlugin, loaded.Descriptor.Title(),
		"static", loaded.Static)

	res, runErr := eng.TranslateBundle(ctx, bundle)
	out := &outcome{Result: res, Summary: plog.Complete(res), Loaded: loaded}

	if memory != nil {
		out.Files = memory.Files()
		if !opts.JSON {
			for _, f := range out.Files {
				pterm.Info.Println("would write " + filepath.Join(doc.OutputPath(), f))
			}
		}
	}

	if runErr != nil {
		return out, runErr
	}
	if res.State == engine.Failed {
		return out, errors.Mark(errors.Newf("translation failed: %d node(s) failed", res.Failed), errors.ErrTranslation)
	}
	if res.Failed > 0 {
		return out, errors.Mark(errors.Newf("translation completed with %d failed node(s)", res.Failed), errors.ErrTranslation)
	}
	return out, nil
}

// watchDocument translates doc, then again whenever the configuration,
// the source assembly or the descriptor changes, until ctx is done.
func watchDocument(ctx context.Context, path string, doc *config.Document, opts translateOptions) error {
	if _, err := translateDocument(ctx, doc, opts); err != nil {
		pterm.Error.Println(err.Error())
	}

	w, err := config.NewWatcher(path, doc.SourcePath(), doc.PluginPath())
	if err != nil {
		return err
	}
	defer w.Stop()

	w.OnReload(func(next *config.Document) error {
		applyOverrides(next)
		if err := next.Validate(); err != nil {
			return err
		}
		_, err := translateDocument(ctx, next, opts)
		return err
	})
	w.Start()

	pterm.Info.Println("Watching " + path + " (Ctrl+C to stop)")
	<-ctx.Done()
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	stylesextractor "github.com/sprywebtech/breakdance-styles-extractor"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/browser"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/fetch"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = stylesextractor.Version

var (
	outputFile    string
	outDir        string
	report        bool
	useBrowser    bool
	chromePath    string
	viewportWidth int
	timeout       time.Duration
	userAgent     string
	concurrency   int
	configFile    string
	debug         bool
	logJSON       bool
	saveSnapshot  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "breakdance-extractor [inputs...]",
		Short: "Extract Breakdance global settings from a web page",
		Long: "A tool to extract colors, typography and button styling from the computed styles of a web page " +
			"and write them as a Breakdance global settings JSON file. Inputs are URLs, HTML files, " +
			"snapshot JSON files, glob patterns or - for stdin.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFile, "output", "o", stylesextractor.DefaultOutput, "Output JSON file (single input)")
	flags.StringVar(&outDir, "out-dir", "", "Output directory; each input is written as <name>-"+stylesextractor.DefaultOutput)
	flags.BoolVar(&report, "report", false, "Also write a markdown report next to the JSON file")
	flags.BoolVar(&useBrowser, "browser", false, "Render pages in headless Chrome instead of the static CSS engine")
	flags.StringVar(&chromePath, "chrome-path", "", "Chrome executable (default: search PATH)")
	flags.IntVar(&viewportWidth, "viewport-width", 1280, "Viewport width used for media queries and rendering")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout per request or page capture")
	flags.StringVar(&userAgent, "user-agent", fetch.DefaultUserAgent, "User agent sent with requests")
	flags.IntVar(&concurrency, "concurrency", 4, "Inputs processed at once in batch mode")
	flags.StringVar(&configFile, "config", "", "YAML configuration file")
	flags.BoolVar(&debug, "debug", false, "Log internals to stderr")
	flags.BoolVar(&logJSON, "log-json", false, "Log progress as JSON instead of colored text")
	flags.BoolVar(&saveSnapshot, "save-snapshot", false, "Keep the browser capture as <output>.snapshot.json")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("breakdance-extractor version %s\n", version)
		},
	}

	captureCmd := &cobra.Command{
		Use:   "capture <url-or-file>",
		Short: "Capture a page's computed styles in headless Chrome and save them as a snapshot",
		Long: "Capture renders a page in headless Chrome and writes the document together with the computed " +
			"style of every element. The snapshot can be extracted later without a browser.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCapture,
	}

	rootCmd.AddCommand(versionCmd, captureCmd)
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	opts, patterns, err := buildOptions(cmd, args)
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no input given; pass a URL, a file or - for stdin")
	}

	inputs, err := stylesextractor.ExpandInputs(patterns)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !logJSON {
		cyan.Println("\n🎨 Breakdance Styles Extractor")
		cyan.Println("==============================")
		cyan.Println()
	}

	var results []*stylesextractor.Result
	if len(inputs) == 1 && opts.OutDir == "" {
		opts.Input = inputs[0]
		res, err := stylesextractor.Run(ctx, opts)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		opts.Logger.Infof("Processing %d input(s), %d at a time...", len(inputs), opts.Concurrency)
		results, err = stylesextractor.RunBatch(ctx, opts, inputs)
		if err != nil {
			return err
		}
	}

	if logJSON {
		return nil
	}

	for _, res := range results {
		printSummary(res)
	}
	green.Printf("\n✨ Successfully extracted %d settings file(s)\n\n", len(results))
	return nil
}

func runCapture(cmd *cobra.Command, args []string) error {
	green := color.New(color.FgGreen)

	opts, _, err := buildOptions(cmd, nil)
	if err != nil {
		return err
	}

	target := args[0]
	if !fetch.IsRemote(target) {
		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("open page: %w", err)
		}
		target = "file://" + filepath.ToSlash(abs)
	}

	out := "snapshot.json"
	if cmd.Flags().Changed("output") {
		out = outputFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts.Logger.Infof("Rendering %s in headless Chrome...", args[0])
	snap, err := browser.Capture(ctx, target, browser.Options{
		ExecPath:      opts.ChromePath,
		ViewportWidth: opts.ViewportWidth,
		UserAgent:     opts.UserAgent,
		Timeout:       opts.Timeout,
		Logger:        opts.ZapLogger,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := snap.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	green.Printf("✓ Captured %d element(s) to %s\n", len(snap.Styles), out)
	return nil
}

// buildOptions merges the configuration file with the command line. Flags
// that were set explicitly win over the file.
func buildOptions(cmd *cobra.Command, args []string) (stylesextractor.Options, []string, error) {
	var (
		opts   stylesextractor.Options
		inputs = args
	)

	if configFile != "" {
		cfg, err := stylesextractor.LoadConfig(configFile)
		if err != nil {
			return opts, nil, err
		}
		opts = cfg.Options()
		if len(inputs) == 0 {
			inputs = cfg.Inputs
		}
	}

	flags := cmd.Flags()
	set := func(name string) bool {
		return flags.Changed(name) || configFile == ""
	}
	if set("output") {
		opts.Output = outputFile
	}
	if set("out-dir") {
		opts.OutDir = outDir
	}
	if set("report") {
		opts.Report = report
	}
	if set("browser") {
		opts.Browser = useBrowser
	}
	if set("chrome-path") {
		opts.ChromePath = chromePath
	}
	if set("viewport-width") || opts.ViewportWidth == 0 {
		opts.ViewportWidth = viewportWidth
	}
	if set("timeout") || opts.Timeout == 0 {
		opts.Timeout = timeout
	}
	if set("user-agent") || opts.UserAgent == "" {
		opts.UserAgent = userAgent
	}
	if set("concurrency") || opts.Concurrency == 0 {
		opts.Concurrency = concurrency
	}
	if set("save-snapshot") {
		opts.SaveSnapshot = saveSnapshot
	}
	if opts.Output == "" {
		opts.Output = stylesextractor.DefaultOutput
	}

	zlog, err := newZapLogger()
	if err != nil {
		return opts, nil, err
	}
	opts.ZapLogger = zlog

	if logJSON {
		prod, err := zap.NewProduction()
		if err != nil {
			return opts, nil, fmt.Errorf("create logger: %w", err)
		}
		opts.Logger = prod.Sugar()
	} else {
		opts.Logger = &cliLogger{}
	}

	return opts, inputs, nil
}

// newZapLogger returns the logger for the internals: a development logger
// on stderr with --debug, otherwise a no-op.
func newZapLogger() (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("create debug logger: %w", err)
	}
	return log, nil
}

func printSummary(res *stylesextractor.Result) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	s := res.Settings.Settings
	cyan.Printf("\n📊 %s\n", res.Input)
	fmt.Printf("  • Colors: brand %s, text %s, headings %s, links %s\n",
		s.Colors.Brand, s.Colors.Text, s.Colors.Headings, s.Colors.Links)
	if n := len(s.Colors.Palette.Colors); n > 0 {
		fmt.Printf("  • Palette: %d additional color(s)\n", n)
	}
	fmt.Printf("  • Fonts: heading %s, body %s\n", s.Typography.HeadingFont, s.Typography.BodyFont)
	fmt.Printf("  • Base Size: %s\n", s.Typography.BaseSize.Base.Style)
	fmt.Printf("  • Button: %s background\n", s.Buttons.Primary.Background)

	if res.OutputPath != "" {
		green.Printf("  💾 %s ✓\n", res.OutputPath)
	}
}

// cliLogger implements stylesextractor.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}

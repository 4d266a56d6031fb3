package stylesextractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/browser"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/extractor"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/fetch"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/formatter"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/htmldoc"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/schema"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/snapshot"
)

// Version is the release of the extractor.
const Version = "1.0.0"

// DefaultOutput is the file name the settings are written to when no output
// is configured.
const DefaultOutput = "breakdance-global-settings.json"

const defaultConcurrency = 4

// Options configures the extraction.
type Options struct {
	Input  string    // URL, HTML file, snapshot .json file or "-" for stdin
	Stdin  io.Reader // read when Input is "-"; nil = os.Stdin
	Output string    // settings JSON path; empty = do not write
	OutDir string    // batch runs write OutputName(input) here
	Report bool      // render the markdown report (written next to Output)

	Browser       bool   // render the page in headless Chrome
	ChromePath    string // Chrome binary; empty searches the usual locations
	ViewportWidth int    // 0 = 1280
	Timeout       time.Duration
	UserAgent     string
	SaveSnapshot  bool // keep the browser capture next to Output

	Concurrency int // batch inputs processed at once; 0 = 4

	// PaletteSuffix replaces the random palette id suffix, for reproducible
	// output.
	PaletteSuffix func() string
	// Client downloads pages and stylesheets. nil creates one per run;
	// RunBatch shares one client across its inputs.
	Client *fetch.Client

	ZapLogger *zap.Logger // debug logging of the internals; nil = none
	Logger    Logger      // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the extraction output of one input.
type Result struct {
	Input      string
	Settings   *schema.ExtractionResult
	JSON       []byte             // encoded settings
	Markdown   string             // set when Options.Report is true
	Snapshot   *snapshot.Snapshot // set for browser captures
	OutputPath string             // set when the JSON was written
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) defaults() {
	if o.ZapLogger == nil {
		o.ZapLogger = zap.NewNop()
	}
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = htmldoc.DefaultViewportWidth
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.Client == nil {
		o.Client = fetch.NewClient(fetch.Options{
			UserAgent: o.UserAgent,
			Timeout:   o.Timeout,
			Logger:    o.ZapLogger,
		})
	}
}

// Run executes the extraction pipeline for opts.Input and returns the
// result. The settings JSON is written to opts.Output when it is set.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.defaults()
	if opts.Input == "" {
		return nil, fmt.Errorf("no input given")
	}

	opts.logInfo("Loading %s...", displayName(opts.Input))
	doc, snap, err := load(ctx, &opts)
	if err != nil {
		return nil, err
	}
	opts.logInfo("Found %d element(s)", len(doc.Elements()))

	if snap != nil && opts.SaveSnapshot {
		if err := saveSnapshot(&opts, snap); err != nil {
			return nil, err
		}
	}

	opts.logInfo("Extracting global settings...")
	settings := extractor.Extract(doc,
		extractor.WithLogger(opts.ZapLogger),
		extractor.WithSuffixFunc(opts.PaletteSuffix),
	)

	data, err := schema.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	res := &Result{
		Input:    opts.Input,
		Settings: settings,
		JSON:     data,
		Snapshot: snap,
	}

	if opts.Report {
		opts.logInfo("Generating markdown report...")
		res.Markdown = formatter.ToMarkdown(settings, displayName(opts.Input))
	}

	if opts.Output != "" {
		if err := writeFile(opts.Output, data); err != nil {
			return nil, err
		}
		res.OutputPath = opts.Output

		if opts.Report {
			if err := writeFile(reportPath(opts.Output), []byte(res.Markdown)); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}

// RunBatch runs the pipeline for every input, at most opts.Concurrency at a
// time, sharing one HTTP client and its cache. Each result is written to
// OutDir under OutputName(input), numbered when several inputs share a
// name. The first failure cancels the remaining inputs. Results are in input
// order.
func RunBatch(ctx context.Context, opts Options, inputs []string) ([]*Result, error) {
	opts.defaults()

	names := outputNames(inputs)
	results := make([]*Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, input := range inputs {
		i, input := i, input
		in := opts
		in.Input = input
		in.Output = filepath.Join(opts.OutDir, names[i])

		g.Go(func() error {
			res, err := Run(ctx, in)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// load turns the input into a styled document. Browser captures also
// return their snapshot.
func load(ctx context.Context, opts *Options) (dom.Document, *snapshot.Snapshot, error) {
	input := opts.Input

	if opts.Browser {
		return capture(ctx, opts)
	}

	switch {
	case input == "-":
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		doc, err := htmldoc.Load(ctx, r, htmldoc.Options{
			ViewportWidth: opts.ViewportWidth,
			Fetcher:       opts.Client,
			Logger:        opts.ZapLogger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("load stdin: %w", err)
		}
		return doc, nil, nil

	case fetch.IsRemote(input):
		resp, err := opts.Client.Do(ctx, input)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch page: %w", err)
		}
		doc, err := htmldoc.Load(ctx, bytes.NewReader(resp.Body), htmldoc.Options{
			BaseURL:       resp.URL,
			ContentType:   resp.ContentType,
			ViewportWidth: opts.ViewportWidth,
			Fetcher:       opts.Client,
			Logger:        opts.ZapLogger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", input, err)
		}
		return doc, nil, nil

	case isSnapshotFile(input):
		f, err := os.Open(input)
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()

		snap, err := snapshot.Decode(f)
		if err != nil {
			return nil, nil, fmt.Errorf("read snapshot %s: %w", input, err)
		}
		doc, err := snap.Document()
		if err != nil {
			return nil, nil, fmt.Errorf("read snapshot %s: %w", input, err)
		}
		return doc, nil, nil

	default:
		f, err := os.Open(input)
		if err != nil {
			return nil, nil, fmt.Errorf("open page: %w", err)
		}
		defer f.Close()

		base, err := fileURL(input)
		if err != nil {
			return nil, nil, err
		}
		doc, err := htmldoc.Load(ctx, f, htmldoc.Options{
			BaseURL:       base,
			ViewportWidth: opts.ViewportWidth,
			Fetcher:       &localGetter{remote: opts.Client},
			Logger:        opts.ZapLogger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", input, err)
		}
		return doc, nil, nil
	}
}

func capture(ctx context.Context, opts *Options) (dom.Document, *snapshot.Snapshot, error) {
	target := opts.Input
	if target == "-" || isSnapshotFile(target) {
		return nil, nil, fmt.Errorf("browser capture needs a URL or an HTML file, got %q", target)
	}
	if !fetch.IsRemote(target) {
		if _, err := os.Stat(target); err != nil {
			return nil, nil, fmt.Errorf("open page: %w", err)
		}
		u, err := fileURL(target)
		if err != nil {
			return nil, nil, err
		}
		target = u
	}

	opts.logInfo("Rendering in headless Chrome...")
	snap, err := browser.Capture(ctx, target, browser.Options{
		ExecPath:      opts.ChromePath,
		ViewportWidth: opts.ViewportWidth,
		UserAgent:     opts.UserAgent,
		Timeout:       opts.Timeout,
		Logger:        opts.ZapLogger,
	})
	if err != nil {
		return nil, nil, err
	}
	doc, err := snap.Document()
	if err != nil {
		return nil, nil, fmt.Errorf("read capture: %w", err)
	}
	return doc, snap, nil
}

func saveSnapshot(opts *Options, snap *snapshot.Snapshot) error {
	if opts.Output == "" {
		opts.logWarn("No output path, snapshot not saved")
		return nil
	}
	var buf bytes.Buffer
	if err := snap.Encode(&buf); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	path := strings.TrimSuffix(opts.Output, filepath.Ext(opts.Output)) + ".snapshot.json"
	if err := writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	opts.logInfo("Saved snapshot to %s", path)
	return nil
}

// reportPath is the markdown file written next to the settings JSON.
func reportPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".md"
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func displayName(input string) string {
	if input == "-" {
		return "stdin"
	}
	return input
}

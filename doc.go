// Package stylesextractor extracts Breakdance global settings (colors,
// typography and button styling) from the computed styles of a web page.
//
// The CLI lives in cmd/breakdance-extractor; this root package exposes the
// same pipeline as a Go API so that callers can embed extraction in their
// own tools without shelling out.
//
// # Import
//
// The module path contains hyphens but Go package names cannot, so the
// package is named stylesextractor:
//
//	import "github.com/sprywebtech/breakdance-styles-extractor" // package stylesextractor
//
// # Quick start
//
//	result, err := stylesextractor.Run(ctx, stylesextractor.Options{
//	    Input:  "https://example.com",
//	    Output: "breakdance-global-settings.json",
//	    Report: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Markdown)
//
// # Inputs
//
// An input is an http(s) URL, a local HTML file, "-" for standard input or
// a snapshot JSON file written by the capture command. HTML is styled by a
// static cascade (package htmldoc) unless [Options.Browser] is set, in which
// case the page is rendered by headless Chrome and its real computed styles
// are used.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output. A *zap.SugaredLogger satisfies
// the interface. Library internals log at debug level to [Options.ZapLogger].
package stylesextractor

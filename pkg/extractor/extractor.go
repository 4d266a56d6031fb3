// Package extractor turns the computed styles of a rendered document into
// page-builder global settings: semantic colors, typography and button
// styling.
//
// Every function in this package is total. Missing or malformed style values
// degrade to documented defaults instead of returning errors, so extraction
// of a well-formed document cannot fail.
package extractor

import (
	"go.uber.org/zap"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/schema"
)

// Extractor holds the pluggable parts of an extraction run. The zero value is
// not usable; call New.
type Extractor struct {
	log       *zap.Logger
	newSuffix func() string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the debug logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log.Named("extractor")
		}
	}
}

// WithSuffixFunc replaces the random palette suffix generator, which is
// useful for reproducible output.
func WithSuffixFunc(fn func() string) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.newSuffix = fn
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		log:       zap.NewNop(),
		newSuffix: RandomSuffix,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the color, button and typography extractors against doc and
// assembles the global-settings document.
func (e *Extractor) Extract(doc dom.Document) *schema.ExtractionResult {
	colors := e.ExtractColors(doc)
	buttons := e.ExtractButtons(doc)
	typography := e.ExtractTypography(doc)

	return &schema.ExtractionResult{
		Settings: schema.Settings{
			Colors:     colors,
			Buttons:    buttons,
			Typography: typography,
		},
	}
}

// Extract is shorthand for New(opts...).Extract(doc).
func Extract(doc dom.Document, opts ...Option) *schema.ExtractionResult {
	return New(opts...).Extract(doc)
}

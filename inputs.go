package stylesextractor

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gosimple/slug"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/fetch"
)

// ExpandInputs expands glob patterns ("pages/**/*.html") into the matching
// files. URLs, "-" and plain paths are kept as given. Duplicates are dropped
// and the first occurrence wins.
func ExpandInputs(patterns []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, p := range patterns {
		if p == "-" || fetch.IsRemote(p) || !strings.ContainsAny(p, "*?[{") {
			add(p)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return nil, fmt.Errorf("invalid input pattern: %s", p)
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s", p)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

// OutputName returns the file name batch runs write the settings of input
// to: "<slug>-breakdance-global-settings.json", where the slug comes from
// the URL host and path or the file name.
func OutputName(input string) string {
	var name string
	switch {
	case input == "-":
		name = "stdin"
	case fetch.IsRemote(input):
		u, _ := url.Parse(input)
		name = u.Hostname() + " " + strings.ReplaceAll(u.Path, "/", " ")
	default:
		base := filepath.Base(input)
		name = strings.TrimSuffix(base, filepath.Ext(base))
		name = strings.TrimSuffix(name, ".snapshot")
	}

	s := slug.Make(name)
	if s == "" {
		s = "page"
	}
	return s + "-" + DefaultOutput
}

// outputNames returns the OutputName of every input. Repeated names are
// numbered ("index-2-breakdance-global-settings.json") so that no two inputs
// write the same file.
func outputNames(inputs []string) []string {
	names := make([]string, len(inputs))
	used := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		name := OutputName(input)
		stem := strings.TrimSuffix(name, "-"+DefaultOutput)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d-%s", stem, n, DefaultOutput)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func isSnapshotFile(input string) bool {
	return strings.EqualFold(filepath.Ext(input), ".json")
}

// fileURL returns the file:// URL of a local path.
func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}

// localGetter serves stylesheets linked from a local page: file URLs from
// disk, everything else through the HTTP client.
type localGetter struct {
	remote fetch.Getter
}

func (g *localGetter) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid stylesheet URL %q: %w", rawURL, err)
	}
	if u.Scheme != "file" {
		return g.remote.Get(ctx, rawURL)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return data, nil
}

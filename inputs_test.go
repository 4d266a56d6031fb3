package stylesextractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.html", "a.html", "nested/c.html", "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<p>x</p>"), 0o644))
	}

	got, err := ExpandInputs([]string{
		"https://example.com/*",
		filepath.Join(dir, "**", "*.html"),
		filepath.Join(dir, "a.html"),
		"-",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/*",
		filepath.Join(dir, "a.html"),
		filepath.Join(dir, "b.html"),
		filepath.Join(dir, "nested", "c.html"),
		"-",
	}, got)

	_, err = ExpandInputs([]string{filepath.Join(dir, "*.css")})
	assert.Error(t, err, "a pattern without matches is an error")

	_, err = ExpandInputs([]string{filepath.Join(dir, "[a.html")})
	assert.Error(t, err, "invalid pattern")
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com", "example-com-breakdance-global-settings.json"},
		{"https://www.example.com/blog/post/", "www-example-com-blog-post-breakdance-global-settings.json"},
		{"site/Landing Page.html", "landing-page-breakdance-global-settings.json"},
		{"captures/home.snapshot.json", "home-breakdance-global-settings.json"},
		{"-", "stdin-breakdance-global-settings.json"},
		{"???.html", "page-breakdance-global-settings.json"},
	}

	for _, tt := range tests {
		if got := OutputName(tt.input); got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLocalGetter(t *testing.T) {
	path := writeTemp(t, "site.css", "body { color: red }")
	u, err := fileURL(path)
	require.NoError(t, err)

	g := &localGetter{}
	data, err := g.Get(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "body { color: red }", string(data))

	_, err = g.Get(context.Background(), u+".missing")
	assert.Error(t, err)
}

func TestOutputNamesAreUnique(t *testing.T) {
	got := outputNames([]string{
		"a/index.html",
		"b/index.html",
		"https://example.com/?page=1",
		"https://example.com/?page=2",
		"c/index.html",
	})
	want := []string{
		"index-breakdance-global-settings.json",
		"index-2-breakdance-global-settings.json",
		"example-com-breakdance-global-settings.json",
		"example-com-2-breakdance-global-settings.json",
		"index-3-breakdance-global-settings.json",
	}
	assert.Equal(t, want, got)
}

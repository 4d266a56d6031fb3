package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
)

func TestCaptureScript(t *testing.T) {
	script, err := captureScript([]string{"color", "font-size"})
	require.NoError(t, err)

	assert.Contains(t, script, `const props = ["color","font-size"];`)
	assert.Contains(t, script, `el.setAttribute("data-bde-index", String(i));`)
	assert.True(t, strings.HasPrefix(script, "(() => {"))
	assert.True(t, strings.HasSuffix(script, "})()"))
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.defaults()

	assert.Equal(t, 1280, o.ViewportWidth)
	assert.Equal(t, 800, o.ViewportHeight)
	assert.Equal(t, time.Minute, o.Timeout)
	assert.NotNil(t, o.Logger)

	o = Options{ViewportWidth: 390, Timeout: time.Second}
	o.defaults()
	assert.Equal(t, 390, o.ViewportWidth)
	assert.Equal(t, time.Second, o.Timeout)
}

// chromePath finds a local Chrome for the capture test.
func chromePath() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

func TestCaptureLivePage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	path := chromePath()
	if path == "" {
		t.Skip("Chrome not found; set CHROME_PATH to run")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!doctype html><html><head><style>
body { color: rgb(78, 74, 88) } h1 { font-size: 40px }
</style></head><body><h1>Title</h1></body></html>`)
	}))
	defer srv.Close()

	snap, err := Capture(context.Background(), srv.URL, Options{ExecPath: path, Timeout: 30 * time.Second})
	require.NoError(t, err)

	doc, err := snap.Document()
	require.NoError(t, err)

	body := doc.ComputedStyle(doc.Body())
	assert.Equal(t, "rgb(78, 74, 88)", body.Get("color"))
	for _, prop := range dom.Properties {
		assert.Contains(t, body, prop)
	}

	h1 := doc.QuerySelector("h1")
	require.NotNil(t, h1)
	assert.Equal(t, "40px", doc.ComputedStyle(h1).Get("font-size"))
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handbook "github.com/alnah/go-handbook"
	"github.com/alnah/go-handbook/internal/assets"
	"github.com/alnah/go-handbook/internal/config"
	"github.com/alnah/go-handbook/internal/logging"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func newTestServer(t *testing.T, root string, cfg *config.Config) *httptest.Server {
	t.Helper()

	pool, err := handbook.NewRendererPool(2, handbook.WithSubMaxLevel(cfg.SubMaxLevel))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	srv, err := New(root, cfg, pool, logging.Discard())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) // #nosec G107 -- test server URL
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func sampleHandbook(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "README.md", "# Golang\n\nWelcome.\n")
	writeFile(t, root, "_sidebar.md", "- [Home](README.md)\n- [Intro](guide/intro.md)\n- [Types](guide/types.md)\n")
	writeFile(t, root, "guide/intro.md", "# Intro\n\n## Install\n\n### Linux\n")
	writeFile(t, root, "guide/types.md", "# Types\n")
	writeFile(t, root, "img/logo.txt", "logo")
	return root
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, t.TempDir(), config.DefaultConfig())

	code, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"healthy"}`, body)
}

func TestServer_Page(t *testing.T) {
	ts := newTestServer(t, sampleHandbook(t), config.DefaultConfig())

	code, body := get(t, ts.URL+"/guide/intro")
	require.Equal(t, http.StatusOK, code)

	// Headings shifted down one level.
	assert.Contains(t, body, `<h2 id="intro">Intro</h2>`)
	assert.Contains(t, body, `<h3 id="install">Install</h3>`)
	assert.NotContains(t, body, `<h1 id="intro">`)

	// Site chrome from config.
	assert.Contains(t, body, "Golang 学习手册")
	assert.Contains(t, body, "https://github.com/askfiy/golang-handbook.git")

	// Shared sidebar through the alias, and pagination labels.
	assert.Contains(t, body, `href="guide/types.md"`)
	assert.Contains(t, body, `href="/README.md">上一章节</a>`)
	assert.Contains(t, body, `href="/guide/types.md">下一章节</a>`)

	// Page outline keeps the real title.
	assert.Contains(t, body, `<a class="section-link" href="#intro">Intro</a>`)
}

func TestServer_Index(t *testing.T) {
	ts := newTestServer(t, sampleHandbook(t), config.DefaultConfig())

	code, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `<h2 id="golang">Golang</h2>`)
	assert.Contains(t, body, "<title>Golang - Golang 学习手册</title>")
}

func TestServer_NoSidebar(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LoadSidebar = false
	ts := newTestServer(t, sampleHandbook(t), cfg)

	code, body := get(t, ts.URL+"/guide/intro.md")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body, "下一章节")
	assert.NotContains(t, body, `href="guide/types.md"`)
}

func TestServer_Errors(t *testing.T) {
	ts := newTestServer(t, sampleHandbook(t), config.DefaultConfig())

	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing page", "/guide/missing.md", http.StatusNotFound},
		{"missing asset", "/img/none.png", http.StatusNotFound},
		{"outline of missing page", "/_sidebar.json?path=/nope.md", http.StatusNotFound},
		{"traversal in outline path", "/_sidebar.json?path=/../secret.md", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := get(t, ts.URL+tt.path)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestServer_Asset(t *testing.T) {
	ts := newTestServer(t, sampleHandbook(t), config.DefaultConfig())

	code, body := get(t, ts.URL+"/img/logo.txt")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "logo", body)
}

func TestServer_OutlineJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SubMaxLevel = 2
	ts := newTestServer(t, sampleHandbook(t), cfg)

	code, body := get(t, ts.URL+"/_sidebar.json?path=guide/intro.md")
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Path    string `json:"path"`
		Title   string `json:"title"`
		Outline []struct {
			Level int    `json:"level"`
			ID    string `json:"id"`
			Text  string `json:"text"`
		} `json:"outline"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, "/guide/intro.md", resp.Path)
	assert.Equal(t, "Intro", resp.Title)
	require.Len(t, resp.Outline, 2)
	assert.Equal(t, 1, resp.Outline[0].Level)
	assert.Equal(t, "Intro", resp.Outline[0].Text)
	assert.Equal(t, "install", resp.Outline[1].ID)
}

func TestServer_CacheInvalidate(t *testing.T) {
	root := sampleHandbook(t)
	cfg := config.DefaultConfig()

	pool, err := handbook.NewRendererPool(1)
	require.NoError(t, err)
	defer pool.Close()

	srv, err := New(root, cfg, pool, logging.Discard())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, body := get(t, ts.URL+"/guide/types.md")
	assert.Contains(t, body, ">Types</h2>")

	writeFile(t, root, "guide/types.md", "# Kinds\n")
	_, body = get(t, ts.URL+"/guide/types.md")
	assert.Contains(t, body, ">Types</h2>", "served from cache before invalidation")

	srv.Invalidate([]string{filepath.Join(root, "guide", "types.md")})
	_, body = get(t, ts.URL+"/guide/types.md")
	assert.Contains(t, body, ">Kinds</h2>")
}

func TestServer_InvalidateDuringRender(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "README.md", "# Home\n")

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	gate := func(h *handbook.Hooks) {
		h.BeforeEach(func(content string) string {
			once.Do(func() {
				close(started)
				<-release
			})
			return content
		})
	}

	pool, err := handbook.NewRendererPool(1, handbook.WithPlugins(gate))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	srv, err := New(root, config.DefaultConfig(), pool, logging.Discard())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := srv.page(context.Background(), "/README.md")
		done <- err
	}()

	<-started
	srv.Invalidate([]string{filepath.Join(root, "README.md")})
	close(release)
	require.NoError(t, <-done)

	srv.mu.RLock()
	_, cached := srv.cache["/README.md"]
	srv.mu.RUnlock()
	assert.False(t, cached, "page rendered across an invalidation must not be cached")

	_, err = srv.page(context.Background(), "/README.md")
	require.NoError(t, err)

	srv.mu.RLock()
	_, cached = srv.cache["/README.md"]
	srv.mu.RUnlock()
	assert.True(t, cached, "next render is cached again")
}

func TestResolveRoute(t *testing.T) {
	srv, err := New(t.TempDir(), config.DefaultConfig(), nil, logging.Discard())
	require.NoError(t, err)

	tests := map[string]string{
		"":                   "/README.md",
		"/":                  "/README.md",
		"/guide/":            "/guide/README.md",
		"/guide/intro":       "/guide/intro.md",
		"guide/intro.md":     "/guide/intro.md",
		"/guide/_sidebar.md": "/_sidebar.md",
		"/img/logo.png":      "/img/logo.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, srv.resolveRoute(in), in)
	}
}

func TestNormalizeHref(t *testing.T) {
	assert.Equal(t, "/guide/intro.md", normalizeHref("guide/intro.md"))
	assert.Equal(t, "/guide/intro.md", normalizeHref("./guide/intro.md"))
	assert.Equal(t, "/a.md", normalizeHref("/a.md#top"))
	assert.True(t, strings.HasPrefix(normalizeHref("x?y=1"), "/x"))
}

func TestServer_Theme(t *testing.T) {
	themes := t.TempDir()
	writeFile(t, themes, "themes/house.css", ".markdown-section { color: teal; }")

	cfg := config.DefaultConfig()
	cfg.Theme = "house"
	cfg.ThemeDir = themes
	ts := newTestServer(t, sampleHandbook(t), cfg)

	code, body := get(t, ts.URL+"/guide/intro")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<style>.markdown-section { color: teal; }</style>")
}

func TestNew_UnknownTheme(t *testing.T) {
	pool, err := handbook.NewRendererPool(1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	cfg := config.DefaultConfig()
	cfg.Theme = "neon"

	_, err = New(t.TempDir(), cfg, pool, logging.Discard())
	assert.ErrorIs(t, err, assets.ErrThemeNotFound)
}

func TestWritePage_EscapesTitle(t *testing.T) {
	var buf strings.Builder
	err := WritePage(&buf, PageData{SiteName: "Site", Title: "<b>x</b>"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<title>&lt;b&gt;x&lt;/b&gt; - Site</title>")
	assert.NotContains(t, buf.String(), "<style>")
}

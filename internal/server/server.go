// Package server serves a handbook directory as rendered HTML pages for
// local preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	handbook "github.com/alnah/go-handbook"
	"github.com/alnah/go-handbook/internal/assets"
	"github.com/alnah/go-handbook/internal/config"
	"github.com/alnah/go-handbook/internal/fileutil"
	"github.com/alnah/go-handbook/internal/pipeline"
)

// Sentinel errors for page lookup.
var (
	ErrPageNotFound   = errors.New("page not found")
	ErrPoolClosed     = errors.New("renderer pool closed")
	ErrInvalidRequest = errors.New("invalid request path")
)

// Route conventions of the handbook layout.
const (
	IndexPage   = "README.md"
	SidebarPage = "_sidebar.md"
)

// Server renders handbook pages on request and caches the results until
// Invalidate is called.
type Server struct {
	root    string
	cfg     *config.Config
	pool    *handbook.RendererPool
	aliases *handbook.AliasTable
	logger  *slog.Logger
	router  *chi.Mux
	style   string

	mu    sync.RWMutex
	cache map[string]*handbook.Page
	gen   uint64 // bumped by Invalidate
}

// New creates a Server for the handbook under root.
func New(root string, cfg *config.Config, pool *handbook.RendererPool, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	aliases, err := handbook.NewAliasTable(cfg.Alias)
	if err != nil {
		return nil, err
	}

	style, err := assets.LoadTheme(cfg.ThemeDir, cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}

	s := &Server{
		root:    root,
		cfg:     cfg,
		pool:    pool,
		aliases: aliases,
		logger:  logger,
		router:  chi.NewRouter(),
		style:   style,
		cache:   make(map[string]*handbook.Page),
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures middleware and routes.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/_sidebar.json", s.handleOutline)
	s.router.Get("/*", s.handlePage)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("preview server listening", "addr", addr, "root", s.root)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Invalidate drops cached pages. Any change may affect the shared sidebar,
// so the whole cache is cleared.
func (s *Server) Invalidate(paths []string) {
	s.mu.Lock()
	n := len(s.cache)
	s.cache = make(map[string]*handbook.Page)
	s.gen++
	s.mu.Unlock()

	s.logger.Info("content changed; cache cleared", "files", len(paths), "pages", n)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// outlineResponse is the JSON form of a page outline.
type outlineResponse struct {
	Path    string                  `json:"path"`
	Title   string                  `json:"title"`
	Outline []handbook.OutlineEntry `json:"outline"`
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	route := s.resolveRoute(r.URL.Query().Get("path"))
	page, err := s.page(r.Context(), route)
	if err != nil {
		s.writeError(w, err)
		return
	}

	outline := page.Outline
	if outline == nil {
		outline = []handbook.OutlineEntry{}
	}
	writeJSON(w, http.StatusOK, outlineResponse{Path: route, Title: page.Title, Outline: outline})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	route := s.resolveRoute(r.URL.Path)

	if !fileutil.IsMarkdown(route) {
		s.serveAsset(w, r, route)
		return
	}

	page, err := s.page(r.Context(), route)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := PageData{
		SiteName: s.cfg.Name,
		Repo:     s.cfg.Repo,
		Title:    page.Title,
		Style:    template.CSS(s.style), // #nosec G203 -- theme files are trusted site assets
		// #nosec G203 -- goldmark renders without raw HTML, outline text is escaped
		Content: template.HTML(page.HTML),
		Outline: template.HTML(page.SidebarHTML()),
		Sidebar: template.HTML(s.sidebarHTML(r, route)),
	}
	data.Prev, data.Next = s.pagination(r.Context(), route)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := WritePage(w, data); err != nil {
		s.logger.Warn("page template failed", "path", route, "error", err)
	}
}

// serveAsset serves non-page files such as images from the handbook root.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, route string) {
	file, err := fileutil.SafeJoin(s.root, route)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	if !fileutil.FileExists(file) || fileutil.IsHidden(file) {
		s.writeError(w, fmt.Errorf("%w: %s", ErrPageNotFound, route))
		return
	}
	http.ServeFile(w, r, file)
}

// resolveRoute maps a request path to a page route: directories get
// README.md, extension-less paths get .md, then aliases apply.
func (s *Server) resolveRoute(p string) string {
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	switch {
	case strings.HasSuffix(p, "/"):
		p += IndexPage
	case path.Ext(p) == "":
		p += fileutil.MarkdownExt
	}
	return s.aliases.Resolve(p)
}

// page renders route, serving repeated requests from the cache.
func (s *Server) page(ctx context.Context, route string) (*handbook.Page, error) {
	s.mu.RLock()
	cached, ok := s.cache[route]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	file, err := fileutil.SafeJoin(s.root, route)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	content, err := os.ReadFile(file) // #nosec G304 -- confined to root by SafeJoin
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPageNotFound, route)
		}
		return nil, fmt.Errorf("reading %s: %w", route, err)
	}

	r := s.pool.Acquire()
	if r == nil {
		return nil, ErrPoolClosed
	}
	defer s.pool.Release(r)

	page, err := r.Render(ctx, handbook.Input{Path: route, Markdown: string(content)})
	if errors.Is(err, handbook.ErrEmptyMarkdown) {
		page, err = &handbook.Page{Path: route}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", route, err)
	}

	// A page rendered across an Invalidate may be stale; serve it once
	// without caching.
	s.mu.Lock()
	if s.gen == gen {
		s.cache[route] = page
	}
	s.mu.Unlock()
	return page, nil
}

// sidebarRoute returns the aliased _sidebar.md route for a page.
func (s *Server) sidebarRoute(route string) string {
	return s.aliases.Resolve(path.Join(path.Dir(route), SidebarPage))
}

// sidebarHTML renders the sidebar file for route when loadSidebar is set.
// A missing sidebar is not an error; the page outline is shown alone.
func (s *Server) sidebarHTML(r *http.Request, route string) string {
	if !s.cfg.LoadSidebar {
		return ""
	}
	sidebar, err := s.page(r.Context(), s.sidebarRoute(route))
	if err != nil {
		if !errors.Is(err, ErrPageNotFound) {
			s.logger.Warn("sidebar render failed", "path", route, "error", err)
		}
		return ""
	}
	return sidebar.HTML
}

// pagination finds the neighbours of route in sidebar link order.
func (s *Server) pagination(ctx context.Context, route string) (prev, next *PageLink) {
	if !s.cfg.LoadSidebar {
		return nil, nil
	}
	sidebar, err := s.page(ctx, s.sidebarRoute(route))
	if err != nil {
		return nil, nil
	}

	var links []string
	for _, href := range pipeline.ExtractLinks(sidebar.HTML) {
		if !fileutil.IsURL(href) {
			links = append(links, href)
		}
	}
	for i, href := range links {
		if s.resolveRoute(normalizeHref(href)) != route {
			continue
		}
		if i > 0 {
			prev = &PageLink{Label: s.cfg.Pagination.PreviousText, Href: normalizeHref(links[i-1])}
		}
		if i < len(links)-1 {
			next = &PageLink{Label: s.cfg.Pagination.NextText, Href: normalizeHref(links[i+1])}
		}
		return prev, next
	}
	return nil, nil
}

// normalizeHref turns sidebar hrefs ("guide/intro.md", "./x.md") into
// root-relative routes.
func normalizeHref(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimPrefix(href, "./")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return href
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrPageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, ErrPoolClosed):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Package web provides an HTTP server for ledger reports.
//
// The server loads a ledger snapshot and serves its views as JSON: a table
// of contents, the balance sheet, opening balances, income statement,
// trial balance, journals, conversions and positions of every scope.
// Views are built on first request and cached for the lifetime of the
// snapshot. With watching enabled, the snapshot is rebuilt whenever the
// root file or one of its includes changes.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/beanreport/ledger"
	"github.com/robinvdvleuten/beanreport/loader"
	"github.com/robinvdvleuten/beanreport/telemetry"
	"github.com/robinvdvleuten/beanreport/view"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	WatchEnabled bool

	// PreloadLimit builds every view of a freshly loaded snapshot in the
	// background, that many at a time. Zero builds views on demand only.
	PreloadLimit int

	mu   sync.RWMutex
	snap *snapshot

	// reloadErr is the error of the last failed reload. The previous
	// snapshot keeps being served while it is set.
	reloadErr error

	// inputFile is the file path passed to New(), used only for loading.
	// After loading, the snapshot holds the resolved absolute path.
	inputFile string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

// snapshot is an immutable loaded ledger with its views.
type snapshot struct {
	ledger   *ledger.Ledger
	views    *view.Views
	root     string
	includes []string
	loadedAt time.Time
}

func New(port int, ledgerFile string) *Server {
	return NewWithVersion(port, ledgerFile, "", "")
}

func NewWithVersion(port int, ledgerFile, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		inputFile:  ledgerFile,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the ledger and serves it until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	// Require ledger file
	if s.inputFile == "" {
		timer.End()
		return fmt.Errorf("ledger file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load_ledger %s", filepath.Base(s.inputFile)))
	if err := s.reloadLedger(telemetry.WithTimer(ctx, loadTimer)); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	loadTimer.End()

	// Start file watcher if enabled
	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	router := s.setupRouter()
	setupTimer.End()
	timer.End()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shut down server: %v", err)
		}
	}()

	log.Printf("Serving %s on http://%s", filepath.Base(s.inputFile), srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// current returns the snapshot being served.
func (s *Server) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// reloadLedger loads or reloads the ledger from disk and replaces the
// snapshot. On failure the previous snapshot stays in place and is marked
// stale. Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reloadLedger(ctx context.Context) error {
	snap, err := loadSnapshot(ctx, s.inputFile)

	s.mu.Lock()
	s.reloadErr = err
	if err == nil {
		s.snap = snap
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if s.PreloadLimit > 0 {
		go func() {
			if err := snap.views.Preload(context.WithoutCancel(ctx), s.PreloadLimit); err != nil {
				log.Printf("Failed to preload views: %v", err)
			}
		}()
	}
	return nil
}

func loadSnapshot(ctx context.Context, filename string) (*snapshot, error) {
	ldr := loader.New(loader.WithFollowIncludes())

	result, err := ldr.Load(ctx, filename)
	if err != nil {
		return nil, err // I/O or decode error
	}

	l := ledger.New()
	if err := l.Process(ctx, result.Entries, result.Options); err != nil {
		var verr *ledger.ValidationErrors
		if !errors.As(err, &verr) {
			return nil, err
		}
		// Validation errors in l.Errors()
	}

	views, err := view.NewViews(l.Entries(), l.Config())
	if err != nil {
		return nil, err
	}

	return &snapshot{
		ledger:   l,
		views:    views,
		root:     result.Root,
		includes: result.Includes,
		loadedAt: time.Now(),
	}, nil
}

// watchedFiles returns the root file and every include of the snapshot.
func (s *Server) watchedFiles() []string {
	snap := s.current()
	if snap == nil {
		return nil
	}
	return append([]string{snap.root}, snap.includes...)
}

// startWatcher starts a file watcher for the root file and all includes.
// It reloads the ledger and broadcasts SSE events when files change.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, file := range s.watchedFiles() {
		if err := watcher.Add(file); err != nil {
			log.Printf("Warning: failed to watch %s: %v", file, err)
		}
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove/Rename are common in atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// handleFileChange reloads the ledger and updates the watch list.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	oldFiles := make(map[string]bool)
	for _, f := range s.watchedFiles() {
		oldFiles[f] = true
	}

	if err := s.reloadLedger(ctx); err != nil {
		log.Printf("Failed to reload ledger, serving stale snapshot: %v", err)
		// Keep watching, a later save may fix the ledger.
		for f := range oldFiles {
			_ = watcher.Add(f)
		}
		s.broadcast("stale")
		return
	}

	newFiles := make(map[string]bool)
	for _, f := range s.watchedFiles() {
		newFiles[f] = true
	}

	// Remove watches for files no longer included
	for file := range oldFiles {
		if !newFiles[file] {
			_ = watcher.Remove(file)
		}
	}

	// Re-add to catch re-created files
	for file := range newFiles {
		if err := watcher.Add(file); err != nil {
			log.Printf("Warning: failed to watch %s: %v", file, err)
		}
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}

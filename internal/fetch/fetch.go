package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"nhanescli/internal/registry"
)

// Download outcome values recorded in the log. Analyses gate cycles on
// StatusSuccess, so the strings are part of the log contract.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// LogEntry records the outcome of one file retrieval.
type LogEntry struct {
	Cycle    string
	Label    string
	Filename string
	Status   string
}

// Fetcher retrieves archive files into a local data directory. Retrieval is
// concurrent but paced: the archive is a shared public service.
type Fetcher struct {
	client      *http.Client
	dataDir     string
	limiter     *rate.Limiter
	concurrency int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client, used by tests to point at a local
// server.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithRateLimit sets the request pacing. The default is two requests per
// second.
func WithRateLimit(l *rate.Limiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithConcurrency bounds the number of in-flight downloads.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// New creates a fetcher writing into dataDir.
func New(dataDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 5 * time.Minute},
		dataDir:     dataDir,
		limiter:     rate.NewLimiter(rate.Limit(2), 1),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll downloads every registered file for every cycle and returns one
// log entry per file, ordered by cycle then label. A failed file is recorded
// and skipped; only a cancelled context aborts the run.
func (f *Fetcher) FetchAll(ctx context.Context) ([]LogEntry, error) {
	if err := os.MkdirAll(f.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	type job struct {
		cycle    registry.Cycle
		label    string
		filename string
		url      string
	}
	var jobs []job
	for _, cycle := range registry.Cycles() {
		files, ok := registry.Files(cycle)
		if !ok {
			continue
		}
		base, ok := registry.BaseURL(cycle)
		if !ok {
			continue
		}
		labeled := files.Labeled()
		labels := make([]string, 0, len(labeled))
		for label := range labeled {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			jobs = append(jobs, job{
				cycle:    cycle,
				label:    label,
				filename: labeled[label],
				url:      base + labeled[label],
			})
		}
	}

	entries := make([]LogEntry, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			status, err := f.fetchOne(gctx, j.url, j.filename)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("download failed",
					slog.String("cycle", string(j.cycle)),
					slog.String("file", j.filename),
					slog.Any("error", err))
			} else {
				slog.Info("downloaded",
					slog.String("cycle", string(j.cycle)),
					slog.String("label", j.label),
					slog.String("file", j.filename))
			}
			entries[i] = LogEntry{
				Cycle:    string(j.cycle),
				Label:    j.label,
				Filename: j.filename,
				Status:   status,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// fetchOne downloads a single file, returning the log status alongside the
// cause when the status is not success.
func (f *Fetcher) fetchOne(ctx context.Context, url, filename string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return StatusError, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusError, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return StatusError, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StatusFailed, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	dest := filepath.Join(f.dataDir, filename)
	out, err := os.Create(dest)
	if err != nil {
		return StatusError, fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return StatusError, fmt.Errorf("write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return StatusError, fmt.Errorf("close %s: %w", dest, err)
	}
	return StatusSuccess, nil
}

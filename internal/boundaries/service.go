package boundaries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ymatsuda/toukei/pkg/storage"
)

type service struct {
	http        *http.Client
	contentsURL string
	storage     storage.System
	logger      *slog.Logger
}

// New creates the boundary system over blob storage.
func New(cfg *Config, store storage.System, logger *slog.Logger) System {
	return &service{
		http:        &http.Client{Timeout: cfg.TimeoutDuration()},
		contentsURL: strings.TrimSuffix(cfg.ContentsURL, "/"),
		storage:     store,
		logger:      logger.With("system", "boundaries"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Municipalities(ctx context.Context, prefCode string) (*FeatureCollection, error) {
	pref, err := normalizePrefCode(prefCode)
	if err != nil {
		return nil, err
	}

	key := cacheKey(pref)

	if cached, err := s.fromCache(ctx, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("boundary cache read failed", "key", key, "error", err)
	}

	fc, err := s.assemble(ctx, pref)
	if err != nil {
		return nil, err
	}

	s.cache(ctx, key, fc)

	return fc, nil
}

func (s *service) fromCache(ctx context.Context, key string) (*FeatureCollection, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var fc FeatureCollection
	if err := json.NewDecoder(reader).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode cached boundaries %s: %w", key, err)
	}

	return &fc, nil
}

// cache writes the assembled collection back to blob storage. A failed write
// only costs a re-assembly on the next request, so it is logged and ignored.
func (s *service) cache(ctx context.Context, key string, fc *FeatureCollection) {
	data, err := json.Marshal(fc)
	if err != nil {
		s.logger.Warn("boundary cache encode failed", "key", key, "error", err)
		return
	}

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), "application/geo+json"); err != nil {
		s.logger.Warn("boundary cache write failed", "key", key, "error", err)
		return
	}

	s.logger.Info("boundary cache written", "key", key, "features", len(fc.Features))
}

// assemble lists the prefecture's boundary files and fetches them
// concurrently. Individual file failures are tolerated; the prefecture fails
// only when nothing could be fetched.
func (s *service) assemble(ctx context.Context, pref string) (*FeatureCollection, error) {
	entries, err := s.listFiles(ctx, pref)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBoundaries, pref)
	}

	var (
		mu       sync.Mutex
		features []json.RawMessage
		failed   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency(len(entries)))

	for _, entry := range entries {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			fetched, err := s.fetchFeatures(gctx, entry.DownloadURL)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failed++
				s.logger.Warn("boundary file fetch failed", "file", entry.Name, "error", err)
				return nil
			}

			features = append(features, fetched...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return nil, fmt.Errorf("%w: %s (%d files failed)", ErrNoBoundaries, pref, failed)
	}

	s.logger.Info(
		"boundaries assembled",
		"prefecture", pref,
		"files", len(entries),
		"failed", failed,
		"features", len(features),
	)

	return &FeatureCollection{Type: "FeatureCollection", Features: features}, nil
}

type contentEntry struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

func (s *service) listFiles(ctx context.Context, pref string) ([]contentEntry, error) {
	// Source directories are named without the leading zero.
	dir := strconv.Itoa(mustAtoi(pref))

	url := fmt.Sprintf("%s/%s", s.contentsURL, dir)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list boundary files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNoBoundaries, pref)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list boundary files: status %d", resp.StatusCode)
	}

	var entries []contentEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode file listing: %w", err)
	}

	files := make([]contentEntry, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name, ".json") && e.DownloadURL != "" {
			files = append(files, e)
		}
	}

	return files, nil
}

// fetchFeatures downloads one boundary file. Files hold either a full
// FeatureCollection or a single bare feature.
func (s *service) fetchFeatures(ctx context.Context, url string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err == nil && fc.Type == "FeatureCollection" {
		return fc.Features, nil
	}

	return []json.RawMessage{json.RawMessage(data)}, nil
}

func cacheKey(pref string) string {
	return fmt.Sprintf("geojson/municipality/%s.json", pref)
}

func normalizePrefCode(code string) (string, error) {
	if code == "" || len(code) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrefCode, code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPrefCode, code)
		}
	}
	if len(code) == 1 {
		code = "0" + code
	}
	return code, nil
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func fetchConcurrency(fileCount int) int {
	return max(min(runtime.NumCPU()*2, fileCount), 1)
}

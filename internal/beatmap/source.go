// Package beatmap exposes beatmap metadata through a narrow interface.
// The catalog itself (upstream fetching, .osu files) lives outside this
// server; the core only needs enough metadata for match chat and scrims.
package beatmap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Beatmap is the metadata slice the Bancho core consumes.
type Beatmap struct {
	ID          int32
	SetID       int32
	MD5         string
	Artist      string
	Title       string
	Version     string
	TotalLength int32 // seconds
	Mode        uint8
}

// FullName renders "Artist - Title [Version]".
func (b *Beatmap) FullName() string {
	return fmt.Sprintf("%s - %s [%s]", b.Artist, b.Title, b.Version)
}

// Source resolves beatmaps by id or md5.
type Source interface {
	ByID(ctx context.Context, id int32) (*Beatmap, error)
	ByMD5(ctx context.Context, md5 string) (*Beatmap, error)
}

// HTTPSource queries the catalog service's JSON API.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source against the catalog at baseURL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 6 * time.Second},
	}
}

// ByID resolves a beatmap by its id.
func (s *HTTPSource) ByID(ctx context.Context, id int32) (*Beatmap, error) {
	return s.fetch(ctx, fmt.Sprintf("%s/api/v1/beatmaps?id=%d", s.baseURL, id))
}

// ByMD5 resolves a beatmap by its file md5.
func (s *HTTPSource) ByMD5(ctx context.Context, md5 string) (*Beatmap, error) {
	return s.fetch(ctx, fmt.Sprintf("%s/api/v1/beatmaps?md5=%s", s.baseURL, md5))
}

func (s *HTTPSource) fetch(ctx context.Context, url string) (*Beatmap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building beatmap request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying beatmap catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("beatmap catalog: status %d", resp.StatusCode)
	}

	var bm Beatmap
	if err := json.NewDecoder(resp.Body).Decode(&bm); err != nil {
		return nil, fmt.Errorf("decoding beatmap response: %w", err)
	}
	return &bm, nil
}

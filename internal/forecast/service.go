package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const snapshotFile = "dejabrew_latest_forecast.json"

var ErrNoForecast = errors.New("no forecast available")

// Fetcher pulls the demand forecast from the store.
type Fetcher interface {
	Forecast(ctx context.Context, days int) (json.RawMessage, error)
}

// Service serves the demand forecast for the dashboard. The document is
// opaque to the terminal; on a successful fetch it is snapshotted to disk
// so the dashboard still has numbers when the store is unreachable.
type Service struct {
	fetcher Fetcher
	path    string

	mu   sync.RWMutex
	last json.RawMessage
}

func NewService(fetcher Fetcher, dir string) *Service {
	return &Service{
		fetcher: fetcher,
		path:    filepath.Join(dir, snapshotFile),
	}
}

// Latest fetches a fresh forecast, falling back to the last snapshot when
// the store cannot be reached. The stale bool tells the caller which one
// it got.
func (s *Service) Latest(ctx context.Context, days int) (json.RawMessage, bool, error) {
	raw, err := s.fetcher.Forecast(ctx, days)
	if err == nil {
		s.mu.Lock()
		s.last = raw
		s.mu.Unlock()

		if werr := os.WriteFile(s.path, raw, 0644); werr != nil {
			log.Printf("⚠️ could not snapshot forecast: %v", werr)
		}
		return raw, false, nil
	}

	log.Printf("⚠️ forecast fetch failed, serving last snapshot: %v", err)

	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		return last, true, nil
	}

	cached, rerr := os.ReadFile(s.path)
	if rerr != nil {
		return nil, false, ErrNoForecast
	}
	if !json.Valid(cached) {
		return nil, false, ErrNoForecast
	}
	return cached, true, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/pkg/cache"
	pkghttp "FinSignal/pkg/http"
	applogger "FinSignal/pkg/logger"
)

// HTTPPositionSource reads open positions from the exchange gateway.
// The gateway answers GET <url> with {"positions": [...]}.
type HTTPPositionSource struct {
	client *pkghttp.Client
	url    string
}

func NewHTTPPositionSource(client *pkghttp.Client, url string) *HTTPPositionSource {
	return &HTTPPositionSource{client: client, url: url}
}

type positionsResponse struct {
	Positions []models.Position `json:"positions"`
}

func (s *HTTPPositionSource) OpenPositions(ctx context.Context) ([]models.Position, error) {
	var resp positionsResponse
	err := s.client.GetJSON(ctx, s.url, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	out := make([]models.Position, 0, len(resp.Positions))
	for _, p := range resp.Positions {
		if p.Instrument == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

const positionsKey = "open"

// CachedPositionProvider is a read-through cache in front of a PositionProvider.
// Cache failures fall back to the source.
type CachedPositionProvider struct {
	source domrepo.PositionProvider
	cache  *cache.Typed[[]models.Position]
	l      *applogger.Logger
}

func NewCachedPositionProvider(source domrepo.PositionProvider, store cache.Store, ttl time.Duration, l *applogger.Logger) *CachedPositionProvider {
	if l == nil {
		l = applogger.NewNop()
	}
	return &CachedPositionProvider{
		source: source,
		cache:  cache.NewTyped[[]models.Position](store, "positions", ttl),
		l:      l,
	}
}

func (p *CachedPositionProvider) OpenPositions(ctx context.Context) ([]models.Position, error) {
	cached, err := p.cache.Get(ctx, positionsKey)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		p.l.Warn("positions cache read failed", applogger.Error(err))
	}

	positions, err := p.source.OpenPositions(ctx)
	if err != nil {
		return nil, err
	}
	if positions == nil {
		positions = []models.Position{}
	}
	if err := p.cache.Put(ctx, positionsKey, positions); err != nil {
		p.l.Warn("positions cache write failed", applogger.Error(err))
	}
	return positions, nil
}

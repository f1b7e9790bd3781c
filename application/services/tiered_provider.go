// Package services holds application services shared by several handlers.
package services

import (
	"context"
	"time"

	"astroguia-backend/application/ports"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// Source names the tier that produced a value
type Source string

const (
	SourceCache    Source = "cache"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// FallbackPolicy decides when the local tier answers for the remote one
type FallbackPolicy struct {
	// OnError falls back when the remote tier fails
	OnError bool
	// OnNotFound falls back when the remote tier has no such item
	OnNotFound bool
}

// AlwaysFallback falls back on any remote failure
var AlwaysFallback = FallbackPolicy{OnError: true, OnNotFound: true}

// Fetch loads a value from one tier
type Fetch[T any] func(ctx context.Context) (T, error)

// Tiered is a value tagged with the tier that produced it
type Tiered[T any] struct {
	Value  T
	Source Source
}

// TieredConfig configures a TieredProvider. Cache and Metrics are optional.
type TieredConfig struct {
	Policy   FallbackPolicy
	Cache    ports.Cache
	CacheTTL time.Duration
	Metrics  ports.Metrics
	Logger   *zap.Logger
}

// TieredProvider reads remote-first with a local fallback and an optional
// cache in front of the remote tier. Fallback values are never cached so
// the remote tier is retried on the next read.
type TieredProvider[T any] struct {
	resource string
	cfg      TieredConfig
	logger   *zap.Logger
}

// NewTieredProvider creates a provider for one resource kind
func NewTieredProvider[T any](resource string, cfg TieredConfig) *TieredProvider[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredProvider[T]{resource: resource, cfg: cfg, logger: logger}
}

// Get resolves key through cache, remote and local tiers. An empty key
// bypasses the cache. A nil local fetch disables fallback.
func (p *TieredProvider[T]) Get(ctx context.Context, key string, remote, local Fetch[T]) (Tiered[T], error) {
	cacheKey := p.resource + ":" + key
	useCache := p.cfg.Cache != nil && key != ""

	if useCache {
		var cached T
		hit, err := p.cfg.Cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			p.logger.Warn("Cache read failed", zap.String("resource", p.resource), zap.String("key", key), zap.Error(err))
		} else if hit {
			return p.served(ctx, cached, SourceCache), nil
		}
	}

	value, remoteErr := remote(ctx)
	if remoteErr == nil {
		if useCache {
			if err := p.cfg.Cache.Set(ctx, cacheKey, value, p.cfg.CacheTTL); err != nil {
				p.logger.Warn("Cache write failed", zap.String("resource", p.resource), zap.String("key", key), zap.Error(err))
			}
		}
		return p.served(ctx, value, SourceRemote), nil
	}

	if ctx.Err() != nil {
		return Tiered[T]{}, pkgerrors.NewCancelledError(p.resource+" read", ctx.Err())
	}

	if !p.shouldFallback(remoteErr) || local == nil {
		return Tiered[T]{}, remoteErr
	}

	if pkgerrors.IsNotFound(remoteErr) {
		p.logger.Debug("Remote tier has no item, using fallback", zap.String("resource", p.resource), zap.String("key", key))
	} else {
		p.logger.Warn("Remote tier failed, using fallback", zap.String("resource", p.resource), zap.String("key", key), zap.Error(remoteErr))
	}

	value, err := local(ctx)
	if err != nil {
		// A local miss does not prove absence when the remote tier failed.
		if pkgerrors.IsNotFound(err) && !pkgerrors.IsNotFound(remoteErr) {
			return Tiered[T]{}, remoteErr
		}
		return Tiered[T]{}, err
	}
	return p.served(ctx, value, SourceFallback), nil
}

func (p *TieredProvider[T]) shouldFallback(err error) bool {
	if pkgerrors.IsCancelled(err) {
		return false
	}
	if pkgerrors.IsNotFound(err) {
		return p.cfg.Policy.OnNotFound
	}
	return p.cfg.Policy.OnError
}

func (p *TieredProvider[T]) served(ctx context.Context, value T, source Source) Tiered[T] {
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.TieredRead(ctx, p.resource, string(source))
	}
	return Tiered[T]{Value: value, Source: source}
}

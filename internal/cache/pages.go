package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Pages caches the data behind rendered listing pages. Every path has a
// generation counter; Revalidate bumps it so older entries are never read
// again and simply expire.
type Pages struct {
	c   Cache
	ttl time.Duration
	log *logrus.Logger
}

func NewPages(c Cache, ttl time.Duration, log *logrus.Logger) *Pages {
	return &Pages{c: c, ttl: ttl, log: log}
}

func genKey(path string) string { return "page:" + path + ":gen" }

func (p *Pages) generation(ctx context.Context, path string) int64 {
	var gen int64
	if _, err := p.c.GetJSON(ctx, genKey(path), &gen); err != nil {
		p.log.WithError(err).WithField("path", path).Warn("page cache generation read failed")
	}
	return gen
}

func (p *Pages) key(ctx context.Context, path, variant string) string {
	sum := sha1.Sum([]byte(variant))
	return "page:" + path + ":v" + strconv.FormatInt(p.generation(ctx, path), 10) + ":" + hex.EncodeToString(sum[:8])
}

// Revalidate drops every cached variant of path.
func (p *Pages) Revalidate(ctx context.Context, path string) {
	if p == nil {
		return
	}
	if _, err := p.c.Incr(ctx, genKey(path)); err != nil {
		p.log.WithError(err).WithField("path", path).Warn("page cache revalidate failed")
	}
}

// Load returns the cached value for (path, variant) or computes and stores it.
// Cache failures degrade to calling load directly.
func Load[T any](ctx context.Context, p *Pages, path, variant string, load func(context.Context) (T, error)) (T, error) {
	if p == nil || p.ttl <= 0 {
		return load(ctx)
	}
	key := p.key(ctx, path, variant)

	var v T
	hit, err := p.c.GetJSON(ctx, key, &v)
	if err != nil {
		p.log.WithError(err).WithField("key", key).Warn("page cache read failed")
	}
	if hit {
		return v, nil
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := p.c.SetJSON(ctx, key, v, p.ttl); err != nil {
		p.log.WithError(err).WithField("key", key).Warn("page cache write failed")
	}
	return v, nil
}

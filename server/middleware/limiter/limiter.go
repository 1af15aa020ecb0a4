// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/netip"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	ExpiryDuration  = time.Hour       // How long an idle network's bucket is kept.
	CleanupInterval = 5 * time.Minute // Minimum interval between cleanup sweeps.
)

// Wrapper for time.Now, which allows us to mock it in tests.
var timeNow = time.Now

// Options configures a Limiter.
type Options struct {
	Rate       float64
	Burst      int
	IPv4Prefix int
	IPv6Prefix int
	PassList   []string
	BlockList  []string
}

// Limiter holds one token bucket per client network.
type Limiter struct {
	rate       rate.Limit
	burst      int
	ipv4Prefix int
	ipv6Prefix int
	pass       []netip.Prefix
	block      []netip.Prefix

	buckets sync.Map // netip.Prefix -> *bucket

	cleanupMu     sync.Mutex
	lastCleanupAt time.Time
}

// bucket is the token bucket of a single network.
type bucket struct {
	mu         sync.Mutex
	limiter    *rate.Limiter
	lastAccess time.Time
}

// quota is the bucket state reported to the client.
type quota struct {
	allowed   bool
	limit     int
	remaining int
	reset     int64 // seconds until the bucket is full again
}

// New creates a Limiter from opts.
func New(opts Options) *Limiter {
	return &Limiter{
		rate:       rate.Limit(opts.Rate),
		burst:      opts.Burst,
		ipv4Prefix: opts.IPv4Prefix,
		ipv6Prefix: opts.IPv6Prefix,
		pass:       parsePrefixes(opts.PassList),
		block:      parsePrefixes(opts.BlockList),
	}
}

// take consumes one token from network's bucket.
func (l *Limiter) take(network netip.Prefix) quota {
	now := timeNow()

	value, _ := l.buckets.LoadOrStore(network, &bucket{
		limiter:    rate.NewLimiter(l.rate, l.burst),
		lastAccess: now,
	})

	b, ok := value.(*bucket)
	if !ok {
		return quota{allowed: true}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now
	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	q := quota{
		allowed:   allowed,
		limit:     b.limiter.Burst(),
		remaining: max(0, int(math.Min(float64(b.limiter.Burst()), tokens))),
	}

	if deficit := float64(q.limit) - tokens; deficit > 0 && l.rate > 0 {
		q.reset = int64(math.Ceil(deficit / float64(l.rate)))
	}

	return q
}

// maybeCleanup sweeps idle buckets at most once per CleanupInterval.
func (l *Limiter) maybeCleanup() {
	now := timeNow()

	l.cleanupMu.Lock()

	if l.lastCleanupAt.IsZero() {
		l.lastCleanupAt = now
	}

	due := now.Sub(l.lastCleanupAt) >= CleanupInterval
	if due {
		l.lastCleanupAt = now
	}

	l.cleanupMu.Unlock()

	if due {
		go l.cleanupExpired(now)
	}
}

// cleanupExpired removes buckets that have not been used for ExpiryDuration.
func (l *Limiter) cleanupExpired(now time.Time) int {
	expired := 0

	l.buckets.Range(func(key, value any) bool {
		b, ok := value.(*bucket)
		if !ok {
			l.buckets.Delete(key)

			return true
		}

		b.mu.Lock()
		idle := now.Sub(b.lastAccess)
		b.mu.Unlock()

		if idle > ExpiryDuration {
			l.buckets.Delete(key)

			expired++
		}

		return true
	})

	if expired > 0 {
		log.Info().
			Int("count", expired).
			Msg("Cleaned up expired limiters")
	}

	return expired
}

package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/wikitxt"
	"golang.org/x/time/rate"
)

var _ wikitxt.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces requests per host with one token bucket per host,
// so the article API and the image host are throttled independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host without bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// NewDomainLimiterEvery creates a DomainLimiter allowing one request per
// interval to each host.
func NewDomainLimiterEvery(interval time.Duration) *DomainLimiter {
	if interval <= 0 {
		return NewDomainLimiter(0)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(interval),
	}
}

// Wait blocks until a request to domain is allowed.
// Host names are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

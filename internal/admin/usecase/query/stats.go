package query

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cepetdeal/marketplace/internal/identity"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	receiptdomain "github.com/cepetdeal/marketplace/internal/receipt/domain"
	"github.com/cepetdeal/marketplace/pkg/cache"
	"github.com/cepetdeal/marketplace/pkg/logger"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// StatsCacheKey is where the dashboard is cached
const StatsCacheKey = "admin:stats"

type UserCounter interface {
	CountByRole(ctx context.Context) (map[identity.Role]int64, error)
}

type ListingCounter interface {
	CountByStatus(ctx context.Context) (map[listingdomain.Status]int64, error)
}

type DealerCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

type ReceiptTotaler interface {
	Totals(ctx context.Context) (receiptdomain.ReceiptTotals, error)
}

// UserStats counts accounts
type UserStats struct {
	Total  int64                   `json:"total"`
	ByRole map[identity.Role]int64 `json:"byRole"`
}

// ListingStats counts listings
type ListingStats struct {
	Total    int64                          `json:"total"`
	ByStatus map[listingdomain.Status]int64 `json:"byStatus"`
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	Users          UserStats                   `json:"users"`
	Listings       ListingStats                `json:"listings"`
	DealersPending int64                       `json:"dealersPendingVerification"`
	Receipts       receiptdomain.ReceiptTotals `json:"receipts"`
	GeneratedAt    time.Time                   `json:"generatedAt"`
}

// StatsHandler computes dashboard statistics
type StatsHandler struct {
	users    UserCounter
	listings ListingCounter
	dealers  DealerCounter
	receipts ReceiptTotaler
	cache    cache.Cache
	ttl      time.Duration
	metrics  *metrics.DomainMetrics
}

func NewStatsHandler(
	users UserCounter,
	listings ListingCounter,
	dealers DealerCounter,
	receipts ReceiptTotaler,
	c cache.Cache,
	ttl time.Duration,
	m *metrics.DomainMetrics,
) *StatsHandler {
	return &StatsHandler{
		users:    users,
		listings: listings,
		dealers:  dealers,
		receipts: receipts,
		cache:    c,
		ttl:      ttl,
		metrics:  m,
	}
}

// Handle returns the cached dashboard or computes it with one query per source
// running concurrently
func (h *StatsHandler) Handle(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	found, err := h.cache.Get(ctx, StatsCacheKey, &stats)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Stats cache read failed")
	}
	if found {
		return &stats, nil
	}

	var (
		byRole   map[identity.Role]int64
		byStatus map[listingdomain.Status]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byRole, err = h.users.CountByRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = h.listings.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.DealersPending, err = h.dealers.CountPending(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Receipts, err = h.receipts.Totals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Users = UserStats{ByRole: byRole}
	for _, n := range byRole {
		stats.Users.Total += n
	}
	stats.Listings = ListingStats{ByStatus: byStatus}
	for status, n := range byStatus {
		stats.Listings.Total += n
		h.metrics.ListingsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	stats.GeneratedAt = time.Now().UTC()

	if err := h.cache.Set(ctx, StatsCacheKey, stats, h.ttl); err != nil {
		logger.Warn(ctx).Err(err).Msg("Stats cache write failed")
	}
	return &stats, nil
}

// Invalidate drops the cached dashboard so the next request recomputes it
func (h *StatsHandler) Invalidate(ctx context.Context) error {
	return h.cache.Delete(ctx, StatsCacheKey)
}

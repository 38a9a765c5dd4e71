package service

import (
	"github.com/shopspring/decimal"

	"github.com/kontribute/kontribute-backend/internal/models"
)

// PercentFallback is the completion percentage reported when a collection
// has no positive target amount.
type PercentFallback int

const (
	// FallbackEmpty reports 0%. Used by the organizer dashboard.
	FallbackEmpty PercentFallback = 0
	// FallbackComplete reports 100%. Used by the public collection detail.
	FallbackComplete PercentFallback = 100
)

var hundred = decimal.NewFromInt(100)

// Stats is derived on every read and never stored.
type Stats struct {
	TotalCollected       decimal.Decimal  `json:"total_collected"`
	TargetAmount         *decimal.Decimal `json:"target_amount"`
	RemainingAmount      *decimal.Decimal `json:"remaining_amount"`
	CompletionPercentage float64          `json:"completion_percentage"`
	PaidCount            int              `json:"paid_count"`
	PendingCount         int              `json:"pending_count"`
	FailedCount          int              `json:"failed_count"`
	TotalContributors    int              `json:"total_contributors"`
}

// ComputeStats aggregates the contributors of c. Failed contributors are
// counted in FailedCount only; TotalContributors is paid plus pending.
func ComputeStats(c *models.Collection, contributors []models.Contributor, fallback PercentFallback) Stats {
	stats := Stats{TotalCollected: decimal.Zero}

	for _, ct := range contributors {
		switch ct.PaymentStatus {
		case models.PaymentStatusPaid:
			stats.PaidCount++
			stats.TotalCollected = stats.TotalCollected.Add(ct.AmountPaid)
		case models.PaymentStatusPending:
			stats.PendingCount++
		case models.PaymentStatusFailed:
			stats.FailedCount++
		}
	}
	stats.TotalContributors = stats.PaidCount + stats.PendingCount
	stats.CompletionPercentage = CompletionPercentage(stats.TotalCollected, c.TotalAmount, fallback)

	if c.TotalAmount.Valid {
		target := c.TotalAmount.Decimal
		remaining := decimal.Max(target.Sub(stats.TotalCollected), decimal.Zero)
		stats.TargetAmount = &target
		stats.RemainingAmount = &remaining
	}
	return stats
}

// CompletionPercentage returns collected/total*100 rounded to 2 places, or
// fallback when total is null or not positive.
func CompletionPercentage(collected decimal.Decimal, total decimal.NullDecimal, fallback PercentFallback) float64 {
	if !total.Valid || !total.Decimal.IsPositive() {
		return float64(fallback)
	}
	return collected.Div(total.Decimal).Mul(hundred).Round(2).InexactFloat64()
}

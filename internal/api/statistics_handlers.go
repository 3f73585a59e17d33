package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trade-journal-go/internal/models"
)

// StatsDetail holds calculated statistics for a given period.
type StatsDetail struct {
	TotalTrades      int             `json:"total_trades"`
	ProfitableTrades int             `json:"profitable_trades"`
	WinRate          float64         `json:"win_rate"`
	TotalPnl         decimal.Decimal `json:"total_pnl"`
	TotalFees        decimal.Decimal `json:"total_fees"`
}

// DailyPnl is one calendar bucket of realized PnL.
type DailyPnl struct {
	Date   string          `json:"date"` // YYYY-MM-DD, UTC
	Trades int             `json:"trades"`
	Pnl    decimal.Decimal `json:"pnl"`
}

// StatisticsResponse is the body of GET /statistics.
type StatisticsResponse struct {
	Since24h StatsDetail `json:"since_24h"`
	AllTime  StatsDetail `json:"all_time"`
	Daily    []DailyPnl  `json:"daily"`
}

// Statistics reports realized performance over the user's closed trades:
// all-time and trailing-24h summaries plus per-day buckets for the
// calendar view.
func (h *Handler) Statistics(c *gin.Context) {
	userID := currentUserID(c)

	trades, err := h.trades.ListByUser(userID)
	if err != nil {
		h.log.Error("Failed to load trades for statistics", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate statistics"})
		return
	}

	c.JSON(http.StatusOK, buildStatistics(trades, time.Now()))
}

func buildStatistics(trades []models.Trade, now time.Time) StatisticsResponse {
	since24h := now.Add(-24 * time.Hour)

	stats24h := newStatsDetail()
	statsAllTime := newStatsDetail()
	daily := make(map[string]*DailyPnl)

	for i := range trades {
		trade := &trades[i]
		if trade.Status != models.TradeStatusClosed || !trade.Pnl.Valid {
			continue
		}

		statsAllTime.add(trade)
		if trade.ExitTimestamp != nil && trade.ExitTimestamp.After(since24h) {
			stats24h.add(trade)
		}

		if trade.ExitTimestamp != nil {
			day := trade.ExitTimestamp.UTC().Format("2006-01-02")
			bucket, ok := daily[day]
			if !ok {
				bucket = &DailyPnl{Date: day}
				daily[day] = bucket
			}
			bucket.Trades++
			bucket.Pnl = bucket.Pnl.Add(trade.Pnl.Decimal)
		}
	}

	statsAllTime.finish()
	stats24h.finish()

	days := make([]DailyPnl, 0, len(daily))
	for _, bucket := range daily {
		days = append(days, *bucket)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return StatisticsResponse{
		Since24h: *stats24h,
		AllTime:  *statsAllTime,
		Daily:    days,
	}
}

func newStatsDetail() *StatsDetail {
	return &StatsDetail{TotalPnl: decimal.Zero, TotalFees: decimal.Zero}
}

func (s *StatsDetail) add(trade *models.Trade) {
	s.TotalTrades++
	if trade.Pnl.Decimal.IsPositive() {
		s.ProfitableTrades++
	}
	s.TotalPnl = s.TotalPnl.Add(trade.Pnl.Decimal)
	s.TotalFees = s.TotalFees.Add(trade.Fees)
}

func (s *StatsDetail) finish() {
	if s.TotalTrades > 0 {
		s.WinRate = float64(s.ProfitableTrades) / float64(s.TotalTrades)
	}
}

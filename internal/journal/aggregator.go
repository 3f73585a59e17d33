package journal

import (
	"sort"

	"github.com/shopspring/decimal"

	"trade-journal-go/internal/models"
)

// Aggregate folds a batch of normalized orders into round-trip trades
// for one user. The open map seeds aggregation with the user's currently
// OPEN trade per symbol (orders preloaded); new orders either attach to
// that trade or start a fresh one. Aggregation is pure over its inputs:
// the same open state and order batch always yield the same trades.
//
// Returns every trade created or updated by the batch, in first-touch
// order. The open map is updated in place to reflect the post-batch
// state.
func Aggregate(userID uint, open map[string]*models.Trade, orders []models.Order) ([]*models.Trade, error) {
	if open == nil {
		open = make(map[string]*models.Trade)
	}

	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ExecutionTime.Equal(sorted[j].ExecutionTime) {
			return sorted[i].RowIndex < sorted[j].RowIndex
		}
		return sorted[i].ExecutionTime.Before(sorted[j].ExecutionTime)
	})

	var touched []*models.Trade
	seen := make(map[*models.Trade]struct{})
	touch := func(t *models.Trade) {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			touched = append(touched, t)
		}
	}

	for _, order := range sorted {
		order := order
		// An over-close loops once more with the residual quantity.
		for {
			trade := open[order.Symbol]
			if trade == nil {
				trade = newTrade(userID, order)
				open[order.Symbol] = trade
				touch(trade)
				break
			}

			if resolveEffect(trade, &order) == models.EffectOpen {
				applyOpen(trade, order)
				touch(trade)
				break
			}

			remaining := trade.OpenQuantity
			if order.Quantity <= remaining {
				applyClose(trade, order)
				touch(trade)
				if trade.OpenQuantity < 0 {
					return nil, &AggregationError{Symbol: order.Symbol, Message: "negative remaining volume after close"}
				}
				if trade.OpenQuantity == 0 {
					finalize(trade)
					delete(open, order.Symbol)
				}
				break
			}

			// Over-close: the fill exceeds the remaining open volume.
			// Cap the close at what is left, finish this trade, and
			// carry the excess as the opening fill of a new trade in
			// the opposite direction.
			excess := order.Quantity - remaining
			capped := order
			capped.Quantity = remaining
			applyClose(trade, capped)
			touch(trade)
			if trade.OpenQuantity != 0 {
				return nil, &AggregationError{Symbol: order.Symbol, Message: "capped close left volume open"}
			}
			finalize(trade)
			delete(open, order.Symbol)

			order.Quantity = excess
			order.PositionEffect = models.EffectOpen
		}
	}

	return touched, nil
}

// resolveEffect applies the stated position effect, or infers one for
// rows without it: a fill on the same side as the position adds to it,
// the opposite side reduces it.
func resolveEffect(trade *models.Trade, order *models.Order) models.PositionEffect {
	if order.PositionEffect != models.EffectAuto {
		return order.PositionEffect
	}
	sameSide := (order.Side == models.SideBuy && trade.Direction == models.DirectionLong) ||
		(order.Side == models.SideSell && trade.Direction == models.DirectionShort)
	if sameSide {
		return models.EffectOpen
	}
	return models.EffectClose
}

func newTrade(userID uint, order models.Order) *models.Trade {
	direction := models.DirectionLong
	if order.Side == models.SideSell {
		direction = models.DirectionShort
	}
	trade := &models.Trade{
		UserID:         userID,
		Symbol:         order.Symbol,
		Direction:      direction,
		Status:         models.TradeStatusOpen,
		EntryTimestamp: order.ExecutionTime,
	}
	applyOpen(trade, order)
	return trade
}

func applyOpen(trade *models.Trade, order models.Order) {
	order.PositionEffect = models.EffectOpen
	trade.Orders = append(trade.Orders, order)
	trade.ExecutionsCount = len(trade.Orders)
	trade.Volume += order.Quantity
	trade.OpenQuantity += order.Quantity
	trade.AvgEntryPrice = weightedAverage(trade.Orders, models.EffectOpen)
}

func applyClose(trade *models.Trade, order models.Order) {
	order.PositionEffect = models.EffectClose
	trade.Orders = append(trade.Orders, order)
	trade.ExecutionsCount = len(trade.Orders)
	trade.OpenQuantity -= order.Quantity
}

// finalize closes a trade whose net volume has returned to zero:
// realized PnL is the signed entry/exit spread over the full opened
// quantity, net of the fees of every constituent fill.
func finalize(trade *models.Trade) {
	exit := weightedAverage(trade.Orders, models.EffectClose)

	fees := decimal.Zero
	for i := range trade.Orders {
		fees = fees.Add(trade.Orders[i].Fee())
	}

	gross := exit.Sub(trade.AvgEntryPrice).
		Mul(decimal.NewFromInt(trade.Volume)).
		Mul(decimal.NewFromInt(trade.DirectionSign()))

	last := trade.Orders[len(trade.Orders)-1].ExecutionTime
	trade.Status = models.TradeStatusClosed
	trade.ExitTimestamp = &last
	trade.AvgExitPrice = decimal.NewNullDecimal(exit.Round(2))
	trade.Fees = fees.Round(2)
	trade.Pnl = decimal.NewNullDecimal(gross.Sub(fees).Round(2))
}

func weightedAverage(orders []models.Order, effect models.PositionEffect) decimal.Decimal {
	value := decimal.Zero
	qty := decimal.Zero
	for i := range orders {
		if orders[i].PositionEffect != effect {
			continue
		}
		q := decimal.NewFromInt(orders[i].Quantity)
		value = value.Add(q.Mul(orders[i].Price))
		qty = qty.Add(q)
	}
	if qty.IsZero() {
		return decimal.Zero
	}
	return value.Div(qty)
}

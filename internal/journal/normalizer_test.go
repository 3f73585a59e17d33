package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal-go/internal/models"
)

func validRow(idx int) RawOrder {
	return RawOrder{
		RowIndex:       idx,
		ExecTime:       "1/25/23 11:20:35",
		Spread:         "STOCK",
		Side:           "BUY",
		Quantity:       "+10",
		PositionEffect: "TO OPEN",
		Symbol:         "aapl",
		Price:          "150.25",
		NetPrice:       "150.30",
		OrderType:      "LMT",
	}
}

func TestNormalizeValidRow(t *testing.T) {
	orders, errs := Normalize(7, []RawOrder{validRow(0)}, nil)
	require.Empty(t, errs)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, uint(7), order.UserID)
	assert.Equal(t, "AAPL", order.Symbol)
	assert.Equal(t, models.SideBuy, order.Side)
	assert.Equal(t, int64(10), order.Quantity)
	assert.Equal(t, models.EffectOpen, order.PositionEffect)
	assert.True(t, order.Price.Equal(decimal.RequireFromString("150.25")))
	assert.True(t, order.NetPrice.Equal(decimal.RequireFromString("150.30")))
	assert.Equal(t, time.Date(2023, 1, 25, 11, 20, 35, 0, time.UTC), order.ExecutionTime)
	assert.Equal(t, time.UTC, order.ExecutionTime.Location())
}

func TestNormalizeTimezoneConversion(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	orders, errs := Normalize(1, []RawOrder{validRow(0)}, loc)
	require.Empty(t, errs)
	require.Len(t, orders, 1)

	// 11:20:35 Eastern on 2023-01-25 is 16:20:35 UTC.
	assert.Equal(t, time.Date(2023, 1, 25, 16, 20, 35, 0, time.UTC), orders[0].ExecutionTime)
}

func TestNormalizeRejectsBadRows(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*RawOrder)
		field  string
	}{
		{
			name:   "negative quantity",
			mutate: func(r *RawOrder) { r.Quantity = "-5" },
			field:  "quantity",
		},
		{
			name:   "zero quantity",
			mutate: func(r *RawOrder) { r.Quantity = "0" },
			field:  "quantity",
		},
		{
			name:   "non-numeric quantity",
			mutate: func(r *RawOrder) { r.Quantity = "ten" },
			field:  "quantity",
		},
		{
			name:   "unparseable timestamp",
			mutate: func(r *RawOrder) { r.ExecTime = "yesterday" },
			field:  "execution_time",
		},
		{
			name:   "unknown side",
			mutate: func(r *RawOrder) { r.Side = "HOLD" },
			field:  "side",
		},
		{
			name:   "empty symbol",
			mutate: func(r *RawOrder) { r.Symbol = " " },
			field:  "symbol",
		},
		{
			name:   "bad price",
			mutate: func(r *RawOrder) { r.Price = "n/a" },
			field:  "price",
		},
		{
			name:   "unknown position effect",
			mutate: func(r *RawOrder) { r.PositionEffect = "MAYBE" },
			field:  "position_effect",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow(3)
			tc.mutate(&row)

			orders, errs := Normalize(1, []RawOrder{row}, nil)
			assert.Nil(t, orders)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.Equal(t, 3, errs[0].Row)
		})
	}
}

func TestNormalizeCollectsAllRowErrors(t *testing.T) {
	bad1 := validRow(0)
	bad1.Quantity = "-1"
	good := validRow(1)
	bad2 := validRow(2)
	bad2.Side = "SHORT"

	orders, errs := Normalize(1, []RawOrder{bad1, good, bad2}, nil)
	assert.Nil(t, orders, "strict mode: no orders survive a file with bad rows")
	require.Len(t, errs, 2)
	assert.Equal(t, 0, errs[0].Row)
	assert.Equal(t, 2, errs[1].Row)
}

func TestNormalizeMissingNetPriceDefaultsToPrice(t *testing.T) {
	row := validRow(0)
	row.NetPrice = ""

	orders, errs := Normalize(1, []RawOrder{row}, nil)
	require.Empty(t, errs)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].NetPrice.Equal(orders[0].Price))
}

func TestNormalizeOptionFields(t *testing.T) {
	row := validRow(0)
	row.Spread = "VERTICAL"
	row.Expiration = "16 JUN 23"
	row.Strike = "150"
	row.OptionType = "call"

	orders, errs := Normalize(1, []RawOrder{row}, nil)
	require.Empty(t, errs)
	require.Len(t, orders, 1)

	order := orders[0]
	require.NotNil(t, order.ExpirationDate)
	assert.Equal(t, time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC), *order.ExpirationDate)
	require.True(t, order.StrikePrice.Valid)
	assert.True(t, order.StrikePrice.Decimal.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, "CALL", order.OptionType)
}

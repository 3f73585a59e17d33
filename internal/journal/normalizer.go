package journal

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal-go/internal/models"
)

// RawOrder is one parsed statement row before validation. All fields
// arrive as strings; the normalizer owns every coercion.
type RawOrder struct {
	RowIndex       int
	ExecTime       string
	Spread         string
	Side           string
	Quantity       string
	PositionEffect string
	Symbol         string
	Expiration     string
	Strike         string
	OptionType     string
	Price          string
	NetPrice       string
	OrderType      string
}

// Statement exports use a handful of timestamp shapes depending on the
// platform version.
var execTimeLayouts = []string{
	"1/2/06 15:04:05",
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var expirationLayouts = []string{
	"2 Jan 06",
	"1/2/06",
	"2006-01-02",
}

// Normalize validates and canonicalizes raw rows into typed orders.
// Timestamps are interpreted in loc (UTC when nil) and stored as UTC.
// All row failures are collected; a non-empty ValidationErrors means the
// returned orders must not be used (strict mode).
func Normalize(userID uint, rows []RawOrder, loc *time.Location) ([]models.Order, ValidationErrors) {
	if loc == nil {
		loc = time.UTC
	}

	orders := make([]models.Order, 0, len(rows))
	var errs ValidationErrors

	for _, row := range rows {
		order, rowErrs := normalizeRow(userID, row, loc)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		orders = append(orders, order)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return orders, nil
}

func normalizeRow(userID uint, row RawOrder, loc *time.Location) (models.Order, ValidationErrors) {
	var errs ValidationErrors
	fail := func(field, msg string) {
		errs = append(errs, &ValidationError{Row: row.RowIndex, Field: field, Message: msg})
	}

	order := models.Order{
		UserID:    userID,
		RowIndex:  row.RowIndex,
		Spread:    strings.TrimSpace(row.Spread),
		Symbol:    strings.ToUpper(strings.TrimSpace(row.Symbol)),
		OrderType: strings.TrimSpace(row.OrderType),
	}

	if order.Symbol == "" {
		fail("symbol", "must not be empty")
	}

	execTime, err := parseTime(row.ExecTime, execTimeLayouts, loc)
	if err != nil {
		fail("execution_time", "unparseable timestamp "+strconv.Quote(row.ExecTime))
	} else {
		order.ExecutionTime = execTime.UTC()
	}

	switch side := models.Side(strings.ToUpper(strings.TrimSpace(row.Side))); side {
	case models.SideBuy, models.SideSell:
		order.Side = side
	default:
		fail("side", "must be BUY or SELL, got "+strconv.Quote(row.Side))
	}

	qty, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(row.Quantity), "+"), 10, 64)
	if err != nil {
		fail("quantity", "not an integer: "+strconv.Quote(row.Quantity))
	} else if qty <= 0 {
		fail("quantity", "must be positive, got "+strconv.FormatInt(qty, 10))
	} else {
		order.Quantity = qty
	}

	switch effect := strings.ToUpper(strings.TrimSpace(row.PositionEffect)); effect {
	case "OPEN", "TO OPEN", "OPENING":
		order.PositionEffect = models.EffectOpen
	case "CLOSE", "TO CLOSE", "CLOSING":
		order.PositionEffect = models.EffectClose
	case "", "AUTO":
		order.PositionEffect = models.EffectAuto
	default:
		fail("position_effect", "unknown value "+strconv.Quote(row.PositionEffect))
	}

	if price, perr := parsePrice(row.Price); perr != nil {
		fail("price", perr.Error())
	} else {
		order.Price = price
	}

	if strings.TrimSpace(row.NetPrice) == "" {
		order.NetPrice = order.Price
	} else if net, perr := parsePrice(row.NetPrice); perr != nil {
		fail("net_price", perr.Error())
	} else {
		order.NetPrice = net
	}

	if exp := strings.TrimSpace(row.Expiration); exp != "" {
		t, err := parseTime(exp, expirationLayouts, time.UTC)
		if err != nil {
			fail("expiration_date", "unparseable date "+strconv.Quote(exp))
		} else {
			t = t.UTC()
			order.ExpirationDate = &t
		}
	}

	if strike := strings.TrimSpace(row.Strike); strike != "" {
		d, err := decimal.NewFromString(strike)
		if err != nil {
			fail("strike_price", "not a number: "+strconv.Quote(strike))
		} else {
			order.StrikePrice = decimal.NewNullDecimal(d)
		}
	}

	if opt := strings.ToUpper(strings.TrimSpace(row.OptionType)); opt != "" {
		order.OptionType = opt
	}

	return order, errs
}

func parseTime(value string, layouts []string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parsePrice(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

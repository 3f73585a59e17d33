package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bareExport = `Exec Time,Spread,Side,Qty,Pos Effect,Symbol,Exp,Strike,Type,Price,Net Price,Order Type
1/25/23 11:20:35,STOCK,BUY,+10,TO OPEN,AAPL,,,ETF,150.25,150.30,LMT
1/25/23 14:05:00,STOCK,SELL,-10,TO CLOSE,AAPL,,,ETF,152.10,152.05,MKT
`

const fullStatement = `Account Statement for 123456789
,,,,,,,,,,,,

Account Trade History
,Exec Time,Spread,Side,Qty,Pos Effect,Symbol,Exp,Strike,Type,Price,Net Price,Order Type
,1/25/23 11:20:35,VERTICAL,BUY,+2,TO OPEN,SPY,16 JUN 23,400,CALL,3.25,3.27,LMT
,1/25/23 14:05:00,VERTICAL,SELL,-2,TO CLOSE,SPY,16 JUN 23,400,CALL,4.10,4.08,LMT
,,,,,,,,,,,,

Profits and Losses
`

func TestParseBareExport(t *testing.T) {
	rows, err := Parse(strings.NewReader(bareExport))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].RowIndex)
	assert.Equal(t, "1/25/23 11:20:35", rows[0].ExecTime)
	assert.Equal(t, "BUY", rows[0].Side)
	assert.Equal(t, "+10", rows[0].Quantity)
	assert.Equal(t, "TO OPEN", rows[0].PositionEffect)
	assert.Equal(t, "AAPL", rows[0].Symbol)
	assert.Equal(t, "150.25", rows[0].Price)
	assert.Equal(t, "150.30", rows[0].NetPrice)

	assert.Equal(t, 1, rows[1].RowIndex)
	assert.Equal(t, "SELL", rows[1].Side)
}

func TestParseFullStatementSection(t *testing.T) {
	rows, err := Parse(strings.NewReader(fullStatement))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "SPY", rows[0].Symbol)
	assert.Equal(t, "16 JUN 23", rows[0].Expiration)
	assert.Equal(t, "400", rows[0].Strike)
	assert.Equal(t, "CALL", rows[0].OptionType)
}

func TestParseRejectsWrongColumns(t *testing.T) {
	bad := `Exec Time,Symbol,Qty
1/25/23,AAPL,10
`
	_, err := Parse(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CSV format")
}

func TestParseRejectsEmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseRejectsMissingSection(t *testing.T) {
	_, err := Parse(strings.NewReader("Cash Balance\n,,,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Account Trade History")
}

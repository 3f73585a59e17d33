package journal

import (
	"fmt"
	"strings"
)

// ValidationError rejects a single uploaded row, naming the field that
// failed. Validation errors are recoverable and reported per row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: field %q: %s", e.Row, e.Field, e.Message)
}

// ValidationErrors collects every row failure of one upload so the user
// sees all problems in a single attempt.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d invalid row(s): %s", len(e), strings.Join(msgs, "; "))
}

// AggregationError reports a broken aggregation invariant. It is fatal
// for the batch and never silently recovered.
type AggregationError struct {
	Symbol  string
	Message string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation invariant violated for %s: %s", e.Symbol, e.Message)
}

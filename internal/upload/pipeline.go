// Package upload orchestrates one statement file through
// parse → normalize → aggregate → persist as a single unit of work.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/parser"
	"trade-journal-go/internal/repository"
)

// ErrTooManyRows rejects files beyond the configured row limit.
var ErrTooManyRows = errors.New("file exceeds the row limit")

// Result is the outcome of one pipeline run. RowErrors carries every
// row-level validation failure; when non-empty the batch was rejected
// whole (strict mode) and Trades is nil.
type Result struct {
	Upload    *models.Upload           `json:"upload"`
	Trades    []*models.Trade          `json:"trades,omitempty"`
	RowErrors journal.ValidationErrors `json:"row_errors,omitempty"`
}

// Pipeline processes uploads. Runs for the same user are serialized so
// concurrent files cannot interleave aggregation over shared open-trade
// state; different users never contend.
type Pipeline struct {
	logger  *zap.Logger
	cfg     *config.Upload
	trades  repository.TradeRepository
	uploads repository.UploadRepository

	mu       sync.Mutex
	locks    map[uint]*sync.Mutex
	limiters map[uint]*rate.Limiter
}

// NewPipeline creates an upload pipeline.
func NewPipeline(logger *zap.Logger, cfg *config.Upload, trades repository.TradeRepository, uploads repository.UploadRepository) *Pipeline {
	return &Pipeline{
		logger:   logger,
		cfg:      cfg,
		trades:   trades,
		uploads:  uploads,
		locks:    make(map[uint]*sync.Mutex),
		limiters: make(map[uint]*rate.Limiter),
	}
}

// Process runs one uploaded file end to end for an already-authenticated
// user. timezone is an optional IANA name for interpreting statement
// timestamps; empty means UTC. Either every row of the file becomes
// durable or none does.
func (p *Pipeline) Process(ctx context.Context, userID uint, filename string, file io.Reader, timezone string) (*Result, error) {
	if err := p.limiter(userID).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	lock := p.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	up := &models.Upload{
		ID:       uuid.NewString(),
		UserID:   userID,
		Filename: filename,
		State:    models.StateReceived,
	}
	l := p.logger.With(
		zap.String("upload_id", up.ID),
		zap.Uint("user_id", userID),
		zap.String("filename", filename),
	)

	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, p.fail(up, l, fmt.Errorf("unknown timezone %q: %w", timezone, err))
		}
	}

	rows, err := parser.Parse(file)
	if err != nil {
		return nil, p.fail(up, l, err)
	}
	if p.cfg.MaxRows > 0 && len(rows) > p.cfg.MaxRows {
		return nil, p.fail(up, l, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, len(rows), p.cfg.MaxRows))
	}
	up.State = models.StateParsed
	up.RowCount = len(rows)
	l.Info("File parsed", zap.Int("rows", len(rows)))

	orders, rowErrs := journal.Normalize(userID, rows, loc)
	if len(rowErrs) > 0 {
		// Strict mode: one bad row rejects the whole file, and every
		// row problem is reported in a single pass.
		l.Warn("File rejected by validation", zap.Int("invalid_rows", len(rowErrs)))
		p.recordFailure(up, l, rowErrs)
		return &Result{Upload: up, RowErrors: rowErrs}, nil
	}
	up.State = models.StateNormalized

	open, err := p.trades.OpenBySymbol(userID)
	if err != nil {
		return nil, p.fail(up, l, err)
	}

	trades, err := journal.Aggregate(userID, open, orders)
	if err != nil {
		return nil, p.fail(up, l, err)
	}
	up.State = models.StateAggregated
	up.TradesTouched = len(trades)

	up.State = models.StatePersisted
	if err := p.trades.SaveBatch(up, trades); err != nil {
		up.State = models.StateAggregated
		return nil, p.fail(up, l, fmt.Errorf("failed to persist batch: %w", err))
	}

	l.Info("Upload persisted",
		zap.Int("rows", up.RowCount),
		zap.Int("trades_touched", up.TradesTouched),
	)
	return &Result{Upload: up, Trades: trades}, nil
}

// fail stamps the upload FAILED, records it for the audit trail, and
// passes the originating error through.
func (p *Pipeline) fail(up *models.Upload, l *zap.Logger, err error) error {
	l.Error("Upload failed", zap.String("state", string(up.State)), zap.Error(err))
	p.recordFailure(up, l, err)
	return err
}

func (p *Pipeline) recordFailure(up *models.Upload, l *zap.Logger, cause error) {
	up.State = models.StateFailed
	up.Error = cause.Error()
	if err := p.uploads.Save(up); err != nil {
		l.Error("Failed to record failed upload", zap.Error(err))
	}
}

func (p *Pipeline) userLock(userID uint) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[userID] = lock
	}
	return lock
}

func (p *Pipeline) limiter(userID uint) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	limiter, ok := p.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.cfg.RateLimit), p.cfg.RateLimitBurst)
		p.limiters[userID] = limiter
	}
	return limiter
}

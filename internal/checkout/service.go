package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
)

// ErrEmptyTransaction is returned when a checkout has no line with a
// positive quantity.
var ErrEmptyTransaction = errors.New("transaction has no items")

// Receipt is the result of a committed checkout.
type Receipt struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Lines     []ledger.SaleLine `json:"lines"`
	TotalBill float64           `json:"total_bill"`
}

// Service coordinates a multi-line checkout as a single unit: every line is
// validated before any stock moves, the inventory is decremented in one
// write and the ledger is appended in one write.
//
// The commit section is serialized by a mutex. That is the limit of the
// concurrency story: persistence is file-based and the system assumes a
// single active writer, so two processes sharing the same data files are
// not supported.
type Service struct {
	mu     sync.Mutex
	inv    *inventory.Service
	led    *ledger.Service
	logger *zap.Logger
}

// NewService creates a new checkout Service.
func NewService(inv *inventory.Service, led *ledger.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		inv:    inv,
		led:    led,
		logger: logger,
	}
}

// Purchase commits a checkout for the given lines. Lines with a zero
// quantity are skipped; if none remain it fails with ErrEmptyTransaction.
// If any line names an unknown item or asks for more than is on hand, the
// whole transaction aborts and neither store is touched. On success all
// records share a single commit timestamp and the receipt carries the
// total bill.
func (s *Service) Purchase(lines []inventory.Line) (*Receipt, error) {
	active := make([]inventory.Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity == 0 {
			continue
		}
		active = append(active, line)
	}
	if len(active) == 0 {
		return nil, ErrEmptyTransaction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.inv.DecrementBatch(active)
	if err != nil {
		s.logger.Warn("checkout aborted", zap.Int("lines", len(active)), zap.Error(err))
		return nil, err
	}

	now := time.Now()
	records := make([]ledger.SaleLine, 0, len(active))
	total := 0.0
	for i, line := range active {
		item := items[i]
		linePrice := item.Price * float64(line.Quantity)
		records = append(records, ledger.SaleLine{
			Timestamp:  now,
			ItemID:     item.ID,
			ItemName:   item.Name,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: linePrice,
		})
		total += linePrice
	}

	if err := s.led.Append(records); err != nil {
		// Stock is already decremented; a failure here leaves the two
		// stores out of step and needs manual reconciliation.
		s.logger.Error("ledger append failed after stock decrement", zap.Error(err))
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	receipt := &Receipt{
		ID:        uuid.NewString(),
		Timestamp: now,
		Lines:     records,
		TotalBill: total,
	}

	s.logger.Info("sale committed",
		zap.String("receipt_id", receipt.ID),
		zap.Int("lines", len(records)),
		zap.Float64("total_bill", total),
	)
	return receipt, nil
}

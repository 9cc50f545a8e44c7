package ledger

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// totalTolerance absorbs float rounding when checking record totals.
const totalTolerance = 1e-6

// Service is the append-only ledger of completed sale lines. Entries are
// kept in append order and are never updated, reordered or deduplicated.
type Service struct {
	mu      sync.Mutex
	storage Storage
	records []SaleLine
	logger  *zap.Logger
}

// NewService creates a new Service and loads the historical log.
func NewService(storage Storage, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	records, err := storage.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to load sales log: %w", err)
	}

	return &Service{
		storage: storage,
		records: records,
		logger:  logger,
	}, nil
}

// Append validates and appends a batch of records in the given order,
// persisting them in a single write. A record whose total price does not
// reconcile with unit price times quantity fails the whole batch with
// ErrRecordMismatch and nothing is appended.
func (s *Service) Append(records []SaleLine) error {
	for _, r := range records {
		if math.Abs(r.TotalPrice-r.UnitPrice*float64(r.Quantity)) > totalTolerance {
			return fmt.Errorf("%w: item %s total %.6f, expected %.6f",
				ErrRecordMismatch, r.ItemID, r.TotalPrice, r.UnitPrice*float64(r.Quantity))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.AppendRecords(records); err != nil {
		s.logger.Error("failed to append sales records", zap.Int("count", len(records)), zap.Error(err))
		return fmt.Errorf("failed to append sales records: %w", err)
	}
	s.records = append(s.records, records...)

	s.logger.Info("sales recorded", zap.Int("count", len(records)))
	return nil
}

// All returns the full historical sequence, oldest first.
func (s *Service) All() []SaleLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SaleLine, len(s.records))
	copy(out, s.records)
	return out
}

// OnDate returns the records whose timestamp falls on the given date.
func (s *Service) OnDate(date time.Time) []SaleLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SaleLine, 0)
	for _, r := range s.records {
		if r.SameDate(date) {
			out = append(out, r)
		}
	}
	return out
}

// Between returns the records whose date component lies in [start, end],
// in append order.
func (s *Service) Between(start, end time.Time) []SaleLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	startDay := truncateToDate(start)
	endDay := truncateToDate(end)

	out := make([]SaleLine, 0)
	for _, r := range s.records {
		day := truncateToDate(r.Timestamp)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

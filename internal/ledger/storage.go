package ledger

import "errors"

// ErrRecordMismatch is returned when a record's total price does not equal
// its unit price times its quantity.
var ErrRecordMismatch = errors.New("record total does not match unit price and quantity")

// Storage is the persistence contract for the sales log. AppendRecords only
// ever adds to the end; past entries are never rewritten.
type Storage interface {
	LoadRecords() ([]SaleLine, error)
	AppendRecords(records []SaleLine) error
}

// LocalStorage provides an in-memory implementation for the sales log.
type LocalStorage struct {
	records []SaleLine
}

// NewLocalStorage instantiates a new LocalStorage with an empty log.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// LoadRecords returns a copy of the stored log, oldest first.
func (l *LocalStorage) LoadRecords() ([]SaleLine, error) {
	out := make([]SaleLine, len(l.records))
	copy(out, l.records)
	return out, nil
}

// AppendRecords adds the given records to the end of the log.
func (l *LocalStorage) AppendRecords(records []SaleLine) error {
	l.records = append(l.records, records...)
	return nil
}

package importer

import (
	"errors"
	"fmt"
)

var (
	ErrFormatsNotEnabled = errors.New("match format whitelist must enable two-set and three-set matches")
	ErrUnknownPlayerKey  = errors.New("player matches neither Name_1 nor Name_2")
	ErrNilSeed           = errors.New("nil seed ledger")
	ErrDuplicateMatchID  = errors.New("match id appears more than once")
)

// MatchError reports a fatal problem with one match row. The run is aborted
// and no ledger is returned.
type MatchError struct {
	Index int   // row position
	ID    int64 // value of the ID column, 0 if unreadable
	Err   error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("match %d (row %d): %v", e.ID, e.Index, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

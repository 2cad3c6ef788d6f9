package player

import (
	"errors"
	"fmt"
)

// ErrNegativeDelta is returned when a merge would subtract from a record.
var ErrNegativeDelta = errors.New("record deltas must be non-negative")

// Record counts a player's wins, losses and ties.
type Record struct {
	Wins   int `json:"wins" db:"wins"`
	Losses int `json:"losses" db:"losses"`
	Ties   int `json:"ties" db:"ties"`
}

func (r *Record) AddWin()  { r.Wins++ }
func (r *Record) AddLoss() { r.Losses++ }
func (r *Record) AddTie()  { r.Ties++ }

// Add merges non-negative deltas into the record. The record is unchanged when
// any delta is negative.
func (r *Record) Add(wins, losses, ties int) error {
	if wins < 0 || losses < 0 || ties < 0 {
		return fmt.Errorf("%w: wins=%d losses=%d ties=%d", ErrNegativeDelta, wins, losses, ties)
	}
	r.Wins += wins
	r.Losses += losses
	r.Ties += ties
	return nil
}

// Merge adds another record's counts to r.
func (r *Record) Merge(other Record) error {
	return r.Add(other.Wins, other.Losses, other.Ties)
}

// Reset zeroes all counters.
func (r *Record) Reset() {
	*r = Record{}
}

// Played returns the number of finished matches the record covers.
func (r Record) Played() int {
	return r.Wins + r.Losses + r.Ties
}

// IsZero reports whether no outcome has been recorded.
func (r Record) IsZero() bool {
	return r == Record{}
}

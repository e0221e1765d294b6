package domain

import "time"

// PointsEntry is one row of the local activity ledger. The ledger is a
// session-side record of point mutations (reason + running balance) used
// by the history views; the remote service keeps its own authoritative
// activity log.
type PointsEntry struct {
	ID      int64     `json:"id"`
	Time    time.Time `json:"time"`
	Delta   int       `json:"delta"`
	Reason  string    `json:"reason"`
	Balance int       `json:"balance"` // local points total after this entry
}

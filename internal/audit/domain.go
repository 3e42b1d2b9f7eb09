// Package audit exposes the audit trail written by the stock procedures.
package audit

import "time"

// Entry is one audit log row.
type Entry struct {
	ID         int64     `db:"id" json:"id"`
	At         time.Time `db:"created_at" json:"created_at"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	UserName   *string   `db:"user_name" json:"user_name,omitempty"`
	BranchID   *string   `db:"branch_id" json:"branch_id,omitempty"`
	BranchName *string   `db:"branch_name" json:"branch_name,omitempty"`
	Action     string    `db:"action" json:"action"`
	Entity     string    `db:"table_name" json:"entity"`
	EntityID   *string   `db:"record_id" json:"entity_id,omitempty"`
	Details    *string   `db:"details" json:"details,omitempty"`
}

// Filters narrows an audit query.
type Filters struct {
	BranchID string
	Limit    int
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
	// RecentLimit is used by the dashboard.
	RecentLimit = 10
)

func (f Filters) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package models

import (
	"fmt"
	"time"
)

// Balance operations accepted by the update endpoints.
const (
	BalanceAdd      = "add"
	BalanceSubtract = "subtract"
	BalanceSet      = "set"
)

// Balance is a user's wallet.
type Balance struct {
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	UserID       ID         `json:"user_id"`
	Email        string     `json:"email"`
	BaseBalance  Amount     `json:"base_balance"`
	BonusBalance Amount     `json:"bonus_balance"`
	TotalBalance Amount     `json:"total_balance"`
}

// Key returns the primary key used to patch list rows.
func (b Balance) Key() string { return string(b.UserID) }

// BalanceUpdate adjusts a single balance.
type BalanceUpdate struct {
	Operation    string `json:"operation"`
	BaseBalance  Amount `json:"base_balance,omitempty"`
	BonusBalance Amount `json:"bonus_balance,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// BulkBalanceUpdate applies one operation to many users.
type BulkBalanceUpdate struct {
	UserIDs      []ID   `json:"user_ids"`
	Operation    string `json:"operation"`
	BaseBalance  Amount `json:"base_balance,omitempty"`
	BonusBalance Amount `json:"bonus_balance,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// BalanceFilters are the query parameters of the balance list.
type BalanceFilters struct {
	Search     string `query:"search"`
	MinBalance string `query:"min_balance"`
	MaxBalance string `query:"max_balance"`
	Ordering   string `query:"ordering"`
	Page       int    `query:"page,omitempty"`
	PageSize   int    `query:"page_size,omitempty"`
}

func (f BalanceFilters) WithPage(page int) BalanceFilters { f.Page = page; return f }
func (f BalanceFilters) CurrentPage() int                 { return f.Page }

// BulkResult is returned by bulk endpoints. A 200 response may still carry
// failures, reported through FailedCount.
type BulkResult struct {
	Errors       []any `json:"errors,omitempty"`
	UpdatedCount int   `json:"updated_count"`
	FailedCount  int   `json:"failed_count"`
}

// Partial reports whether some items failed.
func (r BulkResult) Partial() bool {
	return r.FailedCount > 0
}

// Summary describes the outcome with both counts.
func (r BulkResult) Summary() string {
	if r.Partial() {
		return fmt.Sprintf("%d updated, %d failed", r.UpdatedCount, r.FailedCount)
	}
	return fmt.Sprintf("%d updated", r.UpdatedCount)
}

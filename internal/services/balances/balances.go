// Package balances wraps the wallet balance endpoints.
package balances

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Endpoint paths.
const (
	BalancesPath = "/platform-settings/admin/balances/"
	BulkPath     = "/platform-settings/admin/balances/bulk-update/"
)

func balancePath(userID models.ID) string {
	return BalancesPath + url.PathEscape(string(userID)) + "/"
}

// ListBalances fetches one page of balances.
func ListBalances(ctx context.Context, d api.Doer, f models.BalanceFilters) (models.Paginated[models.Balance], error) {
	return api.GetList[models.Balance](ctx, d, BalancesPath, api.RequestOptions{Query: f})
}

// GetBalance fetches the balance of one user.
func GetBalance(ctx context.Context, d api.Doer, userID models.ID) (models.Balance, error) {
	return api.GetData[models.Balance](ctx, d, balancePath(userID))
}

// UpdateBalance adds to, subtracts from or sets a user's balance.
func UpdateBalance(ctx context.Context, d api.Doer, userID models.ID, u models.BalanceUpdate) (models.Balance, error) {
	if err := validOperation(u.Operation); err != nil {
		return models.Balance{}, err
	}
	return api.SendData[models.Balance](ctx, d, http.MethodPatch, balancePath(userID), u)
}

// BulkUpdateBalances applies one operation to many users. The result may
// report failures on a successful response.
func BulkUpdateBalances(ctx context.Context, d api.Doer, u models.BulkBalanceUpdate) (models.BulkResult, error) {
	if err := validOperation(u.Operation); err != nil {
		return models.BulkResult{}, err
	}
	return api.SendData[models.BulkResult](ctx, d, http.MethodPost, BulkPath, u)
}

func validOperation(op string) error {
	switch op {
	case models.BalanceAdd, models.BalanceSubtract, models.BalanceSet:
		return nil
	default:
		return fmt.Errorf("unknown balance operation %q", op)
	}
}

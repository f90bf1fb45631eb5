package service

import (
	"context"
	"fmt"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

// AccountService builds the dashboard view of a player's balances.
type AccountService struct {
	ledger ports.LedgerRepository
	prices domain.PriceTable
}

func NewAccountService(ledger ports.LedgerRepository, prices domain.PriceTable) *AccountService {
	return &AccountService{ledger: ledger, prices: prices}
}

// Summary reports credits, every resource kind (zero when not held), and what
// the holdings would fetch if sold at current prices.
func (s *AccountService) Summary(ctx context.Context, userID string) (*ports.AccountSummary, error) {
	account, err := s.ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account summary: %w", err)
	}

	value := account.HoldingsValue(s.prices)
	return &ports.AccountSummary{
		UserID:        account.ID,
		Credits:       account.Credits,
		Resources:     account.Resources.Clone(),
		HoldingsValue: value,
		NetWorth:      domain.SaturatingAdd(account.Credits, value),
	}, nil
}

package service

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dtroode/userindex/internal/model"
)

// Cycles reports the index's own resource balance.
type Cycles struct {
	accountant model.ResourceAccountant
	authority  *Authority
}

func NewCycles(accountant model.ResourceAccountant, authority *Authority) *Cycles {
	return &Cycles{accountant: accountant, authority: authority}
}

// Balance queries the balance of the CanisterIdUserIndex principal.
func (c *Cycles) Balance(ctx context.Context) (*big.Int, error) {
	self, err := c.authority.RequireKnown(model.KnownCanisterIDUserIndex)
	if err != nil {
		return nil, err
	}

	balance, err := c.accountant.Balance(ctx, self)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

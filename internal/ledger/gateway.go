package ledger

import (
	"context"
	"sync"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/logger"

	"github.com/google/uuid"
)

// Gateway is the external value-transfer mechanism. A transfer either moves
// the full amount or fails; ErrInsufficientFunds is the only resource
// failure the engine expects from it.
type Gateway interface {
	Transfer(ctx context.Context, amount uint64, from, to string) error
	Balance(ctx context.Context, account string) (uint64, error)
}

// MemoryGateway is the in-process reference implementation used for
// development and tests. Balances are seeded from config; Mint tops up an
// account out of thin air.
type MemoryGateway struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func NewMemoryGateway(seed map[string]uint64) *MemoryGateway {
	balances := make(map[string]uint64, len(seed))
	for account, amount := range seed {
		balances[account] = amount
	}
	return &MemoryGateway{balances: balances}
}

func (g *MemoryGateway) Transfer(ctx context.Context, amount uint64, from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.balances[from] < amount {
		return domain.ErrInsufficientFunds
	}
	g.balances[from] -= amount
	g.balances[to] += amount

	logger.Debug("ledger transfer",
		"ref", uuid.NewString(),
		"amount", amount,
		"from", from,
		"to", to)
	return nil
}

func (g *MemoryGateway) Balance(ctx context.Context, account string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balances[account], nil
}

// Mint credits an account without a counterparty. Test and dev harness only.
func (g *MemoryGateway) Mint(account string, amount uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balances[account] += amount
}

package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

// MockGateway is an in-memory SettlementGateway for tests and local
// development. It records every transfer and can be told to fail.
type MockGateway struct {
	mu      sync.Mutex
	seq     int
	Pulls   []Receipt
	Payouts []Receipt
	// FailNext makes the next call return an error
	FailNext bool
}

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Pull records a pull
func (g *MockGateway) Pull(ctx context.Context, payer string, amount money.Amount, reference string) (*Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailNext {
		g.FailNext = false
		return nil, fmt.Errorf("mock gateway: pull declined")
	}
	g.seq++
	r := Receipt{
		TransactionID: fmt.Sprintf("mock-pull-%d", g.seq),
		Amount:        amount,
		Metadata:      map[string]string{"payer": payer, "reference": reference},
	}
	g.Pulls = append(g.Pulls, r)
	return &r, nil
}

// Payout records a payout
func (g *MockGateway) Payout(ctx context.Context, recipient string, asset domain.SettlementAsset, amount money.Amount, reference string) (*Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailNext {
		g.FailNext = false
		return nil, fmt.Errorf("mock gateway: payout failed")
	}
	g.seq++
	r := Receipt{
		TransactionID: fmt.Sprintf("mock-payout-%d", g.seq),
		Amount:        amount,
		Metadata: map[string]string{
			"recipient": recipient,
			"asset":     string(asset),
			"reference": reference,
		},
	}
	g.Payouts = append(g.Payouts, r)
	return &r, nil
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

package repository

import (
	"context"
	"sync"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

type balanceKey struct {
	account string
	asset   domain.SettlementAsset
}

// MemoryStore is an in-memory Store. A single mutex serializes every
// mutation, which is exactly the execution model the engine promises:
// one writer at a time, each call fully committed or not at all.
type MemoryStore struct {
	mu        sync.RWMutex
	settings  domain.Settings
	discounts map[string]*domain.Discount
	dao       *domain.DaoConfig
	tickets   map[int64]*domain.Ticket
	balances  map[balanceKey]money.Amount
	nextID    int64
}

// NewMemoryStore creates a MemoryStore seeded with the given settings
func NewMemoryStore(settings *domain.Settings) *MemoryStore {
	s := *settings
	s.Options = append([]domain.TicketOption(nil), settings.Options...)
	return &MemoryStore{
		settings:  s,
		discounts: make(map[string]*domain.Discount),
		dao:       domain.DefaultDaoConfig(),
		tickets:   make(map[int64]*domain.Ticket),
		balances:  make(map[balanceKey]money.Amount),
		nextID:    1,
	}
}

// Settings returns a copy of the current settings
func (m *MemoryStore) Settings(ctx context.Context) (*domain.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copySettings(), nil
}

func (m *MemoryStore) copySettings() *domain.Settings {
	s := m.settings
	s.Options = append([]domain.TicketOption(nil), m.settings.Options...)
	return &s
}

// SaveSettings replaces catalog name, options and settlement asset
func (m *MemoryStore) SaveSettings(ctx context.Context, s *domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.CatalogName = s.CatalogName
	m.settings.Options = append([]domain.TicketOption(nil), s.Options...)
	m.settings.SettlementAsset = s.SettlementAsset
	m.settings.AssetReference = s.AssetReference
	return nil
}

// SetMaxSupply adjusts the supply cap
func (m *MemoryStore) SetMaxSupply(ctx context.Context, max int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.MaxSupply = max
	return nil
}

// Discount returns the discount for the given key, or nil
func (m *MemoryStore) Discount(ctx context.Context, key string) (*domain.Discount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.discounts[key]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

// SaveDiscount creates or overwrites a discount
func (m *MemoryStore) SaveDiscount(ctx context.Context, d *domain.Discount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *d
	m.discounts[d.Key()] = &copied
	return nil
}

// DaoConfig returns a copy of the committed fee-split configuration
func (m *MemoryStore) DaoConfig(ctx context.Context) (*domain.DaoConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := *m.dao
	if m.dao.Adjustment != nil {
		adj := *m.dao.Adjustment
		adj.Allowlist = append([]string(nil), m.dao.Adjustment.Allowlist...)
		copied.Adjustment = &adj
	}
	return &copied, nil
}

// SaveDaoConfig replaces the fee-split configuration
func (m *MemoryStore) SaveDaoConfig(ctx context.Context, cfg *domain.DaoConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *cfg
	m.dao = &copied
	return nil
}

// Ticket returns a copy of the ticket with the given token id
func (m *MemoryStore) Ticket(ctx context.Context, id int64) (*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

// TicketsByOwner lists tickets currently owned by the address
func (m *MemoryStore) TicketsByOwner(ctx context.Context, owner string) ([]*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Ticket
	for id := int64(1); id < m.nextID; id++ {
		if t, ok := m.tickets[id]; ok && t.Owner == owner {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MintBatch allocates ids, stores the staged tickets, bumps the minted
// count and applies the payment credit atomically
func (m *MemoryStore) MintBatch(ctx context.Context, tickets []*domain.Ticket, credit *Credit) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(tickets))
	if m.settings.MintedCount+n > m.settings.MaxSupply {
		return nil, domain.ErrSoldOut
	}

	ids := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		copied := *t
		copied.Options = append([]domain.OptionID(nil), t.Options...)
		copied.ID = m.nextID
		m.tickets[m.nextID] = &copied
		ids = append(ids, m.nextID)
		m.nextID++
	}
	m.settings.MintedCount += n

	if credit != nil && credit.Amount > 0 {
		m.balances[balanceKey{credit.Account, credit.Asset}] += credit.Amount
	}

	return ids, nil
}

// CommitListing updates a ticket's resale state, guarded by expected owner
func (m *MemoryStore) CommitListing(ctx context.Context, id int64, expectedOwner string, r domain.Resellable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if t.Owner != expectedOwner {
		return domain.ErrUnauthorized
	}
	t.Resellable = r
	return nil
}

// CommitResale transfers ownership, clears the listing and credits the
// split shares in one step. The expected seller and listed price guard
// against a listing that changed after the buyer's read.
func (m *MemoryStore) CommitResale(ctx context.Context, id int64, seller, buyer string, price money.Amount, credits []Credit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if !t.Resellable.IsResellable || t.Owner != seller {
		return domain.ErrNotListed
	}
	if t.Resellable.Price != price {
		return domain.ErrPriceTooLow
	}

	t.Owner = buyer
	t.Resellable = domain.Resellable{}
	for _, c := range credits {
		if c.Amount > 0 {
			m.balances[balanceKey{c.Account, c.Asset}] += c.Amount
		}
	}
	return nil
}

// Balance returns the ledger balance of an account
func (m *MemoryStore) Balance(ctx context.Context, account string, asset domain.SettlementAsset) (money.Amount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[balanceKey{account, asset}], nil
}

// DrainBalance zeroes an account's balance and returns what was held
func (m *MemoryStore) DrainBalance(ctx context.Context, account string, asset domain.SettlementAsset) (money.Amount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey{account, asset}
	held := m.balances[key]
	m.balances[key] = 0
	return held, nil
}

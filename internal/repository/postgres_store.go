package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

// ticketColumns defines the columns to select for tickets
const ticketColumns = `id, options, option_label, price_paid, attendee, ticket_code,
	COALESCE(special_status, '') as special_status, owner, is_resellable, resale_price,
	asset, minted_at, updated_at`

// PostgresStore implements Store using PostgreSQL. Mutations run inside
// transactions with row locks, giving the same serialized all-or-nothing
// semantics as the in-memory store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// InitSettings seeds the singleton settings row if it does not exist yet
func (r *PostgresStore) InitSettings(ctx context.Context, s *domain.Settings) error {
	options, err := json.Marshal(s.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	query := `
		INSERT INTO settings (id, catalog_name, options, settlement_asset, asset_reference, max_supply, minted_count)
		VALUES (1, $1, $2, $3, $4, $5, 0)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = r.pool.Exec(ctx, query, s.CatalogName, options, s.SettlementAsset, s.AssetReference, s.MaxSupply)
	return err
}

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	s := &domain.Settings{}
	var options []byte
	err := row.Scan(
		&s.CatalogName,
		&options,
		&s.SettlementAsset,
		&s.AssetReference,
		&s.MaxSupply,
		&s.MintedCount,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &s.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return s, nil
}

// Settings returns the current committed settings
func (r *PostgresStore) Settings(ctx context.Context) (*domain.Settings, error) {
	query := `SELECT catalog_name, options, settlement_asset, COALESCE(asset_reference, ''),
		max_supply, minted_count FROM settings WHERE id = 1`
	return scanSettings(r.pool.QueryRow(ctx, query))
}

// SaveSettings replaces catalog name, options and settlement asset
func (r *PostgresStore) SaveSettings(ctx context.Context, s *domain.Settings) error {
	options, err := json.Marshal(s.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	query := `UPDATE settings SET catalog_name = $1, options = $2,
		settlement_asset = $3, asset_reference = $4, updated_at = now() WHERE id = 1`
	_, err = r.pool.Exec(ctx, query, s.CatalogName, options, s.SettlementAsset, s.AssetReference)
	return err
}

// SetMaxSupply adjusts the supply cap
func (r *PostgresStore) SetMaxSupply(ctx context.Context, max int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE settings SET max_supply = $1, updated_at = now() WHERE id = 1`, max)
	return err
}

// Discount returns the discount for the given key, or nil
func (r *PostgresStore) Discount(ctx context.Context, key string) (*domain.Discount, error) {
	query := `SELECT buyer, option_set_key, amount FROM discounts WHERE key = $1`
	d := &domain.Discount{}
	err := r.pool.QueryRow(ctx, query, key).Scan(&d.Buyer, &d.OptionSetKey, &d.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// SaveDiscount creates or overwrites a discount
func (r *PostgresStore) SaveDiscount(ctx context.Context, d *domain.Discount) error {
	query := `
		INSERT INTO discounts (key, buyer, option_set_key, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET amount = EXCLUDED.amount
	`
	_, err := r.pool.Exec(ctx, query, d.Key(), d.Buyer, d.OptionSetKey, d.Amount)
	return err
}

// DaoConfig returns the committed fee-split configuration
func (r *PostgresStore) DaoConfig(ctx context.Context) (*domain.DaoConfig, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT config FROM dao_config WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultDaoConfig(), nil
		}
		return nil, err
	}
	cfg := &domain.DaoConfig{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal dao config: %w", err)
	}
	return cfg, nil
}

// SaveDaoConfig replaces the fee-split configuration
func (r *PostgresStore) SaveDaoConfig(ctx context.Context, cfg *domain.DaoConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal dao config: %w", err)
	}
	query := `
		INSERT INTO dao_config (id, config) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = now()
	`
	_, err = r.pool.Exec(ctx, query, raw)
	return err
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	var options, attendee []byte
	err := row.Scan(
		&t.ID,
		&options,
		&t.OptionLabel,
		&t.PricePaid,
		&attendee,
		&t.TicketCode,
		&t.SpecialStatus,
		&t.Owner,
		&t.Resellable.IsResellable,
		&t.Resellable.Price,
		&t.Asset,
		&t.MintedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(options, &t.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	if err := json.Unmarshal(attendee, &t.Attendee); err != nil {
		return nil, fmt.Errorf("unmarshal attendee: %w", err)
	}
	return t, nil
}

// Ticket returns the ticket with the given token id
func (r *PostgresStore) Ticket(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

// TicketsByOwner lists tickets currently owned by the address
func (r *PostgresStore) TicketsByOwner(ctx context.Context, owner string) ([]*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE owner = $1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// MintBatch allocates ids, stores the staged tickets, bumps the minted
// count and applies the payment credit inside one transaction
func (r *PostgresStore) MintBatch(ctx context.Context, tickets []*domain.Ticket, credit *Credit) ([]int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the settings row so concurrent mints serialize on the cap
	var minted, maxSupply int64
	err = tx.QueryRow(ctx, `SELECT minted_count, max_supply FROM settings WHERE id = 1 FOR UPDATE`).
		Scan(&minted, &maxSupply)
	if err != nil {
		return nil, err
	}

	n := int64(len(tickets))
	if minted+n > maxSupply {
		return nil, domain.ErrSoldOut
	}

	ids := make([]int64, 0, len(tickets))
	nextID := minted + 1
	for _, t := range tickets {
		options, err := json.Marshal(t.Options)
		if err != nil {
			return nil, fmt.Errorf("marshal options: %w", err)
		}
		attendee, err := json.Marshal(t.Attendee)
		if err != nil {
			return nil, fmt.Errorf("marshal attendee: %w", err)
		}
		query := `
			INSERT INTO tickets (id, options, option_label, price_paid, attendee, ticket_code,
				special_status, owner, is_resellable, resale_price, asset, minted_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		_, err = tx.Exec(ctx, query,
			nextID,
			options,
			t.OptionLabel,
			t.PricePaid,
			attendee,
			t.TicketCode,
			t.SpecialStatus,
			t.Owner,
			t.Resellable.IsResellable,
			t.Resellable.Price,
			t.Asset,
			t.MintedAt,
			t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		ids = append(ids, nextID)
		nextID++
	}

	_, err = tx.Exec(ctx, `UPDATE settings SET minted_count = minted_count + $1, updated_at = now() WHERE id = 1`, n)
	if err != nil {
		return nil, err
	}

	if credit != nil && credit.Amount > 0 {
		if err := applyCredit(ctx, tx, *credit); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// CommitListing updates a ticket's resale state, guarded by expected owner
func (r *PostgresStore) CommitListing(ctx context.Context, id int64, expectedOwner string, res domain.Resellable) error {
	query := `UPDATE tickets SET is_resellable = $1, resale_price = $2, updated_at = now()
		WHERE id = $3 AND owner = $4`
	tag, err := r.pool.Exec(ctx, query, res.IsResellable, res.Price, id, expectedOwner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing token from an ownership race
		if _, err := r.Ticket(ctx, id); err != nil {
			return err
		}
		return domain.ErrUnauthorized
	}
	return nil
}

// CommitResale transfers ownership, clears the listing and credits the
// split shares inside one transaction. The row lock plus the expected
// seller and price make the commit a compare-and-swap against the
// listing the buyer saw.
func (r *PostgresStore) CommitResale(ctx context.Context, id int64, seller, buyer string, price money.Amount, credits []Credit) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var owner string
	var listed bool
	var listedPrice money.Amount
	err = tx.QueryRow(ctx, `SELECT owner, is_resellable, resale_price FROM tickets WHERE id = $1 FOR UPDATE`, id).
		Scan(&owner, &listed, &listedPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTicketNotFound
		}
		return err
	}
	if !listed || owner != seller {
		return domain.ErrNotListed
	}
	if listedPrice != price {
		return domain.ErrPriceTooLow
	}

	_, err = tx.Exec(ctx, `UPDATE tickets SET owner = $1, is_resellable = false, resale_price = 0,
		updated_at = now() WHERE id = $2`, buyer, id)
	if err != nil {
		return err
	}

	for _, c := range credits {
		if c.Amount > 0 {
			if err := applyCredit(ctx, tx, c); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func applyCredit(ctx context.Context, tx pgx.Tx, c Credit) error {
	query := `
		INSERT INTO balances (account, asset, amount) VALUES ($1, $2, $3)
		ON CONFLICT (account, asset) DO UPDATE SET amount = balances.amount + EXCLUDED.amount
	`
	_, err := tx.Exec(ctx, query, c.Account, c.Asset, c.Amount)
	return err
}

// Balance returns the ledger balance of an account
func (r *PostgresStore) Balance(ctx context.Context, account string, asset domain.SettlementAsset) (money.Amount, error) {
	var amount money.Amount
	err := r.pool.QueryRow(ctx, `SELECT amount FROM balances WHERE account = $1 AND asset = $2`, account, asset).
		Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return amount, nil
}

// DrainBalance zeroes an account's balance and returns what was held
func (r *PostgresStore) DrainBalance(ctx context.Context, account string, asset domain.SettlementAsset) (money.Amount, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var held money.Amount
	err = tx.QueryRow(ctx, `SELECT amount FROM balances WHERE account = $1 AND asset = $2 FOR UPDATE`,
		account, asset).Scan(&held)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	_, err = tx.Exec(ctx, `UPDATE balances SET amount = 0 WHERE account = $1 AND asset = $2`, account, asset)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return held, nil
}

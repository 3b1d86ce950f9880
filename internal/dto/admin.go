package dto

// OptionRequest defines or updates a single ticket option.
type OptionRequest struct {
	ID       string `json:"id" binding:"required,max=64"`
	Name     string `json:"name" binding:"required,max=255"`
	Price    string `json:"price" binding:"required"`
	Disabled bool   `json:"disabled"`
}

// SetTicketSettingsRequest replaces the catalog name and option list.
type SetTicketSettingsRequest struct {
	CatalogName string          `json:"catalog_name" binding:"required,max=255"`
	Options     []OptionRequest `json:"options" binding:"required,min=1,dive"`
}

// Validate checks for duplicate option ids.
func (r *SetTicketSettingsRequest) Validate() (bool, string) {
	seen := make(map[string]bool, len(r.Options))
	for _, opt := range r.Options {
		if seen[opt.ID] {
			return false, "duplicate option id: " + opt.ID
		}
		seen[opt.ID] = true
	}
	return true, ""
}

// SetTicketOptionRequest creates or updates a single catalog option
// without touching the rest of the catalog.
type SetTicketOptionRequest struct {
	ID       string `json:"id" binding:"required,max=64"`
	Name     string `json:"name" binding:"required,max=255"`
	Price    string `json:"price" binding:"required"`
	Disabled bool   `json:"disabled"`
}

// SetMaxSupplyRequest raises or lowers the mint cap.
type SetMaxSupplyRequest struct {
	MaxSupply int64 `json:"max_supply" binding:"required,min=0"`
}

// SetDiscountRequest grants a flat discount to a buyer for an exact option set.
type SetDiscountRequest struct {
	Buyer   string   `json:"buyer" binding:"required,max=255"`
	Options []string `json:"options" binding:"required,min=1"`
	Amount  string   `json:"amount" binding:"required"`
}

// SetDaoConfigRequest updates fee routing and the DAO price adjustment.
type SetDaoConfigRequest struct {
	DaoAddress  string   `json:"dao_address" binding:"omitempty,max=255"`
	PlatformPct int64    `json:"platform_pct" binding:"min=0,max=100"`
	DaoPct      int64    `json:"dao_pct" binding:"min=0,max=100"`
	AdjustPct   int64    `json:"adjust_pct" binding:"min=0,max=100"`
	Policy      string   `json:"policy" binding:"omitempty,oneof=never always allowlist"`
	Allowlist   []string `json:"allowlist" binding:"omitempty"`
}

// SettingsResponse is the public view of the ticket catalog.
type SettingsResponse struct {
	CatalogName     string           `json:"catalog_name"`
	Options         []OptionResponse `json:"options"`
	SettlementAsset string           `json:"settlement_asset"`
	MaxSupply       int64            `json:"max_supply"`
	MintedCount     int64            `json:"minted_count"`
	Remaining       int64            `json:"remaining"`
}

// OptionResponse is the public view of a single option.
type OptionResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Disabled bool   `json:"disabled,omitempty"`
}

// BalanceResponse reports a treasury account balance.
type BalanceResponse struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Amount  string `json:"amount"`
}

// WithdrawResponse reports the amounts paid out of the treasury.
type WithdrawResponse struct {
	Withdrawn []BalanceResponse `json:"withdrawn"`
}

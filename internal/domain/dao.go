package domain

import "strings"

// AdjustmentPolicy names the predicate deciding whether a buyer qualifies
// for the DAO price adjustment. The qualifying condition is deployment
// configuration, not a rule the engine infers.
type AdjustmentPolicy string

const (
	// AdjustNever disables the price adjustment
	AdjustNever AdjustmentPolicy = "never"
	// AdjustAlways grants the adjustment to every buyer
	AdjustAlways AdjustmentPolicy = "always"
	// AdjustAllowlist grants the adjustment to explicitly listed buyers
	AdjustAllowlist AdjustmentPolicy = "allowlist"
)

// PriceAdjustment lowers the computed per-request price by Percent for
// buyers admitted by the policy.
type PriceAdjustment struct {
	Percent   int64            `json:"percent"`
	Policy    AdjustmentPolicy `json:"policy"`
	Allowlist []string         `json:"allowlist,omitempty"`
}

// Eligible reports whether the buyer qualifies for the adjustment
func (a *PriceAdjustment) Eligible(buyer string) bool {
	switch a.Policy {
	case AdjustAlways:
		return true
	case AdjustAllowlist:
		for _, addr := range a.Allowlist {
			if strings.EqualFold(addr, buyer) {
				return true
			}
		}
	}
	return false
}

// DaoConfig is the fee-split and settlement configuration for the
// secondary market. Resale proceeds split into a DAO share, a platform
// share and the seller remainder; shares always sum to the amount paid.
type DaoConfig struct {
	// DaoAddress receives the DAO share; empty disables the DAO cut
	DaoAddress string `json:"dao_address,omitempty"`
	// PlatformPct and DaoPct are whole percentages; the seller keeps
	// 100 - PlatformPct - DaoPct
	PlatformPct int64 `json:"platform_pct"`
	DaoPct      int64 `json:"dao_pct"`
	// Adjustment optionally lowers primary-sale prices for qualifying buyers
	Adjustment *PriceAdjustment `json:"adjustment,omitempty"`
}

// Valid reports whether the percentage allocation is consistent
func (d *DaoConfig) Valid() bool {
	if d.PlatformPct < 0 || d.DaoPct < 0 {
		return false
	}
	if d.DaoPct > 0 && d.DaoAddress == "" {
		return false
	}
	if d.Adjustment != nil && (d.Adjustment.Percent < 0 || d.Adjustment.Percent > 100) {
		return false
	}
	return d.PlatformPct+d.DaoPct <= 100
}

// DefaultDaoConfig returns the initial secondary-market configuration:
// a 5% platform cut, no DAO, no price adjustment.
func DefaultDaoConfig() *DaoConfig {
	return &DaoConfig{PlatformPct: 5}
}

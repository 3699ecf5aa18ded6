package models

// Market identifies a binary betting market
type Market string

const (
	MarketOverUnder25 Market = "over_2_5"
)

// Threshold returns the goal line for the market
func (m Market) Threshold() float64 {
	switch m {
	case MarketOverUnder25:
		return 2.5
	default:
		return 2.5
	}
}

// Side represents the side of a binary over/under market
type Side string

const (
	SideOver  Side = "Over"
	SideUnder Side = "Under"
)

// Opposite returns the other side of the market
func (s Side) Opposite() Side {
	if s == SideOver {
		return SideUnder
	}
	return SideOver
}

// OddsSource identifies where a quote came from
type OddsSource string

const (
	OddsSourceOvertime    OddsSource = "overtime"
	OddsSourceAPIFootball OddsSource = "apifootball"
)

// OddsQuote is a point-in-time two-sided quote for a binary market.
// Either side may be absent; absent is not the same as 0.
type OddsQuote struct {
	Over   *float64   `json:"over_2_5"`
	Under  *float64   `json:"under_2_5"`
	Source OddsSource `json:"source,omitempty"`
}

// HasAnySide reports whether at least one price is present and above 1.0
func (q OddsQuote) HasAnySide() bool {
	return q.validSide(q.Over) || q.validSide(q.Under)
}

func (q OddsQuote) validSide(price *float64) bool {
	return price != nil && *price > 1.0
}

// PriceFor returns the quoted price for a side, nil when absent
func (q OddsQuote) PriceFor(side Side) *float64 {
	if side == SideOver {
		return q.Over
	}
	return q.Under
}

// IsTrusted reports whether the quote came from the preferred provider.
// The staking source-quality factor keys off this.
func (q OddsQuote) IsTrusted() bool {
	return q.Source == OddsSourceOvertime
}

// Float returns the dereferenced price or 0 when absent
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// FloatPtr returns a pointer to v
func FloatPtr(v float64) *float64 {
	return &v
}

package domain

import "github.com/shopspring/decimal"

// BillingCycle selects which price applies to a plan.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

// Plan is a hosting tier offered in the deploy wizard.
type Plan struct {
	PlanID       string          `json:"id"`
	Name         string          `json:"name"`
	RAM          string          `json:"ram"`
	CPU          string          `json:"cpu"`
	MaxPlayers   int             `json:"maxPlayers"` // 0 means unlimited
	MonthlyPrice decimal.Decimal `json:"monthlyPrice"`
	YearlyPrice  decimal.Decimal `json:"yearlyPrice"`
	Features     []string        `json:"features"`
	Popular      bool            `json:"popular"`
}

// PriceFor returns the price charged per billing period.
func (p Plan) PriceFor(cycle BillingCycle) decimal.Decimal {
	if cycle == BillingYearly {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}

// YearlySavings is what a yearly subscriber saves over twelve monthly payments.
func (p Plan) YearlySavings() decimal.Decimal {
	savings := p.MonthlyPrice.Mul(decimal.NewFromInt(12)).Sub(p.YearlyPrice)
	if savings.IsNegative() {
		return decimal.Zero
	}
	return savings
}

// IsFree reports whether the plan costs nothing.
func (p Plan) IsFree() bool {
	return p.MonthlyPrice.IsZero()
}

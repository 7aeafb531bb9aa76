package model

// Vehicle is a single interpreted vehicle intent.
type Vehicle struct {
	Make  *string `json:"make"`
	Model *string `json:"model"`
	Year  *int    `json:"year"`
	Trim  *string `json:"trim"`
}

// BudgetType classifies how the buyer expressed their budget.
type BudgetType string

const (
	BudgetMonthly BudgetType = "monthly"
	BudgetTotal   BudgetType = "total"
	BudgetUnknown BudgetType = "unknown"
)

// Budget is the extracted budget intent.
type Budget struct {
	Type     BudgetType `json:"type"`
	Value    *float64   `json:"value"`
	Currency string     `json:"currency"`
	Raw      *string    `json:"raw"`
}

// Timeline separates what the buyer said from what the model deduced.
type Timeline struct {
	Explicit *string `json:"explicit"`
	Inferred *string `json:"inferred"`
}

// TradeIn holds trade-in signals.
type TradeIn struct {
	HasTrade      bool    `json:"has_trade"`
	Desc          *string `json:"desc"`
	VIN           *string `json:"vin"`
	Mileage       *int    `json:"mileage"`
	Condition     *string `json:"condition"`
	NegEquityHint bool    `json:"neg_equity_hint"`
}

// FinancePreference is the buyer's stated payment preference.
type FinancePreference string

const (
	FinancePrefFinance FinancePreference = "Finance"
	FinancePrefCash    FinancePreference = "Cash"
	FinancePrefUnknown FinancePreference = "Unknown"
)

// Finance holds financing signals.
type Finance struct {
	Preference    FinancePreference `json:"preference"`
	CreditAnxiety bool              `json:"credit_anxiety"`
}

// Context holds high-level contextual inference about the buyer.
type Context struct {
	LifeEvents []string `json:"life_events"`
	Priorities []string `json:"priorities"` // e.g. ["safety","awd","mpg"]
	Passengers *int     `json:"passengers"`
	Usage      []string `json:"usage"` // e.g. ["commute","towing"]
}

// Extracted is the full structured interpretation of buyer intent
// produced by the extraction stage. Every field is independently
// defaultable; a well-formed Extracted can be built from {}.
type Extracted struct {
	Vehicles []Vehicle `json:"vehicles"`
	Budget   Budget    `json:"budget"`
	Timeline Timeline  `json:"timeline"`
	TradeIn  TradeIn   `json:"trade_in"`
	Finance  Finance   `json:"finance"`
	Context  Context   `json:"context"`
	Risks    []string  `json:"risks"`
}

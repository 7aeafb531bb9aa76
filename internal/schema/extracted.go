package schema

import (
	"github.com/sells-group/lead-intake/internal/model"
)

// ValidateExtracted defaults and checks a model-produced intent record.
// Every field is independently defaultable: validating a zero-value
// Extracted yields the fully-defaulted record (empty vehicle list,
// unknown budget in USD, Unknown finance preference, empty tag lists).
func ValidateExtracted(e *model.Extracted) error {
	v := &ValidationError{}
	validateExtracted(e, v, "")
	return v.err()
}

func validateExtracted(e *model.Extracted, v *ValidationError, prefix string) {
	if e.Vehicles == nil {
		e.Vehicles = []model.Vehicle{}
	}

	switch e.Budget.Type {
	case "":
		e.Budget.Type = model.BudgetUnknown
	case model.BudgetMonthly, model.BudgetTotal, model.BudgetUnknown:
	default:
		v.add(joinPath(prefix, "budget.type"), `must be "monthly", "total" or "unknown"`)
	}
	if e.Budget.Value != nil && *e.Budget.Value <= 0 {
		v.add(joinPath(prefix, "budget.value"), "must be positive")
	}
	if e.Budget.Currency == "" {
		e.Budget.Currency = "USD"
	}

	if e.TradeIn.Mileage != nil && *e.TradeIn.Mileage < 0 {
		v.add(joinPath(prefix, "trade_in.mileage"), "must not be negative")
	}

	switch e.Finance.Preference {
	case "":
		e.Finance.Preference = model.FinancePrefUnknown
	case model.FinancePrefFinance, model.FinancePrefCash, model.FinancePrefUnknown:
	default:
		v.add(joinPath(prefix, "finance.preference"), `must be "Finance", "Cash" or "Unknown"`)
	}

	if e.Context.LifeEvents == nil {
		e.Context.LifeEvents = []string{}
	}
	if e.Context.Priorities == nil {
		e.Context.Priorities = []string{}
	}
	if e.Context.Usage == nil {
		e.Context.Usage = []string{}
	}
	if e.Context.Passengers != nil && *e.Context.Passengers < 0 {
		v.add(joinPath(prefix, "context.passengers"), "must not be negative")
	}

	if e.Risks == nil {
		e.Risks = []string{}
	}
}

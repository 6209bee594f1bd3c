package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DeductionMethod string

const (
	DeductionMethodPerMinute DeductionMethod = "per_minute"
	DeductionMethodFixed     DeductionMethod = "fixed"
	DeductionMethodHourly    DeductionMethod = "hourly"
)

var DeductionMethodValues = []string{
	string(DeductionMethodPerMinute),
	string(DeductionMethodFixed),
	string(DeductionMethodHourly),
}

type TaxMethod string

const (
	TaxMethodProgressive TaxMethod = "progressive"
	TaxMethodFlat        TaxMethod = "flat"
)

// DeductionRule prices a late arrival or early departure.
type DeductionRule struct {
	Method DeductionMethod `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// TaxBracket taxes income above the previous bracket's upper edge at Rate percent.
// A nil To marks the open-ended top bracket.
type TaxBracket struct {
	From decimal.Decimal  `json:"from"`
	To   *decimal.Decimal `json:"to"`
	Rate decimal.Decimal  `json:"rate"`
}

// PayPolicy is the immutable set of payroll rules a calculation runs against.
type PayPolicy struct {
	OvertimeMultiplier        decimal.Decimal `json:"overtime_multiplier"`
	WeekendOvertimeMultiplier decimal.Decimal `json:"weekend_overtime_multiplier"`
	HolidayOvertimeMultiplier decimal.Decimal `json:"holiday_overtime_multiplier"`
	LateDeduction             DeductionRule   `json:"late_deduction"`
	EarlyDepartureDeduction   DeductionRule   `json:"early_departure_deduction"`
	TaxMethod                 TaxMethod       `json:"tax_method"`
	TaxBrackets               []TaxBracket    `json:"tax_brackets"`
	FlatTaxRate               decimal.Decimal `json:"flat_tax_rate"`
	BonusesEnabled            bool            `json:"bonuses_enabled"`
	DeductionsEnabled         bool            `json:"deductions_enabled"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// DefaultTaxBrackets are the stock progressive brackets.
func DefaultTaxBrackets() []TaxBracket {
	to1 := decimal.NewFromInt(1000)
	to2 := decimal.NewFromInt(3000)
	return []TaxBracket{
		{From: decimal.Zero, To: &to1, Rate: decimal.NewFromInt(10)},
		{From: decimal.NewFromInt(1001), To: &to2, Rate: decimal.NewFromInt(15)},
		{From: decimal.NewFromInt(3001), To: nil, Rate: decimal.NewFromInt(20)},
	}
}

func DefaultPolicy() PayPolicy {
	return PayPolicy{
		OvertimeMultiplier:        decimal.RequireFromString("1.5"),
		WeekendOvertimeMultiplier: decimal.RequireFromString("2.0"),
		HolidayOvertimeMultiplier: decimal.RequireFromString("2.5"),
		LateDeduction:             DeductionRule{Method: DeductionMethodPerMinute, Amount: decimal.Zero},
		EarlyDepartureDeduction:   DeductionRule{Method: DeductionMethodPerMinute, Amount: decimal.Zero},
		TaxMethod:                 TaxMethodProgressive,
		TaxBrackets:               DefaultTaxBrackets(),
		FlatTaxRate:               decimal.NewFromInt(15),
		BonusesEnabled:            true,
		DeductionsEnabled:         true,
	}
}

var (
	minMultiplier = decimal.NewFromInt(1)
	maxMultiplier = decimal.NewFromInt(5)
	minRate       = decimal.Zero
	maxRate       = decimal.NewFromInt(100)
)

// Validate checks every policy invariant and returns validator.ValidationErrors.
func (p PayPolicy) Validate() error {
	var errs validator.ValidationErrors

	multipliers := []struct {
		field string
		value decimal.Decimal
	}{
		{"overtime_multiplier", p.OvertimeMultiplier},
		{"weekend_overtime_multiplier", p.WeekendOvertimeMultiplier},
		{"holiday_overtime_multiplier", p.HolidayOvertimeMultiplier},
	}
	for _, m := range multipliers {
		if !validator.IsInRange(m.value, minMultiplier, maxMultiplier) {
			errs.Add(m.field, m.field+" must be between 1 and 5")
		}
	}

	validateRule(&errs, "late_deduction", p.LateDeduction)
	validateRule(&errs, "early_departure_deduction", p.EarlyDepartureDeduction)

	switch p.TaxMethod {
	case TaxMethodProgressive:
		if len(p.TaxBrackets) == 0 {
			errs.Add("tax_brackets", "tax_brackets are required for progressive tax")
		}
	case TaxMethodFlat:
	default:
		errs.Add("tax_method", "tax_method must be one of: progressive, flat")
	}

	if len(p.TaxBrackets) > 0 {
		if err := ValidateTaxBrackets(p.TaxBrackets); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				errs = append(errs, verrs...)
			}
		}
	}

	if !validator.IsInRange(p.FlatTaxRate, minRate, maxRate) {
		errs.Add("flat_tax_rate", "flat_tax_rate must be between 0 and 100")
	}

	return errs.Err()
}

func validateRule(errs *validator.ValidationErrors, field string, r DeductionRule) {
	if !validator.IsInSlice(string(r.Method), DeductionMethodValues) {
		errs.Add(field+".method", "method must be one of: per_minute, fixed, hourly")
	}
	if r.Amount.IsNegative() {
		errs.Add(field+".amount", "amount must not be negative")
	}
}

// ValidateTaxBrackets checks that brackets start at 0, are sorted and contiguous, and
// end with exactly one open bracket. Contiguous means the next From equals the
// previous To or the previous To plus one.
func ValidateTaxBrackets(brackets []TaxBracket) error {
	var errs validator.ValidationErrors

	if len(brackets) == 0 {
		errs.Add("tax_brackets", "at least one tax bracket is required")
		return errs
	}

	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		field := fmt.Sprintf("tax_brackets[%d]", i)
		last := i == len(brackets)-1

		if !validator.IsInRange(b.Rate, minRate, maxRate) {
			errs.Add(field+".rate", "rate must be between 0 and 100")
		}

		if i == 0 {
			if !b.From.IsZero() {
				errs.Add(field+".from", "first bracket must start at 0")
			}
		} else if prev := brackets[i-1]; prev.To != nil {
			if !b.From.Equal(*prev.To) && !b.From.Equal(prev.To.Add(one)) {
				errs.Add(field+".from", "bracket must start where the previous bracket ends")
			}
		}

		switch {
		case b.To == nil && !last:
			errs.Add(field+".to", "only the last bracket may be open-ended")
		case b.To != nil && last:
			errs.Add(field+".to", "last bracket must be open-ended")
		case b.To != nil && !b.To.GreaterThan(b.From):
			errs.Add(field+".to", "to must be greater than from")
		}
	}

	return errs.Err()
}

package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateTax withholds tax on income according to the policy's tax method. The
// result is rounded to cents; non-positive income is never taxed.
func CalculateTax(income decimal.Decimal, policy payroll.PayPolicy) (decimal.Decimal, error) {
	if !income.IsPositive() {
		return decimal.Zero, nil
	}

	switch policy.TaxMethod {
	case payroll.TaxMethodFlat:
		return income.Mul(policy.FlatTaxRate).Div(hundred).Round(2), nil
	case payroll.TaxMethodProgressive:
		if err := payroll.ValidateTaxBrackets(policy.TaxBrackets); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", payroll.ErrInvalidPolicy, err)
		}
		return ProgressiveTax(income, policy.TaxBrackets).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown tax method %q", payroll.ErrInvalidPolicy, policy.TaxMethod)
	}
}

// ProgressiveTax walks validated brackets in order. Each bracket taxes the slice of
// income between the previous bracket's upper edge and its own, so whole-unit edges
// such as {0,1000},{1001,3000} leave no untaxed gap.
func ProgressiveTax(income decimal.Decimal, brackets []payroll.TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	if !income.IsPositive() || len(brackets) == 0 {
		return tax
	}

	lower := brackets[0].From
	for _, b := range brackets {
		if b.To == nil {
			if income.GreaterThan(lower) {
				tax = tax.Add(income.Sub(lower).Mul(b.Rate).Div(hundred))
			}
			break
		}

		upper := decimal.Min(*b.To, income)
		if upper.GreaterThan(lower) {
			tax = tax.Add(upper.Sub(lower).Mul(b.Rate).Div(hundred))
		}
		if income.LessThanOrEqual(*b.To) {
			break
		}
		lower = *b.To
	}

	return tax
}

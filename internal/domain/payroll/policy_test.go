package payroll

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestDefaultPolicy_IsValid(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
}

func TestValidateTaxBrackets(t *testing.T) {
	cases := []struct {
		name     string
		brackets []TaxBracket
		field    string
	}{
		{
			name:     "inclusive whole-unit edges",
			brackets: DefaultTaxBrackets(),
		},
		{
			name: "shared edges",
			brackets: []TaxBracket{
				{From: d("0"), To: dp("1000"), Rate: d("10")},
				{From: d("1000"), To: nil, Rate: d("20")},
			},
		},
		{
			name:     "single open bracket",
			brackets: []TaxBracket{{From: d("0"), Rate: d("5")}},
		},
		{
			name:  "empty",
			field: "tax_brackets",
		},
		{
			name: "first does not start at zero",
			brackets: []TaxBracket{
				{From: d("100"), To: nil, Rate: d("10")},
			},
			field: "tax_brackets[0].from",
		},
		{
			name: "gap between brackets",
			brackets: []TaxBracket{
				{From: d("0"), To: dp("1000"), Rate: d("10")},
				{From: d("1500"), To: nil, Rate: d("20")},
			},
			field: "tax_brackets[1].from",
		},
		{
			name: "overlap",
			brackets: []TaxBracket{
				{From: d("0"), To: dp("1000"), Rate: d("10")},
				{From: d("900"), To: nil, Rate: d("20")},
			},
			field: "tax_brackets[1].from",
		},
		{
			name: "open bracket not last",
			brackets: []TaxBracket{
				{From: d("0"), To: nil, Rate: d("10")},
				{From: d("1000"), To: nil, Rate: d("20")},
			},
			field: "tax_brackets[0].to",
		},
		{
			name: "last bracket closed",
			brackets: []TaxBracket{
				{From: d("0"), To: dp("1000"), Rate: d("10")},
				{From: d("1001"), To: dp("3000"), Rate: d("20")},
			},
			field: "tax_brackets[1].to",
		},
		{
			name: "rate above 100",
			brackets: []TaxBracket{
				{From: d("0"), To: nil, Rate: d("101")},
			},
			field: "tax_brackets[0].rate",
		},
		{
			name: "to not above from",
			brackets: []TaxBracket{
				{From: d("0"), To: dp("0"), Rate: d("10")},
				{From: d("1"), To: nil, Rate: d("20")},
			},
			field: "tax_brackets[0].to",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateTaxBrackets(c.brackets)
			if c.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), c.field)
		})
	}
}

func TestPayPolicy_Validate(t *testing.T) {
	p := DefaultPolicy()
	p.OvertimeMultiplier = d("0.5")
	p.HolidayOvertimeMultiplier = d("6")
	p.LateDeduction = DeductionRule{Method: "per_hour", Amount: d("-1")}
	p.TaxMethod = "weird"
	p.FlatTaxRate = d("150")

	err := p.Validate()
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := verrs.ToMap()
	for _, f := range []string{
		"overtime_multiplier",
		"holiday_overtime_multiplier",
		"late_deduction.method",
		"late_deduction.amount",
		"tax_method",
		"flat_tax_rate",
	} {
		assert.Contains(t, fields, f)
	}
	assert.NotContains(t, fields, "weekend_overtime_multiplier")
}

func TestPayPolicy_ProgressiveRequiresBrackets(t *testing.T) {
	p := DefaultPolicy()
	p.TaxBrackets = nil
	err := p.Validate()
	require.Error(t, err)

	p.TaxMethod = TaxMethodFlat
	assert.NoError(t, p.Validate())
}

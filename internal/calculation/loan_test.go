package calculation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fund-calculator/internal/domain"
)

func TestLoanEMI(t *testing.T) {
	result, err := LoanEMI(dec("1000000"), dec("8.5"), 20)
	require.NoError(t, err)

	assert.Equal(t, "emi", result.Mode)
	assert.Equal(t, "8678.23", result.EMI.StringFixed(2))
	assert.Equal(t, "2082775.20", result.TotalPayment.StringFixed(2))
	assert.Equal(t, "1082775.20", result.TotalInterest.StringFixed(2))

	require.Len(t, result.Sensitivity, 9)
	assert.Equal(t, "6.5", result.Sensitivity[0].AnnualRatePercent.String())
	assert.Equal(t, "10.5", result.Sensitivity[8].AnnualRatePercent.String())
	assert.True(t, result.Sensitivity[4].EMI.Equal(result.EMI))
	for i := 1; i < len(result.Sensitivity); i++ {
		assert.True(t, result.Sensitivity[i].EMI.GreaterThan(result.Sensitivity[i-1].EMI))
	}

	require.Len(t, result.Schedule, 240)
	repaid := decimal.Zero
	for _, row := range result.Schedule {
		repaid = repaid.Add(row.Principal)
	}
	assert.Equal(t, "1000000", repaid.String())
	assert.True(t, result.Schedule[239].Balance.IsZero())
	assert.True(t, result.Schedule[0].Interest.GreaterThan(result.Schedule[239].Interest))
}

func TestLoanEMI_ZeroRate(t *testing.T) {
	result, err := LoanEMI(dec("100000"), dec("0"), 1)
	require.NoError(t, err)
	assert.Equal(t, "8333.33", result.EMI.String())
	require.Len(t, result.Schedule, 12)
	assert.Equal(t, "8333.37", result.Schedule[11].Payment.String())
	assert.True(t, result.Schedule[11].Balance.IsZero())
	assert.True(t, result.TotalInterest.LessThan(decimal.Zero), "rounded EMI undershoots the principal")
}

func TestEMISensitivity_SkipsNegativeRates(t *testing.T) {
	points := EMISensitivity(dec("120000"), dec("1"), 12)
	require.Len(t, points, 7)
	assert.True(t, points[0].AnnualRatePercent.IsZero())
	assert.Equal(t, "10000", points[0].EMI.String())
}

func TestLoanEMI_Errors(t *testing.T) {
	_, err := LoanEMI(dec("0"), dec("8"), 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = LoanEMI(dec("1000"), dec("-1"), 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = LoanEMI(dec("1000"), dec("8"), 0.01)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestLoanTenure(t *testing.T) {
	result, err := LoanTenure(dec("500000"), dec("9"), dec("10000"))
	require.NoError(t, err)
	assert.InDelta(t, 5.2418, result.TenureYears, 1e-3)

	result, err = LoanTenure(dec("120000"), dec("0"), dec("10000"))
	require.NoError(t, err)
	assert.InDelta(t, 1, result.TenureYears, 1e-9)

	_, err = LoanTenure(dec("500000"), dec("9"), dec("3000"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "EMI below monthly interest never repays")
}

func TestLoanRate(t *testing.T) {
	result, err := LoanRate(dec("1000000"), dec("8678.23"), 20)
	require.NoError(t, err)
	assert.InDelta(t, 8.5, result.AnnualRatePercent.InexactFloat64(), 0.01)

	emi, err := LoanEMI(dec("250000"), dec("13.25"), 3)
	require.NoError(t, err)
	result, err = LoanRate(dec("250000"), emi.EMI, 3)
	require.NoError(t, err)
	assert.InDelta(t, 13.25, result.AnnualRatePercent.InexactFloat64(), 0.01)

	_, err = LoanRate(dec("100000"), dec("500"), 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

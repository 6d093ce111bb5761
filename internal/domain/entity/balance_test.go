package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSumContributingSkipsSentinelsAndNonPositive(t *testing.T) {
	balances := []AddressBalance{
		Balance(decimal.RequireFromString("0.5")),
		NotFound(),
		Balance(decimal.Zero),
		Balance(decimal.RequireFromString("-3")),
		Balance(decimal.RequireFromString("1.25")),
	}

	assert.True(t, SumContributing(balances).Equal(decimal.RequireFromString("1.75")))
}

func TestNotFoundNeverContributes(t *testing.T) {
	nf := NotFound()
	nf.Amount = decimal.NewFromInt(100)

	assert.False(t, nf.Contributes())
	assert.True(t, SumContributing([]AddressBalance{nf}).IsZero())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, LookupNone, StatusOf(nil))
	assert.Equal(t, LookupOK, StatusOf([]AddressBalance{Balance(decimal.Zero)}))
	assert.Equal(t, LookupPartial, StatusOf([]AddressBalance{Balance(decimal.Zero), NotFound()}))
}

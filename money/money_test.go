package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Cents
		wantErr  bool
	}{
		{name: "two decimals", input: "18.99", expected: 1899},
		{name: "one decimal", input: "12.5", expected: 1250},
		{name: "whole number", input: "7", expected: 700},
		{name: "zero", input: "0", expected: 0},
		{name: "surrounding spaces", input: " 3.60 ", expected: 360},
		{name: "three decimals", input: "1.999", wantErr: true},
		{name: "negative", input: "-1.00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "trailing zeros", input: "2.500", expected: 250},
		{name: "exponent", input: "1.5e1", expected: 1500},
		{name: "letters", input: "12abc", wantErr: true},
		{name: "largest", input: "999999999.99", expected: 99999999999},
		{name: "too large", input: "1000000000", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := Parse(testCase.input)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "44.97", Cents(4497).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-3.60", Cents(-360).String())
}

func TestCentsJSON(t *testing.T) {
	var payload struct {
		Price Cents `json:"price"`
		Total Cents `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.99,"total":"48.57"}`), &payload))
	assert.Equal(t, Cents(1299), payload.Price)
	assert.Equal(t, Cents(4857), payload.Total)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":12.99,"total":48.57}`, string(out))

	err = json.Unmarshal([]byte(`{"price":0.125}`), &payload)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCentsDecimal(t *testing.T) {
	assert.True(t, decimal.RequireFromString("18.99").Equal(Cents(1899).Decimal()))

	c, err := FromDecimal(decimal.New(4857, -2))
	require.NoError(t, err)
	assert.Equal(t, Cents(4857), c)

	_, err = FromDecimal(decimal.New(-1, 0))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCentsMul(t *testing.T) {
	assert.Equal(t, Cents(2598), MustParse("12.99").Mul(2))
}

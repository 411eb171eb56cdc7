package pricelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3,20", "3.20"},
		{"3.20", "3.20"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1.234.567", "1234567.00"},
		{"€ 4,90", "4.90"},
		{"4,90€", "4.90"},
		{"-2,5", "-2.50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "€", "1,2,3.4,5"} {
		_, err := parseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestParseCount(t *testing.T) {
	n, err := parseCount("12,00")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = parseCount("1,5")
	assert.Error(t, err)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "τιμη αγορας", normalizeHeader("  Τιμή_Αγοράς "))
	assert.Equal(t, "cost price", normalizeHeader("Cost-Price"))
	assert.Equal(t, "κωδικος προμηθευτη", normalizeHeader("ΚΩΔΙΚΟΣ  ΠΡΟΜΗΘΕΥΤΗ"))
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter("a;b;c\n1;2,5;3\n"))
	assert.Equal(t, ',', detectDelimiter("a,b,c\n1,2.5,3\n"))
	assert.Equal(t, '\t', detectDelimiter("a\tb\tc\n"))
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTableName(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  TableName
		expectErr bool
	}{
		{
			name:     "Lowest numeric",
			raw:      "00",
			expected: TableName{Kind: KindNumeric, Number: 0},
		},
		{
			name:     "Highest numeric",
			raw:      "20",
			expected: TableName{Kind: KindNumeric, Number: 20},
		},
		{
			name:     "Alphanumeric",
			raw:      "B03",
			expected: TableName{Kind: KindAlphanumeric, Letter: 'B', Number: 3},
		},
		{
			name:     "Last alphanumeric",
			raw:      "Z20",
			expected: TableName{Kind: KindAlphanumeric, Letter: 'Z', Number: 20},
		},
		{
			name:     "Surrounding spaces are trimmed",
			raw:      " 07 ",
			expected: TableName{Kind: KindNumeric, Number: 7},
		},
		{
			name:      "Numeric out of range",
			raw:       "21",
			expectErr: true,
		},
		{
			name:      "Missing zero padding",
			raw:       "6",
			expectErr: true,
		},
		{
			name:      "Alphanumeric zero suffix",
			raw:       "A00",
			expectErr: true,
		},
		{
			name:      "Lowercase letter",
			raw:       "a01",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseTableName(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNumeric, Classify("07"))
	assert.Equal(t, KindAlphanumeric, Classify("N05"))
	assert.Equal(t, KindLegacy, Classify("6"))
	assert.Equal(t, KindLegacy, Classify("B00"))
	assert.Equal(t, KindLegacy, Classify(" 07"))
}

func TestTableName_String(t *testing.T) {
	assert.Equal(t, "00", TableName{Kind: KindNumeric}.String())
	assert.Equal(t, "C14", TableName{Kind: KindAlphanumeric, Letter: 'C', Number: 14}.String())
	assert.Equal(t, "", TableName{Kind: KindLegacy}.String())
}

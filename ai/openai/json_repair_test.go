package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "missing quote after brace",
			in:   `{module": "KYC/KYB"}`,
			want: `{"module": "KYC/KYB"}`,
		},
		{
			name: "missing quote after comma",
			in:   `{"module": "KYC/KYB", estimated_price": "$0.50"}`,
			want: `{"module": "KYC/KYB", "estimated_price": "$0.50"}`,
		},
		{
			name: "valid json untouched",
			in:   `{"module": "Payment Gateway", "confidence": 80}`,
			want: `{"module": "Payment Gateway", "confidence": 80}`,
		},
		{
			name: "bare word that is not a key",
			in:   `{"note": "KYC, AML and fraud"}`,
			want: `{"note": "KYC, AML and fraud"}`,
		},
		{
			name: "whitespace before broken key",
			in:   "{\n  confidence\": 75}",
			want: "{\n  \"confidence\": 75}",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, repairJSON(tc.in))
		})
	}
}

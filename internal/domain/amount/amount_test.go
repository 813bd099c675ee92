package amount

import (
	"math/big"
	"testing"
)

func TestParseUint(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "small", input: "42", want: "42", wantOK: true},
		{name: "zero", input: "0", want: "0", wantOK: true},
		{name: "beyond uint64", input: "1700000000000000000000000000", want: "1700000000000000000000000000", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "negative", input: "-5", wantOK: false},
		{name: "exponent", input: "1e18", wantOK: false},
		{name: "fraction", input: "1.5", wantOK: false},
		{name: "whitespace", input: " 12", wantOK: false},
		{name: "hex", input: "0x10", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseUint(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseUint(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("ParseUint(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestPow10(t *testing.T) {
	if got := Pow10(0).String(); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
	if got := Pow10(-3).String(); got != "1" {
		t.Errorf("expected 1 for negative exponent, got %s", got)
	}
	if got := Pow10(24).String(); got != "1000000000000000000000000" {
		t.Errorf("unexpected 10^24: %s", got)
	}
}

func TestRescale(t *testing.T) {
	raw := big.NewInt(15)

	got := Rescale(raw, 2, 6)
	if got.String() != "150000" {
		t.Errorf("expected 150000, got %s", got.String())
	}
	if raw.String() != "15" {
		t.Errorf("input was modified: %s", raw.String())
	}

	same := Rescale(raw, 4, 4)
	if same.String() != "15" {
		t.Errorf("expected 15, got %s", same.String())
	}
	if same == raw {
		t.Error("expected a copy, got the same pointer")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      *big.Int
		decimals int
		want     float64
	}{
		{name: "nil", raw: nil, decimals: 18, want: 0},
		{name: "zero", raw: big.NewInt(0), decimals: 6, want: 0},
		{name: "no decimals", raw: big.NewInt(1234), decimals: 0, want: 1234},
		{name: "usdt style", raw: big.NewInt(2500000), decimals: 6, want: 2.5},
		{
			name: "24 decimals",
			raw: func() *big.Int {
				v, _ := new(big.Int).SetString("3000000000000000000000000", 10)
				return v
			}(),
			decimals: 24,
			want:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw, tt.decimals); got != tt.want {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_ExactSumBeforeConversion(t *testing.T) {
	// 0.1 + 0.2 drifts in float64, the integer sum does not
	a := big.NewInt(1)
	b := big.NewInt(2)
	sum := new(big.Int).Add(a, b)

	if got := Normalize(sum, 1); got != 0.3 {
		t.Errorf("expected 0.3, got %v", got)
	}
}

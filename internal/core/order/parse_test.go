package order

import (
	"errors"
	"testing"

	"github.com/example/ordens/internal/core/errs"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"display format", "15/03/2024", "2024-03-15", false},
		{"iso format", "2024-03-15", "2024-03-15", false},
		{"surrounding spaces", "  15/03/2024 ", "2024-03-15", false},
		{"blank is no date", "   ", "", false},
		{"empty is no date", "", "", false},
		{"month out of range", "15/13/2024", "", true},
		{"garbage", "ontem", "", true},
		{"american order", "03-15-2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate("billed_date", tt.input)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrFormat) {
					t.Fatalf("expected format error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-03-15"); got != "15/03/2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate(""); got != "" {
		t.Errorf("FormatDate(\"\") = %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantNil bool
		wantErr bool
	}{
		{input: "123.45", want: 123.45},
		{input: "1.234,56", want: 1234.56},
		{input: "R$ 1.234,56", want: 1234.56},
		{input: "R$1234,5", want: 1234.5},
		{input: "1.234.567", want: 1234567},
		{input: "800", want: 800},
		{input: "", wantNil: true},
		{input: "  ", wantNil: true},
		{input: "doze reais", wantErr: true},
		{input: "1,2,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount("net_amount", tt.input)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrFormat) {
					t.Fatalf("expected format error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input *float64
		want  string
	}{
		{nil, ""},
		{amount(0), "0,00"},
		{amount(123.45), "123,45"},
		{amount(1234.56), "1.234,56"},
		{amount(1234567.8), "1.234.567,80"},
		{amount(-50), "-50,00"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.input); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

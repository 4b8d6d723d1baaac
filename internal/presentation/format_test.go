package presentation

import (
	"strings"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999.994, "$999.99"},
		{1000, "$1.00K"},
		{12345.678, "$12.35K"},
		{1_000_000, "$1.00M"},
		{512345678.9, "$512.35M"},
		{2996123456.7, "$3.00B"},
		{1_500_000_000_000, "$1500.00B"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0000071234, "$0.00000712"},
		{0.00999999999, "$0.01000000"},
		{0.01, "$0.01"},
		{1.005, "$1.01"},
		{64123.456, "$64123.46"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatChange(t *testing.T) {
	if got := FormatChange(1.234); got != "🟢 +1.23%" {
		t.Errorf("unexpected positive change %q", got)
	}
	if got := FormatChange(0); got != "🟢 +0.00%" {
		t.Errorf("unexpected zero change %q", got)
	}
	if got := FormatChange(-3.456); got != "🔴 -3.46%" {
		t.Errorf("unexpected negative change %q", got)
	}
	for _, pct := range []float64{-0.001, -0.004} {
		if got := FormatChange(pct); got != "🔴 -0.00%" {
			t.Errorf("FormatChange(%v) = %q, want negative zero", pct, got)
		}
	}
}

func TestFormatSupply(t *testing.T) {
	v := 420690000000000.75
	if got := FormatSupply(&v, "PEPE"); got != "420,690,000,000,000 PEPE" {
		t.Errorf("unexpected supply %q", got)
	}

	small := 999.99
	if got := FormatSupply(&small, "X"); got != "999 X" {
		t.Errorf("expected floor, got %q", got)
	}

	zero := 0.0
	if got := FormatSupply(&zero, "X"); got != "N/A" {
		t.Errorf("expected N/A for zero, got %q", got)
	}
	if got := FormatSupply(nil, "X"); got != "N/A" {
		t.Errorf("expected N/A for nil, got %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value, scale float64
		want         string
	}{
		{1200, 100, "12.00%"},
		{12.345, 100, "0.12%"},
		{12.345, 1, "12.35%"},
		{5000, 100, "50.00%"},
		{1200, 0, "12.00%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.value, tt.scale); got != tt.want {
			t.Errorf("FormatPercent(%v, %v) = %q, want %q", tt.value, tt.scale, got, tt.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := map[float64]string{
		54.0:  "54",
		87.7:  "87.7",
		0:     "0",
		100.0: "100",
	}
	for in, want := range tests {
		if got := FormatScore(in); got != want {
			t.Errorf("FormatScore(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateDescription(t *testing.T) {
	short := "A short description."
	if got := TruncateDescription(short, DescriptionLimit); got != short {
		t.Errorf("short description changed: %q", got)
	}

	long := strings.Repeat("a", 250)
	got := TruncateDescription(long, DescriptionLimit)
	if got != strings.Repeat("a", 200)+"..." {
		t.Errorf("unexpected truncation length %d", len(got))
	}

	// Multi-byte characters count as one.
	emoji := strings.Repeat("🚀", 201)
	if got := TruncateDescription(emoji, DescriptionLimit); got != strings.Repeat("🚀", 200)+"..." {
		t.Error("expected rune-based truncation")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	got := EscapeMarkdown("Uniswap_V2 *LP* [x] `y`")
	want := "Uniswap\\_V2 \\*LP\\* \\[x] \\`y\\`"
	if got != want {
		t.Errorf("EscapeMarkdown = %q, want %q", got, want)
	}
}

func TestEscapeMarkdown_KeepsBackslash(t *testing.T) {
	if got := EscapeMarkdown(`a\b_c`); got != `a\b\_c` {
		t.Errorf("EscapeMarkdown = %q, want %q", got, `a\b\_c`)
	}
}

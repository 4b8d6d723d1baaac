package analyzer

import (
	"strings"
	"testing"

	"bubblemaps-bot/internal/domain"
)

func TestHolderLabel(t *testing.T) {
	tests := []struct {
		name string
		node domain.HolderNode
		want string
	}{
		{
			name: "name verbatim",
			node: domain.HolderNode{Address: "0xabcdef0123456789abcdef0123456789abcdef01", Name: "Binance Hot Wallet"},
			want: "Binance Hot Wallet",
		},
		{
			name: "name with markdown untouched",
			node: domain.HolderNode{Address: "0xabcdef0123456789abcdef0123456789abcdef01", Name: "Uniswap_V2 *LP*"},
			want: "Uniswap_V2 *LP*",
		},
		{
			name: "evm fallback",
			node: domain.HolderNode{Address: "0xabcdef0123456789abcdef0123456789abcd1234"},
			want: "0xabcd...1234",
		},
		{
			name: "blank name falls back",
			node: domain.HolderNode{Address: "0xabcdef0123456789abcdef0123456789abcd1234", Name: "   "},
			want: "0xabcd...1234",
		},
		{
			name: "solana fallback",
			node: domain.HolderNode{Address: "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"},
			want: "5Q544f...e4j1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HolderLabel(tt.node); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTruncateAddress_Marker(t *testing.T) {
	addr := "0x" + strings.Repeat("f", 40)
	got := TruncateAddress(addr)
	if !strings.Contains(got, "...") {
		t.Errorf("expected truncation marker in %q", got)
	}
	if !strings.HasPrefix(got, addr[:6]) || !strings.HasSuffix(got, addr[len(addr)-4:]) {
		t.Errorf("unexpected truncation %q", got)
	}
}

func TestTruncateAddress_Short(t *testing.T) {
	for _, addr := range []string{"", "0x", "0x12345678"} {
		if got := TruncateAddress(addr); got != addr {
			t.Errorf("expected %q unchanged, got %q", addr, got)
		}
	}
}

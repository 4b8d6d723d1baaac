package analyzer

import "bubblemaps-bot/internal/domain"

const (
	labelPrefixLen = 6
	labelSuffixLen = 4
	labelEllipsis  = "..."
)

// HolderLabel returns the node name when set, otherwise a truncated
// address: first 6 characters, "...", last 4 characters.
func HolderLabel(node domain.HolderNode) string {
	if node.HasName() {
		return node.Name
	}
	return TruncateAddress(node.Address)
}

// TruncateAddress shortens addr for display. Addresses too short to
// truncate meaningfully are returned whole.
func TruncateAddress(addr string) string {
	if len(addr) <= labelPrefixLen+labelSuffixLen {
		return addr
	}
	return addr[:labelPrefixLen] + labelEllipsis + addr[len(addr)-labelSuffixLen:]
}

package presentation

import (
	"fmt"
	"strings"

	"bubblemaps-bot/internal/domain"
)

// MarketUnavailable is sent in place of the market message when market
// data could not be fetched.
const MarketUnavailable = "Sorry, could not retrieve token information."

// ScreenshotUnavailable is sent when the bubble map could not be rendered.
const ScreenshotUnavailable = "Could not generate bubble map screenshot. Please check the token on Bubblemaps website."

// MarketMessage renders token market data.
func MarketMessage(info *domain.TokenInfo) string {
	if info == nil {
		return MarketUnavailable
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s (%s)*\n\n", EscapeMarkdown(info.Name), EscapeMarkdown(info.Symbol))
	fmt.Fprintf(&b, "💰 *Price*: %s %s\n", FormatPrice(info.Price), FormatChange(info.PercentChange24h))
	fmt.Fprintf(&b, "📊 *Market Cap*: %s\n", FormatCurrency(info.MarketCap))
	fmt.Fprintf(&b, "📈 *24h Volume*: %s\n", FormatCurrency(info.Volume24h))
	fmt.Fprintf(&b, "🏦 *Circulating Supply*: %s\n\n", EscapeMarkdown(FormatSupply(info.CirculatingSupply, info.Symbol)))

	if desc := strings.TrimSpace(info.Description); desc != "" {
		b.WriteString(EscapeMarkdown(TruncateDescription(desc, DescriptionLimit)))
		b.WriteString("\n\n")
	}

	if links := linksLine(info); links != "" {
		b.WriteString("*Links*: ")
		b.WriteString(links)
	}

	return strings.TrimRight(b.String(), "\n")
}

func linksLine(info *domain.TokenInfo) string {
	var links []string
	for _, l := range []struct{ label, url string }{
		{"Website", info.Website},
		{"Explorer", info.Explorer},
		{"Twitter", info.Twitter},
	} {
		if l.url != "" {
			links = append(links, fmt.Sprintf("[%s](%s)", l.label, escapeURL(l.url)))
		}
	}
	return strings.Join(links, " | ")
}

// ScoreMessage renders the decentralization score followed by the top
// holders. A nil summary renders the score as unavailable. scale converts
// holder percentages from upstream units to human percent.
func ScoreMessage(summary *domain.DistributionSummary, scale float64) string {
	var b strings.Builder

	if summary == nil {
		b.WriteString("🔐 *Decentralization Score*: unavailable\n\n")
		b.WriteString("👥 *Top 10 Holders:*\n")
		b.WriteString("No holder data available.")
		return b.String()
	}

	fmt.Fprintf(&b, "🔐 *Decentralization Score*: %s/100\n\n", FormatScore(summary.Score))
	b.WriteString("👥 *Top 10 Holders:*\n")
	for _, h := range summary.TopHolders {
		fmt.Fprintf(&b, "%d. %s: %s\n", h.Rank, EscapeMarkdown(h.Label), FormatPercent(h.Percentage, scale))
	}

	return strings.TrimRight(b.String(), "\n")
}

// GraphErrorMessage renders a holder graph failure.
func GraphErrorMessage(err error) string {
	return "Error fetching bubble map data: " + err.Error()
}

// PhotoCaption captions the bubble map screenshot.
func PhotoCaption(symbol string, chain domain.Chain) string {
	if symbol == "" {
		symbol = "token"
	}
	return fmt.Sprintf("🔍 Bubble Map for %s (%s)", symbol, chain.Label())
}

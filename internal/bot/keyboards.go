package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bubblemaps-bot/internal/domain"
)

// Callback data values.
const (
	cbSearchToken = "search_token"
	cbChangeChain = "change_chain"
	cbShowHelp    = "show_help"
	cbShowChain   = "show_chain"
	cbMainMenu    = "main_menu"
	cbSetChain    = "set_chain:"
)

// chainMenuColumns is the number of chain buttons per row.
const chainMenuColumns = 2

func mainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Search Token", cbSearchToken),
			tgbotapi.NewInlineKeyboardButtonData("⛓️ Change Chain", cbChangeChain),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Help", cbShowHelp),
			tgbotapi.NewInlineKeyboardButtonData("📊 My Current Chain", cbShowChain),
		),
	)
}

func chainMenu() tgbotapi.InlineKeyboardMarkup {
	chains := domain.SupportedChains()
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(chains)/chainMenuColumns+2)

	for i := 0; i < len(chains); i += chainMenuColumns {
		var row []tgbotapi.InlineKeyboardButton
		for _, c := range chains[i:min(i+chainMenuColumns, len(chains))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Label(), cbSetChain+c.String()))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Main Menu", cbMainMenu),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tokenKeyboard(mapURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("View on Bubblemaps", mapURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", cbMainMenu),
		),
	)
}

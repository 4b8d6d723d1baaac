package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bubblemaps-bot/internal/domain"
)

const (
	welcomeText = "Welcome to Bubblemaps Telegram Bot! 🎯\n\n" +
		"I can show you bubble maps for any token contract address.\n\n" +
		"Use the menu below to get started:"

	menuText       = "Please select an option:"
	mainMenuText   = "Main menu:"
	selectChain    = "Select blockchain:"
	specifyChain   = "Please specify a valid chain:"
	processingText = "Processing your request. This may take a few moments..."

	optionsHelpText = "Available options:\n\n" +
		"🔍 Search Token - Analyze a token contract\n" +
		"⛓️ Change Chain - Switch to a different blockchain\n" +
		"ℹ️ Help - Show this help message\n" +
		"📊 My Current Chain - Show currently selected blockchain\n\n" +
		"You can also simply send a contract address at any time to analyze it."

	unknownOption = "Unknown option"
)

func commandsHelpText() string {
	codes := make([]string, 0, 10)
	for _, c := range domain.SupportedChains() {
		codes = append(codes, c.String())
	}
	return "Available commands:\n\n" +
		"/start - Start the bot and show main menu\n" +
		"/help - Show this help message\n" +
		"/menu - Show main menu\n" +
		"/setchain [chain] - Set blockchain (" + strings.Join(codes, ", ") + ")\n\n" +
		"Or simply send me a contract address and I'll analyze it for you!"
}

// botCommands are published with setMyCommands at startup.
func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot and show main menu"},
		{Command: "menu", Description: "Show the main menu"},
		{Command: "help", Description: "Show help information"},
		{Command: "setchain", Description: "Set blockchain network (eth, bsc, etc.)"},
	}
}

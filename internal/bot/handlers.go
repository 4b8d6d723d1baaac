package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bubblemaps-bot/internal/address"
	"bubblemaps-bot/internal/domain"
)

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID

	switch m.Command() {
	case "start":
		b.resetSession(ctx, chatID)
		b.reply(chatID, welcomeText, ptr(mainMenu()))
	case "help":
		b.reply(chatID, commandsHelpText(), ptr(mainMenu()))
	case "menu":
		b.reply(chatID, menuText, ptr(mainMenu()))
	case "setchain":
		b.handleSetChainCommand(ctx, chatID, m.CommandArguments())
	default:
		b.log.WithField("command", m.Command()).Debug("Ignoring unknown command")
	}
}

func (b *Bot) handleSetChainCommand(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.reply(chatID, specifyChain, ptr(chainMenu()))
		return
	}

	chain, err := domain.ParseChain(fields[0])
	if err != nil {
		b.reply(chatID, specifyChain, ptr(chainMenu()))
		return
	}

	b.withSession(ctx, chatID, func(s *domain.Session) bool {
		s.CurrentChain = chain
		return true
	})
	b.reply(chatID, "Chain set to "+chain.Label(), ptr(mainMenu()))
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	var chatID int64
	switch {
	case q.Message != nil && q.Message.Chat != nil:
		chatID = q.Message.Chat.ID
	case q.From != nil:
		chatID = q.From.ID
	default:
		b.answer(q.ID, unknownOption)
		return
	}

	data := q.Data
	switch {
	case data == cbSearchToken:
		sess := b.withSession(ctx, chatID, func(s *domain.Session) bool {
			s.AwaitingAddress = true
			return true
		})
		b.answer(q.ID, "Please send a contract address")
		b.reply(chatID, "Please send a contract address for "+sess.CurrentChain.Label()+":", nil)

	case data == cbChangeChain:
		b.answer(q.ID, "Select a chain")
		b.reply(chatID, selectChain, ptr(chainMenu()))

	case data == cbShowHelp:
		b.answer(q.ID, "Showing help")
		b.reply(chatID, optionsHelpText, ptr(mainMenu()))

	case data == cbShowChain:
		sess := b.withSession(ctx, chatID, nil)
		label := sess.CurrentChain.Label()
		b.answer(q.ID, "Current chain: "+label)
		b.reply(chatID, "Your currently selected blockchain is: "+label, ptr(mainMenu()))

	case data == cbMainMenu:
		b.answer(q.ID, "Showing main menu")
		b.reply(chatID, mainMenuText, ptr(mainMenu()))

	case strings.HasPrefix(data, cbSetChain):
		chain, err := domain.ParseChain(strings.TrimPrefix(data, cbSetChain))
		if err != nil {
			b.answer(q.ID, unknownOption)
			return
		}
		b.withSession(ctx, chatID, func(s *domain.Session) bool {
			s.CurrentChain = chain
			return true
		})
		b.answer(q.ID, "Chain set to "+chain.Label())
		b.reply(chatID, "Blockchain set to "+chain.Label(), ptr(mainMenu()))

	default:
		b.answer(q.ID, unknownOption)
	}
}

func (b *Bot) handleText(ctx context.Context, m *tgbotapi.Message) {
	text := strings.TrimSpace(m.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}
	chatID := m.Chat.ID

	var valid, wasAwaiting bool
	sess := b.withSession(ctx, chatID, func(s *domain.Session) bool {
		valid = address.IsValid(s.CurrentChain, text)
		wasAwaiting = s.AwaitingAddress
		if !valid && !wasAwaiting {
			return false
		}
		s.AwaitingAddress = false
		return wasAwaiting
	})

	switch {
	case valid:
		b.analyze(ctx, chatID, text, sess.CurrentChain)
	case wasAwaiting:
		b.reply(chatID, address.Hint(sess.CurrentChain), ptr(mainMenu()))
	}
}

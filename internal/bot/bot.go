// Package bot is the Telegram front-end: it routes updates to command,
// callback and text handlers, keeps per-chat session state in a
// SessionStore and renders analysis reports as chat messages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/observability"
	"bubblemaps-bot/internal/orchestrator"
	"bubblemaps-bot/internal/storage"
)

// Defaults.
const (
	DefaultWorkers         = 16
	DefaultAnalysisTimeout = 2 * time.Minute
	DefaultPollTimeout     = 60 // seconds, long polling
)

// chatLockStripes is the number of mutexes chats are hashed onto.
const chatLockStripes = 64

// Sender delivers outgoing requests. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UpdateSource yields incoming updates. *tgbotapi.BotAPI satisfies it.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Analyzer runs one token analysis. *orchestrator.Orchestrator satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, address string, chain domain.Chain) (*orchestrator.Report, error)
}

// Renderer captures the bubble map image. *screenshot.Capturer satisfies it.
type Renderer interface {
	Capture(ctx context.Context, address string, chain domain.Chain) ([]byte, error)
}

// Options configures a Bot.
type Options struct {
	Sender   Sender
	Updates  UpdateSource
	Sessions storage.SessionStore
	Analyzer Analyzer
	Renderer Renderer // nil disables screenshots

	// MapURL builds the "View on Bubblemaps" link.
	MapURL func(address string, chain domain.Chain) string

	PercentageScale float64
	AnalysisTimeout time.Duration
	Workers         int
	Logger          logrus.FieldLogger
}

// Bot handles Telegram updates.
type Bot struct {
	sender   Sender
	updates  UpdateSource
	sessions storage.SessionStore
	analyzer Analyzer
	renderer Renderer
	mapURL   func(address string, chain domain.Chain) string

	scale           float64
	analysisTimeout time.Duration
	workers         int
	log             logrus.FieldLogger

	chatLocks [chatLockStripes]sync.Mutex
}

// New creates a Bot from opts.
func New(opts Options) *Bot {
	b := &Bot{
		sender:          opts.Sender,
		updates:         opts.Updates,
		sessions:        opts.Sessions,
		analyzer:        opts.Analyzer,
		renderer:        opts.Renderer,
		mapURL:          opts.MapURL,
		scale:           opts.PercentageScale,
		analysisTimeout: opts.AnalysisTimeout,
		workers:         opts.Workers,
		log:             opts.Logger,
	}
	if b.scale <= 0 {
		b.scale = 100
	}
	if b.analysisTimeout <= 0 {
		b.analysisTimeout = DefaultAnalysisTimeout
	}
	if b.workers < 1 {
		b.workers = DefaultWorkers
	}
	if b.log == nil {
		b.log = logrus.StandardLogger()
	}
	if b.mapURL == nil {
		b.mapURL = func(address string, chain domain.Chain) string {
			return fmt.Sprintf("https://app.bubblemaps.io/%s/token/%s", chain, address)
		}
	}
	return b
}

// RegisterCommands publishes the command list shown by Telegram clients.
func (b *Bot) RegisterCommands() error {
	_, err := b.request("commands", tgbotapi.NewSetMyCommands(botCommands()...))
	if err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}

// Run polls for updates and dispatches them to at most Workers concurrent
// handlers. It returns when ctx is canceled or the update channel closes,
// after in-flight handlers finish.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = DefaultPollTimeout
	updates := b.updates.GetUpdatesChan(cfg)

	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	b.log.WithField("workers", b.workers).Info("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.updates.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				b.updates.StopReceivingUpdates()
				return ctx.Err()
			}
			wg.Add(1)
			go func(u tgbotapi.Update) {
				defer wg.Done()
				defer func() { <-sem }()
				b.HandleUpdate(ctx, u)
			}(update)
		}
	}
}

// HandleUpdate routes a single update. Panics are recovered and logged so
// one bad update cannot stop the poll loop.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	release := observability.TrackInFlight()
	defer release()

	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"update_id": update.UpdateID,
				"panic":     r,
			}).Error("Update handler panicked")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		observability.RecordUpdate("callback")
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		observability.RecordUpdate("command")
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		observability.RecordUpdate("text")
		b.handleText(ctx, update.Message)
	default:
		observability.RecordUpdate("other")
	}
}

// withSession loads the chat's session, applies fn and saves it when fn
// reports a change. Calls for the same chat are serialized. A store
// failure degrades to a fresh, unsaved session.
func (b *Bot) withSession(ctx context.Context, chatID int64, fn func(s *domain.Session) bool) domain.Session {
	mu := b.chatLock(chatID)
	mu.Lock()
	defer mu.Unlock()

	log := b.log.WithField("chat_id", chatID)

	sess, err := storage.LoadOrNew(ctx, b.sessions, chatID)
	if err != nil {
		log.WithError(err).Warn("Session load failed")
		sess = domain.NewSession(chatID)
	}

	if fn != nil && fn(sess) {
		if err := b.sessions.Save(ctx, sess); err != nil {
			log.WithError(err).Warn("Session save failed")
		}
	}
	return *sess
}

// resetSession drops the chat's stored state so the next update starts
// from the defaults.
func (b *Bot) resetSession(ctx context.Context, chatID int64) {
	mu := b.chatLock(chatID)
	mu.Lock()
	defer mu.Unlock()

	if err := b.sessions.Delete(ctx, chatID); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Warn("Session reset failed")
	}
}

// chatLock returns the mutex guarding chatID's session. Unrelated chats
// may share a stripe.
func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	return &b.chatLocks[uint64(chatID)%chatLockStripes]
}

func (b *Bot) send(kind string, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := b.sender.Send(c)
	observability.RecordSend(kind, err)
	if err != nil {
		b.log.WithError(err).WithField("kind", kind).Warn("Send failed")
	}
	return msg, err
}

func (b *Bot) request(kind string, c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	resp, err := b.sender.Request(c)
	observability.RecordSend(kind, err)
	if err != nil {
		b.log.WithError(err).WithField("kind", kind).Warn("Request failed")
	}
	return resp, err
}

func (b *Bot) reply(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, _ = b.send("text", msg)
}

func (b *Bot) replyMarkdown(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := b.send("markdown", msg)
	return err
}

func (b *Bot) answer(callbackID, text string) {
	_, _ = b.request("callback", tgbotapi.NewCallback(callbackID, text))
}

func (b *Bot) chatAction(chatID int64, action string) {
	_, _ = b.request("action", tgbotapi.NewChatAction(chatID, action))
}

func isShutdown(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, context.Canceled)
}

func ptr[T any](v T) *T { return &v }

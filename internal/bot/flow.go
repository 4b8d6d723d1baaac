package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/orchestrator"
	"bubblemaps-bot/internal/presentation"
)

// screenshotFile names the uploaded bubble map.
const screenshotFile = "bubblemap.png"

// analyze runs the full token report for one address: market message,
// score message with map link, then the screenshot.
func (b *Bot) analyze(ctx context.Context, chatID int64, addr string, chain domain.Chain) {
	log := b.log.WithFields(logrus.Fields{
		"chat_id": chatID,
		"chain":   chain.String(),
		"address": addr,
	})

	processing, err := b.send("text", tgbotapi.NewMessage(chatID, processingText))
	if err == nil {
		defer func() {
			_, _ = b.request("delete", tgbotapi.NewDeleteMessage(chatID, processing.MessageID))
		}()
	}
	b.chatAction(chatID, tgbotapi.ChatTyping)

	actx, cancel := context.WithTimeout(ctx, b.analysisTimeout)
	report, err := b.analyzer.Analyze(actx, addr, chain)
	cancel()
	if err != nil {
		if isShutdown(ctx, err) {
			log.Info("Analysis abandoned on shutdown")
			return
		}
		log.WithError(err).Warn("Analysis failed")
		b.reply(chatID, "Error processing token: "+err.Error(), ptr(mainMenu()))
		return
	}
	log = log.WithField("request_id", report.RequestID)

	if report.GraphErr != nil {
		b.reply(chatID, presentation.GraphErrorMessage(report.GraphErr), ptr(mainMenu()))
		return
	}

	if report.Market != nil {
		if err := b.replyMarkdown(chatID, presentation.MarketMessage(report.Market), nil); err != nil {
			log.WithError(err).Warn("Market message rejected")
		}
	} else {
		b.reply(chatID, presentation.MarketUnavailable, nil)
	}

	summary := report.Summary
	if report.ScoreErr != nil {
		summary = nil
	}
	scoreText := presentation.ScoreMessage(summary, b.scale)
	if err := b.replyMarkdown(chatID, scoreText, ptr(tokenKeyboard(b.mapURL(addr, chain)))); err != nil {
		log.WithError(err).Warn("Score message rejected")
	}

	b.sendScreenshot(ctx, chatID, addr, chain, captionSymbol(report), log)
}

func (b *Bot) sendScreenshot(ctx context.Context, chatID int64, addr string, chain domain.Chain, symbol string, log logrus.FieldLogger) {
	if b.renderer == nil {
		b.reply(chatID, presentation.ScreenshotUnavailable, ptr(mainMenu()))
		return
	}

	b.chatAction(chatID, tgbotapi.ChatUploadPhoto)

	start := time.Now()
	png, err := b.renderer.Capture(ctx, addr, chain)
	if err != nil {
		if isShutdown(ctx, err) {
			return
		}
		log.WithError(err).WithField("duration_ms", time.Since(start).Milliseconds()).Warn("Screenshot failed")
		b.reply(chatID, presentation.ScreenshotUnavailable, ptr(mainMenu()))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: screenshotFile, Bytes: png})
	photo.Caption = presentation.PhotoCaption(symbol, chain)
	photo.ReplyMarkup = mainMenu()
	if _, err := b.send("photo", photo); err != nil {
		b.reply(chatID, presentation.ScreenshotUnavailable, ptr(mainMenu()))
	}
}

// captionSymbol prefers the graph's symbol, then the market symbol.
func captionSymbol(r *orchestrator.Report) string {
	if r.Graph != nil && r.Graph.Symbol != "" {
		return r.Graph.Symbol
	}
	if r.Market != nil {
		return r.Market.Symbol
	}
	return ""
}

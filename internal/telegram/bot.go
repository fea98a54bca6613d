package telegram

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"astra-assistant/internal/analytics"
	"astra-assistant/internal/chat"
	"astra-assistant/internal/session"
)

const followupPrefix = "fup:"

// Bot is the Telegram shell for the assistant. Each chat gets its own engine
// keyed by the chat ID, so transcripts and usage stats are per chat.
type Bot struct {
	api     *tgbotapi.BotAPI
	manager *chat.Manager

	mu    sync.Mutex
	wired map[string]bool
}

func New(botToken string, manager *chat.Manager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:     api,
		manager: manager,
		wired:   make(map[string]bool),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(update.Message)
			} else if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
			}
		}
	}
}

// engineFor returns the chat's engine, wiring reply delivery on first use.
func (b *Bot) engineFor(chatID int64) *chat.Engine {
	identity := strconv.FormatInt(chatID, 10)
	e, _ := b.manager.Engine(identity)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.wired[identity] {
		b.wired[identity] = true
		e.SetOnAppend(func(msg session.Message) {
			// user echoes are already visible in the chat
			if msg.Sender != session.SenderAssistant {
				return
			}
			b.sendAssistantMessage(chatID, msg)
		})
	}
	return e
}

func (b *Bot) handleIncomingMessage(msg *tgbotapi.Message) {
	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	e := b.engineFor(msg.Chat.ID)

	switch {
	case msg.Text == "/start":
		e.Open()
		b.sendMessage(msg.Chat.ID, session.Greeting)
	case msg.Text == "/stats":
		identity := strconv.FormatInt(msg.Chat.ID, 10)
		report := analytics.BuildReport(identity, e.Events())
		b.sendMessage(msg.Chat.ID, report.Summary())
	case msg.Text == "/clearstats":
		e.ClearStats()
		b.sendMessage(msg.Chat.ID, "Usage stats cleared.")
	case strings.HasPrefix(msg.Text, "/faq"):
		b.sendFaqSuggestions(msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(msg.Text, "/faq")))
	default:
		e.Submit(msg.Text)
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	e := b.engineFor(cb.Message.Chat.ID)

	if strings.HasPrefix(cb.Data, followupPrefix) {
		e.ClickFollowup(strings.TrimPrefix(cb.Data, followupPrefix))
		return
	}
	if entry, ok := b.manager.Catalog().ByQuestion(cb.Data); ok {
		e.ClickFaqSuggestion(entry)
		return
	}
	log.Printf("unknown callback data: %q", cb.Data)
}

func (b *Bot) sendFaqSuggestions(chatID int64, query string) {
	entries := b.manager.Catalog().ByCategory(query)
	if len(entries) == 0 {
		b.sendMessage(chatID, "No FAQs match that search.")
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, entry := range entries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(entry.Question, entry.Question),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Pick a question:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("failed to send faq suggestions: %v", err)
	}
}

func (b *Bot) sendAssistantMessage(chatID int64, msg session.Message) {
	text := msg.Text
	if msg.Source == session.SourceAI {
		text = "🤖 " + text
	}
	out := tgbotapi.NewMessage(chatID, text)
	if len(msg.Followups) > 0 {
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, f := range msg.Followups {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(f, followupPrefix+f),
			))
		}
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	if _, err := b.api.Send(out); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

package telegram

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/storage"
)

// Sender is the outbound side of the bot; *Bot implements it, tests fake it.
type Sender interface {
	SendHTML(ctx context.Context, chatID any, text string) error
}

// Handler reconciles inbound chat messages with paid orders. The flow is
// stateless: every update is classified on its own as a /start deep link,
// an email, or anything else.
type Handler struct {
	store  storage.Store
	sender Sender
	log    *zap.Logger
}

func NewHandler(store storage.Store, sender Sender, log *zap.Logger) *Handler {
	return &Handler{store: store, sender: sender, log: log}
}

// HandleUpdate processes one Telegram update. Errors are logged, never
// returned: the webhook must acknowledge regardless.
func (h *Handler) HandleUpdate(ctx context.Context, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	username := ""
	if update.Message.From != nil {
		username = update.Message.From.Username
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		h.handleStart(ctx, chatID, username, text)
	case strings.Contains(text, "@") && strings.Contains(text, "."):
		h.handleEmail(ctx, chatID, text)
	default:
		h.handleFallback(ctx, chatID, username)
	}
}

// handleStart validates a payment deep link: /start <orderId>.
func (h *Handler) handleStart(ctx context.Context, chatID int64, username, text string) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		h.send(ctx, chatID,
			"👋 Привет! Это бот марафона «Бизнес с ИИ».\n\n"+
				"Если вы уже оплатили марафон, перейдите по ссылке из письма с подтверждением оплаты.\n\n"+
				"Или отправьте ваш email для проверки:")
		return
	}

	orderID := parts[1]
	user, err := h.store.GetUser(ctx, orderID)
	if err != nil && err != storage.ErrNotFound {
		h.log.Error("get user by order id", zap.String("order_id", orderID), zap.Error(err))
		return
	}

	switch {
	case user != nil && user.Status == storage.StatusPaid:
		if handleMatches(username, user.Telegram) {
			h.send(ctx, chatID,
				"🎉 <b>Добро пожаловать, "+user.Name+"!</b>\n\n"+
					"✅ Оплата подтверждена!\n"+
					"📋 Заказ: <code>"+orderID+"</code>\n\n"+
					"Вы успешно зачислены на 7-дневный марафон «Бизнес с ИИ»! 🚀\n\n"+
					"📌 Что дальше:\n"+
					"• Мы пришлём ссылку на чат участников\n"+
					"• Старт марафона — по расписанию\n"+
					"• Все материалы будут доступны здесь в боте\n\n"+
					"По любым вопросам пишите сюда — мы на связи! 💬")
		} else {
			h.send(ctx, chatID,
				"👋 Привет!\n\n"+
					"Мы нашли ваш заказ <code>"+orderID+"</code>, но Telegram-никнейм не совпадает.\n\n"+
					"📧 Для верификации отправьте email, который вы указали при оплате:")
		}
	case user != nil && user.Status == storage.StatusPending:
		h.send(ctx, chatID,
			"⏳ Ваша оплата ещё обрабатывается.\n\n"+
				"Заказ: <code>"+orderID+"</code>\n"+
				"Подождите несколько минут и попробуйте снова командой:\n"+
				"/start "+orderID)
	default:
		h.send(ctx, chatID,
			"❌ Заказ <code>"+orderID+"</code> не найден.\n\n"+
				"Если вы оплатили, напишите нам — мы разберёмся! 🔧")
	}
}

// handleEmail verifies a buyer by the email they paid with.
func (h *Handler) handleEmail(ctx context.Context, chatID int64, email string) {
	user, err := h.store.GetUserByEmail(ctx, email)
	if err != nil && err != storage.ErrNotFound {
		h.log.Error("get user by email", zap.Error(err))
		return
	}

	switch {
	case user != nil && user.Status == storage.StatusPaid:
		h.send(ctx, chatID,
			"🎉 <b>Верификация пройдена!</b>\n\n"+
				"✅ Оплата подтверждена для "+user.Name+"!\n"+
				"📋 Заказ: <code>"+user.OrderID+"</code>\n\n"+
				"Вы успешно зачислены на марафон «Бизнес с ИИ»! 🚀\n\n"+
				"📌 Мы пришлём ссылку на чат участников и все материалы.\n"+
				"По любым вопросам пишите сюда! 💬")
	case user != nil && user.Status == storage.StatusPending:
		h.send(ctx, chatID,
			"⏳ Мы нашли заказ для <b>"+email+"</b>, но оплата ещё обрабатывается.\n"+
				"Попробуйте через несколько минут.")
	default:
		h.send(ctx, chatID,
			"❌ Мы не нашли оплату для <b>"+email+"</b>.\n\n"+
				"Убедитесь, что вы ввели тот же email, что при оплате. "+
				"Если проблема остаётся, напишите нам — поможем! 🔧")
	}
}

// handleFallback answers anything else: greet already-paid buyers found by
// their handle, otherwise ask for an email.
func (h *Handler) handleFallback(ctx context.Context, chatID int64, username string) {
	if username != "" {
		user, err := h.store.GetUserByTelegram(ctx, username)
		if err != nil && err != storage.ErrNotFound {
			h.log.Error("get user by telegram", zap.Error(err))
			return
		}
		if user != nil && user.Status == storage.StatusPaid {
			h.send(ctx, chatID,
				"✅ <b>"+user.Name+"</b>, вы уже зачислены на марафон!\n\n"+
					"По любым вопросам пишите — мы на связи! 💬")
			return
		}
	}

	h.send(ctx, chatID,
		"Отправьте ваш email для проверки оплаты, или перейдите по ссылке из письма с подтверждением.")
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendHTML(ctx, chatID, text); err != nil {
		h.log.Warn("send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// handleMatches compares telegram handles case-insensitively with a leading
// @ stripped from both sides. Both must be non-empty.
func handleMatches(username, stored string) bool {
	if username == "" || stored == "" {
		return false
	}
	return storage.NormalizeHandle(username) == storage.NormalizeHandle(stored)
}

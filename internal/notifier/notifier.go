package notifier

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/storage"
	"github.com/DCWS-dev/ai-landing/internal/telegram"
)

// Notifier sends best-effort admin notifications about confirmed payments.
// Every failure is logged and swallowed: a webhook response never depends
// on Telegram being reachable.
type Notifier struct {
	sender      telegram.Sender
	adminChatID string
	botUsername string
	log         *zap.Logger
}

// New creates a Notifier. sender may be nil when the bot is not configured;
// notifications are then skipped.
func New(sender telegram.Sender, adminChatID, botUsername string, log *zap.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		adminChatID: adminChatID,
		botUsername: botUsername,
		log:         log,
	}
}

// PaymentReceived notifies the admin chat about a paid order and logs the
// bot deep link the buyer can follow. cardPan is only set for card gateways.
func (n *Notifier) PaymentReceived(ctx context.Context, user *storage.User, gateway, cardPan string) {
	n.log.Info("payment confirmed",
		zap.String("order_id", user.OrderID),
		zap.String("gateway", gateway),
		zap.String("deep_link", n.DeepLink(user.OrderID)),
	)

	if n.sender == nil || n.adminChatID == "" {
		return
	}

	tg := user.Telegram
	if tg == "" {
		tg = "—"
	}

	text := "✅ <b>Новая оплата (" + gateway + ")!</b>\n\n" +
		"📋 Заказ: <code>" + user.OrderID + "</code>\n" +
		"👤 " + user.Name + "\n" +
		"📧 " + user.Email + "\n" +
		"📱 " + user.Phone + "\n" +
		"💬 " + tg + "\n" +
		"💰 " + strconv.FormatFloat(user.Amount, 'f', -1, 64) + " " + user.Currency
	if cardPan != "" {
		text += "\n💳 " + cardPan
	}

	if err := n.sender.SendHTML(ctx, n.adminChatID, text); err != nil {
		n.log.Warn("send admin notification",
			zap.String("order_id", user.OrderID),
			zap.Error(err),
		)
	}
}

// DeepLink returns the t.me link that opens the bot with /start <orderId>.
func (n *Notifier) DeepLink(orderID string) string {
	return "https://t.me/" + n.botUsername + "?start=" + orderID
}

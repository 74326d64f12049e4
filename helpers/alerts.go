package helpers

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Alerts posts operational warnings (swallowed notification failures,
// permission violations) to a Telegram ops chat. A nil *Alerts is valid and
// drops every report, so the service runs fine without a bot token.
type Alerts struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlerts(botToken string, chatID int64) (*Alerts, error) {
	if botToken == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Alerts{bot: bot, chatID: chatID}, nil
}

// Report sends one alert line. Failures are logged and dropped; alerting must
// never become a second failure mode.
func (a *Alerts) Report(message string) {
	if a == nil || a.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(a.chatID, message)
	if _, err := a.bot.Send(msg); err != nil {
		log.Println("❌ [Alerts] telegram send failed:", err)
	}
}

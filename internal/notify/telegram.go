package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramChannel pushes short notices into the concierge team's telegram
// chat. It is strictly an outbound side channel; the bot never reads updates.
type TelegramChannel struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramChannel authenticates the bot. Returns an error when the token
// is rejected, so main can decide to run without the channel.
func NewTelegramChannel(token string, chatID int64) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramChannel{bot: bot, chatID: chatID}, nil
}

// Send posts one plain-text message to the team chat.
func (t *TelegramChannel) Send(text string) error {
	_, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text))
	return err
}

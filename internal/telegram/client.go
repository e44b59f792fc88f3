// Package telegram wraps the Bot API client behind the messenger surface
// the survey router drives.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultHTTPTimeout = 10 * time.Second

// ratingButtons carry the label decorations shown to the user; the callback
// data values "1".."9" are what the pipeline acts on.
var ratingButtons = []struct {
	label string
	data  string
}{
	{"9 🌟", "9"}, {"8 🔥", "8"}, {"7 💎", "7"},
	{"6 😊", "6"}, {"5 👍", "5"}, {"4 🤔", "4"},
	{"3 😕", "3"}, {"2 😞", "2"}, {"1 💀", "1"},
}

// Client is the outbound Telegram collaborator. It is stateless and safe
// for concurrent use across webhook deliveries.
type Client struct {
	bot *tgbotapi.BotAPI
}

// New builds a client against the public Bot API. The token is validated
// with a getMe round trip at construction.
func New(token string) (*Client, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{Timeout: defaultHTTPTimeout})
}

// NewWithEndpoint builds a client against a custom API endpoint. Tests point
// this at a local server.
func NewWithEndpoint(token, endpoint string, httpClient *http.Client) (*Client, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("build bot api client: %w", err)
	}
	return &Client{bot: bot}, nil
}

// Username returns the bot's own handle, resolved at construction.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// SendQuestion sends the survey question with the 3x3 rating keyboard
// attached.
//
// The underlying SDK carries no context support; every call is bounded by
// the HTTP client timeout instead, so ctx is accepted for interface shape
// only.
func (c *Client) SendQuestion(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = ratingKeyboard()
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("send question: %w", err)
	}
	return nil
}

// SendText sends a plain text message.
func (c *Client) SendText(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query with an optional toast.
func (c *Client) AnswerCallback(_ context.Context, callbackID, text string) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := c.bot.Request(cb); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// RemoveKeyboard strips the inline keyboard from a previously sent message
// so the rating grid cannot be pressed again.
func (c *Client) RemoveKeyboard(_ context.Context, chatID, messageID int64) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, int(messageID), tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := c.bot.Request(edit); err != nil {
		return fmt.Errorf("remove keyboard: %w", err)
	}
	return nil
}

func ratingKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 3)
	for i := 0; i < len(ratingButtons); i += 3 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 3)
		for _, b := range ratingButtons[i : i+3] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.label, b.data))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

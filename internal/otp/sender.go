// Package otp provides delivery channels for one-time verification codes.
package otp

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"imagekingbot/internal/sms"

	tele "gopkg.in/telebot.v4"
)

// Sender delivers an OTP code to a user over some out-of-band channel.
type Sender interface {
	Send(ctx context.Context, userID int64, phone, code string) error
}

// SMSSender delivers codes through the SMS gateway.
type SMSSender struct {
	client *sms.Client
}

// NewSMSSender wraps an SMS client as an OTP channel.
func NewSMSSender(client *sms.Client) *SMSSender {
	return &SMSSender{client: client}
}

// Send implements Sender.
func (s *SMSSender) Send(ctx context.Context, _ int64, phone, code string) error {
	return s.client.Send(ctx, phone, fmt.Sprintf("Image King verification code: %s", code))
}

// ChatSender shows the code directly in the Telegram conversation. This is the
// development channel; the bot must be attached before the first send.
type ChatSender struct {
	bot atomic.Pointer[tele.Bot]
}

// NewChatSender returns an unattached chat channel.
func NewChatSender() *ChatSender {
	return &ChatSender{}
}

// Attach binds the running bot instance. Safe to call from lifecycle hooks.
func (s *ChatSender) Attach(bot *tele.Bot) {
	s.bot.Store(bot)
}

// Send implements Sender.
func (s *ChatSender) Send(_ context.Context, userID int64, _ string, code string) error {
	bot := s.bot.Load()
	if bot == nil {
		return errors.New("otp: chat sender not attached")
	}
	text := fmt.Sprintf("🔐 Your OTP is: *%s*\n\nPlease type it here to verify.", code)
	_, err := bot.Send(&tele.User{ID: userID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}

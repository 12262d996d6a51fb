package otp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagekingbot/internal/sms"
)

func TestChatSenderRequiresAttachment(t *testing.T) {
	s := NewChatSender()
	err := s.Send(context.Background(), 42, "+77010000000", "123456")
	require.Error(t, err)
	assert.ErrorContains(t, err, "not attached")
}

func TestSMSSenderDryRun(t *testing.T) {
	s := NewSMSSender(sms.New(sms.Config{}))
	require.NoError(t, s.Send(context.Background(), 42, "+77010000000", "123456"))
}

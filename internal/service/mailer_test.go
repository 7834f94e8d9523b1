package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/pkg/config"
)

type channelMailer struct {
	sent chan string
}

func (m *channelMailer) SendOTP(_ context.Context, email, code string) error {
	m.sent <- email + ":" + code
	return nil
}

func TestMailDispatcherDeliversQueuedMail(t *testing.T) {
	mailer := &channelMailer{sent: make(chan string, 1)}
	dispatcher := NewMailDispatcher(mailer, config.MailerConfig{Workers: 1}, nil, nil)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	require.NoError(t, dispatcher.SendOTP(context.Background(), "ana@uc.cl", "123456"))

	select {
	case delivered := <-mailer.sent:
		assert.Equal(t, "ana@uc.cl:123456", delivered)
	case <-time.After(2 * time.Second):
		t.Fatal("mail was not delivered")
	}
}

func TestMailDispatcherRejectsWhenStopped(t *testing.T) {
	dispatcher := NewMailDispatcher(&channelMailer{sent: make(chan string, 1)}, config.MailerConfig{}, nil, nil)

	err := dispatcher.SendOTP(context.Background(), "ana@uc.cl", "123456")
	assert.Error(t, err)
}

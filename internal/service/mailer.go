package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/impulsa-uc/impulsa-api/pkg/config"
	"github.com/impulsa-uc/impulsa-api/pkg/jobs"
)

const otpEmailJobType = "otp_email"

// Mailer delivers one-time codes to users.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogMailer writes outbound mail to the log instead of an SMTP
// relay. The development default; swap for a real transport in
// production.
type LogMailer struct {
	from   string
	logger *zap.Logger
}

// NewLogMailer constructs LogMailer.
func NewLogMailer(from string, logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{from: from, logger: logger}
}

// SendOTP logs the code that would have been mailed.
func (m *LogMailer) SendOTP(_ context.Context, email, code string) error {
	m.logger.Info("otp email dispatched",
		zap.String("from", m.from),
		zap.String("to", email),
		zap.String("code", code),
	)
	return nil
}

type otpEmailPayload struct {
	Email string
	Code  string
}

// MailDispatcher sends OTP mail through a background worker queue, so
// a slow mail transport never blocks the auth request path.
type MailDispatcher struct {
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewMailDispatcher wires a Mailer behind a worker queue.
func NewMailDispatcher(mailer Mailer, cfg config.MailerConfig, metrics *MetricsService, logger *zap.Logger) *MailDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(otpEmailPayload)
		if !ok {
			return fmt.Errorf("unexpected payload for job %s", job.ID)
		}
		return mailer.SendOTP(ctx, payload.Email, payload.Code)
	}
	queue := jobs.NewQueue("mail", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return &MailDispatcher{queue: queue, metrics: metrics, logger: logger}
}

// Start launches the mail workers.
func (d *MailDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains in-flight mail jobs.
func (d *MailDispatcher) Stop() {
	d.queue.Stop()
}

// SendOTP queues a code for delivery. Delivery failures retry in the
// background and never surface to the caller.
func (d *MailDispatcher) SendOTP(_ context.Context, email, code string) error {
	err := d.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    otpEmailJobType,
		Payload: otpEmailPayload{Email: email, Code: code},
	})
	if err == nil {
		d.metrics.RecordMailQueued()
	}
	return err
}

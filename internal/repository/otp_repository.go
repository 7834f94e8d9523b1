package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

// OTPRepository stores in-flight email code challenges in Redis. The
// TTL on each key is the code's lifetime; expiry is the only cleanup.
type OTPRepository struct {
	client *redis.Client
}

// NewOTPRepository constructs the repository.
func NewOTPRepository(client *redis.Client) *OTPRepository {
	return &OTPRepository{client: client}
}

func otpKey(email string) string {
	return "otp:challenge:" + email
}

// Save stores a challenge under the email with the given TTL,
// replacing any previous one.
func (r *OTPRepository) Save(ctx context.Context, email string, challenge *models.OTPChallenge, ttl time.Duration) error {
	if r.client == nil {
		return appErrors.ErrStoreUnavailable
	}
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal otp challenge: %w", err)
	}
	if err := r.client.Set(ctx, otpKey(email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store otp challenge: %w", err)
	}
	return nil
}

// Find returns the pending challenge for an email, or nil when none
// exists or it has expired.
func (r *OTPRepository) Find(ctx context.Context, email string) (*models.OTPChallenge, error) {
	if r.client == nil {
		return nil, appErrors.ErrStoreUnavailable
	}
	raw, err := r.client.Get(ctx, otpKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load otp challenge: %w", err)
	}
	var challenge models.OTPChallenge
	if err := json.Unmarshal(raw, &challenge); err != nil {
		return nil, fmt.Errorf("unmarshal otp challenge: %w", err)
	}
	return &challenge, nil
}

// RecordAttempt bumps the failed-attempt counter without extending the
// TTL of the challenge.
func (r *OTPRepository) RecordAttempt(ctx context.Context, email string, challenge *models.OTPChallenge) error {
	if r.client == nil {
		return appErrors.ErrStoreUnavailable
	}
	challenge.Attempts++
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal otp challenge: %w", err)
	}
	if err := r.client.Set(ctx, otpKey(email), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("update otp challenge: %w", err)
	}
	return nil
}

// Delete discards the challenge after a successful verification.
func (r *OTPRepository) Delete(ctx context.Context, email string) error {
	if r.client == nil {
		return appErrors.ErrStoreUnavailable
	}
	if err := r.client.Del(ctx, otpKey(email)).Err(); err != nil {
		return fmt.Errorf("delete otp challenge: %w", err)
	}
	return nil
}

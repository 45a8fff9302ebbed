package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// SlidingWindow is a rate limiter over a Store. Limit and window travel
// with each call so one limiter serves every channel class (email, in-app,
// push) with different budgets.
type SlidingWindow struct {
	store  Store
	logger *slog.Logger
}

// SlidingWindowOption configures a SlidingWindow.
type SlidingWindowOption func(*SlidingWindow)

// WithLogger sets the logger used to report store degradation.
func WithLogger(l *slog.Logger) SlidingWindowOption {
	return func(sw *SlidingWindow) {
		if l != nil {
			sw.logger = l
		}
	}
}

// NewSlidingWindow creates a limiter over the given store.
func NewSlidingWindow(store Store, opts ...SlidingWindowOption) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	sw := &SlidingWindow{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw, nil
}

// Allow checks whether one request is allowed for key and consumes a slot
// if it is. When the store is unreachable the limiter fails open: the
// request is allowed with a full window and the degradation is logged.
func (sw *SlidingWindow) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	now := time.Now()

	allowed, count, err := sw.store.ReserveSlot(ctx, key, limit, window)
	if err != nil {
		sw.logger.ErrorContext(ctx, "rate limit store unreachable, failing open",
			slog.String("key", key),
			slog.Any("error", err))
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetAt:   now.Add(window),
		}, nil
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(window),
	}, nil
}

// Status reports the current window without consuming a slot.
func (sw *SlidingWindow) Status(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, err := sw.store.CountInWindow(ctx, key, window)
	if err != nil {
		return nil, err
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   remaining > 0,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(window),
	}, nil
}

// Reset clears the window for key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Reset(ctx, key)
}

package channels

import (
	"context"
	"log/slog"
	"sync"

	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/templates"
)

// Fanout sends a notification to every channel it requests, concurrently.
// A channel failure is logged and counted but never aborts the others;
// the notification is considered delivered once every attempt finished.
type Fanout struct {
	channels map[notification.Channel]Channel
	logger   *slog.Logger
}

// NewFanout creates a fan-out over the given channels. Later channels with
// the same kind replace earlier ones.
func NewFanout(logger *slog.Logger, chans ...Channel) *Fanout {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := make(map[notification.Channel]Channel, len(chans))
	for _, c := range chans {
		m[c.Kind()] = c
	}
	return &Fanout{channels: m, logger: logger}
}

// Send fans the notification out to its requested channels and returns the
// number of channels that succeeded. Unknown channels are logged and
// skipped. The error count, not an error, is the contract: fan-out always
// runs to completion.
func (f *Fanout) Send(ctx context.Context, notif notification.Notification, content templates.Rendered) int {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for _, kind := range notif.Channels {
		ch, ok := f.channels[kind]
		if !ok {
			f.logger.WarnContext(ctx, "no channel registered",
				slog.String("channel", string(kind)),
				slog.String("notification_id", notif.ID))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := ch.Send(ctx, notif, content); err != nil {
				f.logger.ErrorContext(ctx, "channel delivery failed",
					slog.String("channel", string(ch.Kind())),
					slog.String("notification_id", notif.ID),
					slog.String("user_id", notif.UserID),
					slog.Any("error", err))
				return
			}

			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return succeeded
}

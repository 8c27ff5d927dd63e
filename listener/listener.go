package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"mmtools/broker"
	"mmtools/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PollInterval bounds a single wait for a position update.
const PollInterval = time.Second

// StopReason tells why ListenPositions returned.
type StopReason int

const (
	StopTimeout StopReason = iota
	StopInterrupted
)

func (r StopReason) String() string {
	switch r {
	case StopTimeout:
		return "timeout"
	case StopInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ListenConfig prints every mm_config message to out until ctx is
// cancelled, then unsubscribes. Malformed payloads are reported and skipped.
func ListenConfig(ctx context.Context, rdb *redis.Client, out io.Writer, log *zap.Logger) error {
	pubsub := rdb.Subscribe(ctx, broker.ConfigChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", broker.ConfigChannel, err)
	}
	log.Info("subscribed, listening for messages", zap.String("channel", broker.ConfigChannel))

	// Receive on the caller's goroutine so a lost connection ends the run;
	// PubSub.Channel would reconnect in the background instead.
	for {
		if ctx.Err() != nil {
			unsubscribe(pubsub, broker.ConfigChannel, log)
			return nil
		}

		msg, err := pubsub.ReceiveTimeout(ctx, PollInterval)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive from %s: %w", broker.ConfigChannel, err)
		}

		if m, ok := msg.(*redis.Message); ok {
			handle(out, m.Channel, m.Payload, PrintConfigMessage, log)
		}
	}
}

// ListenPositions prints mm_position_updates messages to out until budget
// elapses or ctx is cancelled. Neither is an error.
func ListenPositions(ctx context.Context, rdb *redis.Client, budget time.Duration, out io.Writer, log *zap.Logger) (StopReason, error) {
	pubsub := rdb.Subscribe(ctx, broker.PositionChannel)
	defer pubsub.Close()

	log.Info("subscribed, listening for position updates",
		zap.String("channel", broker.PositionChannel),
		zap.Duration("budget", budget))

	deadline := time.Now().Add(budget)
	for {
		if ctx.Err() != nil {
			unsubscribe(pubsub, broker.PositionChannel, log)
			return StopInterrupted, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			unsubscribe(pubsub, broker.PositionChannel, log)
			return StopTimeout, nil
		}

		msg, err := pubsub.ReceiveTimeout(ctx, min(PollInterval, remaining))
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if ctx.Err() != nil {
				return StopInterrupted, nil
			}
			return StopInterrupted, fmt.Errorf("receive from %s: %w", broker.PositionChannel, err)
		}

		switch m := msg.(type) {
		case *redis.Message:
			handle(out, m.Channel, m.Payload, PrintPositionMessage, log)
		case *redis.Subscription:
			log.Debug("subscription confirmed", zap.String("kind", m.Kind), zap.String("channel", m.Channel))
		}
	}
}

func handle(out io.Writer, channel, payload string, show func(io.Writer, string) bool, log *zap.Logger) {
	metrics.MessagesTotal.WithLabelValues(channel).Inc()
	if !show(out, payload) {
		metrics.MalformedMessagesTotal.WithLabelValues(channel).Inc()
		log.Warn("malformed payload", zap.String("channel", channel), zap.Int("bytes", len(payload)))
	}
}

func unsubscribe(pubsub *redis.PubSub, channel string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := pubsub.Unsubscribe(ctx, channel); err != nil {
		log.Warn("unsubscribe failed", zap.String("channel", channel), zap.Error(err))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

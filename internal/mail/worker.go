package mail

import (
	"context"
	"errors"
	"time"

	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
)

// DefaultMaxAttempts is how many deliveries are tried before a message is buried
const DefaultMaxAttempts = 3

// Worker drains the outbox through a Sender
type Worker struct {
	queue       Queue
	sender      Sender
	maxAttempts int
	pollTimeout time.Duration
}

// NewWorker creates a Worker
func NewWorker(queue Queue, sender Sender, maxAttempts int) *Worker {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Worker{
		queue:       queue,
		sender:      sender,
		maxAttempts: maxAttempts,
		pollTimeout: 5 * time.Second,
	}
}

// Run processes messages until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	log := pkglogger.GetLogger()
	log.Info().Int("max_attempts", w.maxAttempts).Msg("mail worker started")

	for {
		if ctx.Err() != nil {
			log.Info().Msg("mail worker stopped")
			return nil
		}
		if _, err := w.ProcessOne(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("mail worker iteration failed")
			// avoid a hot loop while Redis is unreachable
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessOne handles at most one message and reports whether one was dequeued.
// A failed delivery is re-queued until it has been attempted maxAttempts times.
// A message caught by cancellation goes back to the head of the queue with its
// attempt count unchanged.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	msg, err := w.queue.Dequeue(ctx, w.pollTimeout)
	if errors.Is(err, ErrEmpty) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// the message now lives only in memory; queue writes must outlive ctx
	persist := context.WithoutCancel(ctx)
	log := pkglogger.GetLogger()

	if ctx.Err() != nil {
		return true, w.putBack(persist, msg)
	}

	sendErr := w.sender.Send(ctx, msg)
	if sendErr == nil {
		deliveries.WithLabelValues(resultSent).Inc()
		log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail delivered")
		return true, nil
	}
	if ctx.Err() != nil {
		return true, w.putBack(persist, msg)
	}

	msg.Attempts++
	if msg.Attempts >= w.maxAttempts {
		deliveries.WithLabelValues(resultBuried).Inc()
		log.Error().Err(sendErr).Strs("to", msg.To).Int("attempts", msg.Attempts).Msg("mail delivery abandoned")
		return true, w.queue.Bury(persist, msg)
	}

	deliveries.WithLabelValues(resultRetry).Inc()
	log.Warn().Err(sendErr).Strs("to", msg.To).Int("attempts", msg.Attempts).Msg("mail delivery failed, retrying")
	return true, w.queue.Enqueue(persist, msg)
}

func (w *Worker) putBack(ctx context.Context, msg *Message) error {
	pkglogger.GetLogger().Info().Strs("to", msg.To).Msg("worker stopping, mail returned to queue")
	return w.queue.Return(ctx, msg)
}

package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"SwiftCart/internal/metrics"
	"SwiftCart/internal/models"
)

// Mode is how outbound email leaves the process. It is resolved exactly
// once, on the first Dispatch call, and reused for the process lifetime:
// a queue outage is a permanent downgrade, never re-probed under load.
type Mode int32

const (
	ModeUnresolved Mode = iota
	ModeQueued
	ModeDirect
)

func (m Mode) String() string {
	switch m {
	case ModeQueued:
		return "queued"
	case ModeDirect:
		return "direct"
	default:
		return "unresolved"
	}
}

// Transporter is the opaque delivery capability: it sends one message and
// reports the outcome.
type Transporter interface {
	Send(ctx context.Context, to, subject, html string) error
}

// JobQueue is the optional durable queue. Available may be called any
// number of times but resolves its answer exactly once per process.
type JobQueue interface {
	Available(ctx context.Context) bool
	Enqueue(ctx context.Context, job models.EmailJob) error
}

// Dispatcher is the single sanctioned way to send email. Callers never
// learn which path was taken, but the delivery semantics are asymmetric:
// in queued mode a nil error means the job was accepted by the queue,
// while in direct mode it means the transporter attempted delivery and
// reported success.
type Dispatcher struct {
	transporter Transporter
	queue       JobQueue // may be nil: no queue configured at all
	log         *zap.Logger

	once sync.Once
	mode atomic.Int32
}

func New(transporter Transporter, queue JobQueue, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		transporter: transporter,
		queue:       queue,
		log:         log,
	}
}

// Dispatch routes one message through the queue when available, otherwise
// sends it synchronously through the transporter.
func (d *Dispatcher) Dispatch(ctx context.Context, to, subject, html string) error {
	d.once.Do(func() { d.resolveMode(ctx) })

	if Mode(d.mode.Load()) == ModeQueued {
		return d.queue.Enqueue(ctx, models.EmailJob{To: to, Subject: subject, HTML: html})
	}

	if err := d.transporter.Send(ctx, to, subject, html); err != nil {
		metrics.EmailFailures.Inc()
		return err
	}

	metrics.EmailsSent.Inc()
	return nil
}

// Mode reports the resolved dispatch mode; ModeUnresolved before the
// first Dispatch call.
func (d *Dispatcher) Mode() Mode {
	return Mode(d.mode.Load())
}

func (d *Dispatcher) resolveMode(ctx context.Context) {
	mode := ModeDirect
	if d.queue != nil && d.queue.Available(ctx) {
		mode = ModeQueued
	}
	d.mode.Store(int32(mode))
	d.log.Info("email dispatch mode resolved", zap.Stringer("mode", mode))
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"SwiftCart/internal/metrics"
	"SwiftCart/internal/models"
)

// State is the queue's fate for the remainder of the process lifetime.
// Uninitialized moves to exactly one of Ready or Disabled on first use and
// never changes afterwards: an unreachable queue is a permanent downgrade,
// not a retryable condition.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDisabled:
		return "disabled"
	default:
		return "uninitialized"
	}
}

// ErrUnavailable is returned by Enqueue when the queue is not ready.
var ErrUnavailable = errors.New("dispatch queue unavailable")

const (
	jobsKey      = "swiftcart:email:jobs"
	probeTimeout = 5 * time.Second
	popTimeout   = 5 * time.Second
)

// Handler performs the actual delivery for one job.
type Handler func(ctx context.Context, job models.EmailJob) error

// Options configures the queue. Zero values fall back to the production
// retry policy: 3 attempts spaced 2s then 4s apart, no rate limit.
type Options struct {
	URL       string
	Attempts  int
	BaseDelay time.Duration
	Limiter   *rate.Limiter
}

// Queue is a Redis-backed job queue for outbound email. Construction is
// cheap and never touches the network; the connection is established and
// probed on the first Available call.
type Queue struct {
	url       string
	handler   Handler
	limiter   *rate.Limiter
	log       *zap.Logger
	attempts  int
	baseDelay time.Duration

	initOnce sync.Once
	state    atomic.Int32 // holds a State; readable concurrently with init
	client   *redis.Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(opts Options, handler Handler, log *zap.Logger) *Queue {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Inf, 0)
	}

	// The worker outlives whichever request happened to trigger
	// initialization, so it runs on a context owned by the queue.
	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		url:       opts.URL,
		handler:   handler,
		limiter:   opts.Limiter,
		log:       log,
		attempts:  opts.Attempts,
		baseDelay: opts.BaseDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Available reports whether the queue can accept jobs. The first call
// resolves the queue's state for the process: a missing target and a
// failed readiness probe both disable it permanently, while a successful
// probe starts the single worker goroutine.
func (q *Queue) Available(ctx context.Context) bool {
	q.initOnce.Do(func() { q.init(ctx) })
	return q.State() == StateReady
}

// State returns the resolved state. Meaningful after the first Available
// call; before that it reports StateUninitialized.
func (q *Queue) State() State {
	return State(q.state.Load())
}

func (q *Queue) init(ctx context.Context) {
	if q.url == "" {
		// Expected in development and staging without the optional
		// infrastructure; not worth a warning.
		q.state.Store(int32(StateDisabled))
		q.log.Info("no dispatch queue configured, sending email synchronously")
		return
	}

	opts, err := redis.ParseURL(q.url)
	if err != nil {
		q.state.Store(int32(StateDisabled))
		q.log.Warn("dispatch queue misconfigured, falling back to synchronous sending", zap.Error(err))
		return
	}

	client := redis.NewClient(opts)

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := client.Ping(probeCtx).Err(); err != nil {
		client.Close()
		q.state.Store(int32(StateDisabled))
		q.log.Warn("dispatch queue unreachable, falling back to synchronous sending", zap.Error(err))
		return
	}

	q.client = client
	q.state.Store(int32(StateReady))

	q.wg.Add(1)
	go q.worker()

	q.log.Info("dispatch queue ready",
		zap.Int("attempts", q.attempts),
		zap.Duration("base_delay", q.baseDelay),
	)
}

// Enqueue pushes a job for asynchronous delivery. A nil return means the
// job was accepted by the queue, not that it was delivered.
func (q *Queue) Enqueue(ctx context.Context, job models.EmailJob) error {
	if q.State() != StateReady {
		return ErrUnavailable
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, jobsKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}

	metrics.EmailsEnqueued.Inc()
	return nil
}

// Close stops the worker and releases the connection.
func (q *Queue) Close() {
	q.cancel()
	q.wg.Wait()
	if q.client != nil {
		q.client.Close()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	q.log.Info("queue worker started")

	for {
		res, err := q.client.BRPop(q.ctx, popTimeout, jobsKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if q.ctx.Err() != nil {
				q.log.Info("queue worker shutting down")
				return
			}

			q.log.Error("queue receive error", zap.Error(err))
			select {
			case <-q.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPop returns [key, value].
		if len(res) != 2 {
			continue
		}

		var job models.EmailJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.log.Error("dropping malformed job", zap.Error(err))
			continue
		}

		if err := q.limiter.Wait(q.ctx); err != nil {
			if q.ctx.Err() != nil {
				q.log.Info("queue worker shutting down")
				return
			}
			// A broken limiter (zero rate, zero burst) must not stall
			// the queue; deliver without pacing.
			q.log.Error("rate limiter error", zap.Error(err))
		}

		q.deliver(job)
	}
}

// deliver runs the handler with bounded retries. Attempts are spaced by
// exponential backoff starting at baseDelay (2s, 4s under the defaults);
// after the final attempt fails the job is dropped. There is no
// dead-letter persistence.
func (q *Queue) deliver(job models.EmailJob) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.baseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = q.baseDelay * 8
	b.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		return q.handler(q.ctx, job)
	}

	policy := backoff.WithMaxRetries(backoff.WithContext(b, q.ctx), uint64(q.attempts-1))

	if err := backoff.Retry(operation, policy); err != nil {
		metrics.EmailsDropped.Inc()
		q.log.Error("job dropped after retries exhausted",
			zap.String("to", job.To),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return
	}

	metrics.EmailsSent.Inc()
	q.log.Info("email delivered",
		zap.String("to", job.To),
		zap.Int("attempts", attempt),
	)
}

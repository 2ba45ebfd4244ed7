package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/yanqian/neo-hazard/pkg/errors"
)

// Classifier sends a normalized request to the remote hazard model.
// Implementations must return either a Result or an error tagged with one
// of the remote failure codes; sentinel payloads never reach the caller.
type Classifier interface {
	Predict(ctx context.Context, req Request) (Result, error)
}

// Recorder receives lifecycle measurements.
type Recorder interface {
	RequestStarted()
	RequestFinished(outcome string, elapsed time.Duration)
	CacheHit()
}

type noopRecorder struct{}

func (noopRecorder) RequestStarted()                       {}
func (noopRecorder) RequestFinished(string, time.Duration) {}
func (noopRecorder) CacheHit()                             {}

// Option customizes a Controller.
type Option func(*Controller)

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(c *Controller) {
		if rec != nil {
			c.recorder = rec
		}
	}
}

// WithSettleHook registers a callback invoked once per terminal transition.
func WithSettleHook(fn func(SessionState)) Option {
	return func(c *Controller) {
		c.onSettle = fn
	}
}

// Controller drives one request/response cycle at a time against a Classifier.
type Controller struct {
	classifier Classifier
	recorder   Recorder
	onSettle   func(SessionState)
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.Mutex
	state SessionState
	done  chan struct{}
}

// NewController builds an idle controller.
func NewController(classifier Classifier, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		classifier: classifier,
		recorder:   noopRecorder{},
		logger:     logger.With("component", "prediction.controller"),
		now:        time.Now,
		state:      SessionState{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current session state.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Submit resolves the inputs and, when valid, starts the request in the
// background and returns immediately. Validation errors are returned
// without touching the state. A submit while loading returns ErrSubmitInFlight.
// The outstanding request outlives ctx cancellation but keeps its values.
func (c *Controller) Submit(ctx context.Context, resolver *Resolver) error {
	req, err := resolver.Resolve()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state.Status == StatusLoading {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	done := make(chan struct{})
	c.state = SessionState{Status: StatusLoading}
	c.done = done
	c.mu.Unlock()

	c.recorder.RequestStarted()
	go c.await(context.WithoutCancel(ctx), resolver, req, done)
	return nil
}

// Wait blocks until no request is outstanding and returns the state at that point.
func (c *Controller) Wait(ctx context.Context) (SessionState, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
	return c.State(), nil
}

func (c *Controller) await(ctx context.Context, resolver *Resolver, req Request, done chan struct{}) {
	defer close(done)
	start := c.now()

	result, err := c.predict(ctx, req)
	next := SessionState{Status: StatusSucceeded, Result: &result}
	outcome := string(StatusSucceeded)
	if err != nil {
		reason := FailureFromError(err)
		next = SessionState{Status: StatusFailed, Failure: reason}
		outcome = string(reason)
		if req.ByID() {
			resolver.ClearID()
		}
		c.logger.Warn("prediction failed", "reason", reason, "by_id", req.ByID(), "error", err)
	} else {
		c.logger.Info("prediction succeeded", "hazardous", result.IsHazardous, "by_id", req.ByID())
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	c.recorder.RequestFinished(outcome, c.now().Sub(start))
	if c.onSettle != nil {
		c.onSettle(next.clone())
	}
}

func (c *Controller) predict(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Wrap(CodeTransportFailure, "classifier panicked", fmt.Errorf("%v", r))
		}
	}()
	return c.classifier.Predict(ctx, req)
}

package prediction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/neo-hazard/pkg/errors"
)

func TestControllerSucceeds(t *testing.T) {
	stub := &stubClassifier{result: Result{IsHazardous: true, FalseProbability: 0.2, TrueProbability: 0.8}}
	ctrl := NewController(stub, newTestLogger())
	r := NewResolver()
	r.SetIDField(" 3542519 ")

	require.Equal(t, StatusIdle, ctrl.State().Status)
	require.NoError(t, ctrl.Submit(context.Background(), r))

	state := waitSettled(t, ctrl)
	require.Equal(t, StatusSucceeded, state.Status)
	require.NotNil(t, state.Result)
	require.True(t, state.Result.IsHazardous)
	require.Equal(t, 0.2, state.Result.FalseProbability)
	require.Equal(t, 0.8, state.Result.TrueProbability)
	require.Empty(t, state.Failure)
	require.Equal(t, "3542519", stub.lastRequest().ID)
	require.Equal(t, " 3542519 ", r.Snapshot().ID)
}

func TestControllerFailuresByID(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureReason
	}{
		{"capacity", apperrors.Wrap(CodeCapacityExceeded, "cuh", nil), FailureCapacityExceeded},
		{"invalid", apperrors.Wrap(CodeInvalidInput, "invalid", nil), FailureInvalidInput},
		{"transport", apperrors.Wrap(CodeTransportFailure, "refused", errors.New("connection refused")), FailureTransport},
		{"untagged", errors.New("boom"), FailureTransport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := NewController(&stubClassifier{err: tc.err}, newTestLogger())
			r := NewResolver()
			r.SetIDField("3542519")
			require.NoError(t, r.SetMode(ModeManual))
			fill(t, r, "1", "2", "3", "Earth", "4", "5")
			require.NoError(t, r.SetMode(ModeByID))

			require.NoError(t, ctrl.Submit(context.Background(), r))
			state := waitSettled(t, ctrl)

			require.Equal(t, StatusFailed, state.Status)
			require.Equal(t, tc.want, state.Failure)
			require.Nil(t, state.Result)
			snap := r.Snapshot()
			require.Empty(t, snap.ID)
			require.Equal(t, "5", snap.Manual.MissDistance)
		})
	}
}

func TestControllerFailureInManualModeKeepsFields(t *testing.T) {
	ctrl := NewController(&stubClassifier{err: apperrors.Wrap(CodeCapacityExceeded, "cuh", nil)}, newTestLogger())
	r := NewResolver()
	r.SetIDField("3542519")
	require.NoError(t, r.SetMode(ModeManual))
	fill(t, r, "1", "2", "3", "Earth", "4", "5")

	require.NoError(t, ctrl.Submit(context.Background(), r))
	state := waitSettled(t, ctrl)

	require.Equal(t, FailureCapacityExceeded, state.Failure)
	snap := r.Snapshot()
	require.Equal(t, "3542519", snap.ID)
	require.Equal(t, ManualFeatures{"1", "2", "3", "Earth", "4", "5"}, snap.Manual)
}

func TestControllerValidationShortCircuits(t *testing.T) {
	stub := &stubClassifier{}
	ctrl := NewController(stub, newTestLogger())
	r := NewResolver()

	err := ctrl.Submit(context.Background(), r)
	require.True(t, apperrors.IsCode(err, CodeMissingID))
	require.Equal(t, StatusIdle, ctrl.State().Status)
	require.Zero(t, stub.callCount())

	state, err := ctrl.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusIdle, state.Status)
}

func TestControllerValidationKeepsPreviousState(t *testing.T) {
	ctrl := NewController(&stubClassifier{result: Result{TrueProbability: 0.1, FalseProbability: 0.9}}, newTestLogger())
	r := NewResolver()
	r.SetIDField("3542519")
	require.NoError(t, ctrl.Submit(context.Background(), r))
	waitSettled(t, ctrl)

	r.SetIDField("")
	require.Error(t, ctrl.Submit(context.Background(), r))
	require.Equal(t, StatusSucceeded, ctrl.State().Status)
}

func TestControllerLoadingAndDoubleSubmit(t *testing.T) {
	release := make(chan struct{})
	stub := &stubClassifier{gate: release, result: Result{FalseProbability: 1}}
	ctrl := NewController(stub, newTestLogger())
	r := NewResolver()
	r.SetIDField("3542519")

	require.NoError(t, ctrl.Submit(context.Background(), r))
	require.Equal(t, StatusLoading, ctrl.State().Status)

	err := ctrl.Submit(context.Background(), r)
	require.ErrorIs(t, err, ErrSubmitInFlight)
	require.Equal(t, StatusLoading, ctrl.State().Status)

	close(release)
	state := waitSettled(t, ctrl)
	require.Equal(t, StatusSucceeded, state.Status)
	require.Equal(t, 1, stub.callCount())

	require.NoError(t, ctrl.Submit(context.Background(), r))
	require.Equal(t, StatusSucceeded, waitSettled(t, ctrl).Status)
	require.Equal(t, 2, stub.callCount())
}

func TestControllerSurvivesCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	stub := &stubClassifier{gate: release, result: Result{IsHazardous: true}}
	ctrl := NewController(stub, newTestLogger())
	r := NewResolver()
	r.SetIDField("3542519")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, ctrl.Submit(ctx, r))
	cancel()
	close(release)

	require.Equal(t, StatusSucceeded, waitSettled(t, ctrl).Status)
}

func TestControllerRecoversClassifierPanic(t *testing.T) {
	ctrl := NewController(&stubClassifier{panicWith: "nil map"}, newTestLogger())
	r := NewResolver()
	r.SetIDField("3542519")

	require.NoError(t, ctrl.Submit(context.Background(), r))
	state := waitSettled(t, ctrl)
	require.Equal(t, FailureTransport, state.Failure)
}

func TestControllerSettleHookAndRecorder(t *testing.T) {
	rec := &stubRecorder{}
	var (
		mu      sync.Mutex
		settled []SessionState
	)
	ctrl := NewController(&stubClassifier{err: apperrors.Wrap(CodeInvalidInput, "invalid", nil)}, newTestLogger(),
		WithRecorder(rec),
		WithSettleHook(func(s SessionState) {
			mu.Lock()
			settled = append(settled, s)
			mu.Unlock()
		}),
	)
	r := NewResolver()
	r.SetIDField("3542519")

	require.NoError(t, ctrl.Submit(context.Background(), r))
	waitSettled(t, ctrl)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, settled, 1)
	require.Equal(t, FailureInvalidInput, settled[0].Failure)
	require.Equal(t, 1, rec.started)
	require.Equal(t, []string{"invalid_input"}, rec.outcomes)
}

func TestControllerWaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	ctrl := NewController(&stubClassifier{gate: release}, newTestLogger())
	r := NewResolver()
	r.SetIDField("3542519")
	require.NoError(t, ctrl.Submit(context.Background(), r))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	state, err := ctrl.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, StatusLoading, state.Status)
}

func TestFailureMessagesAreDistinct(t *testing.T) {
	require.Contains(t, FailureCapacityExceeded.Message(), "try again later")
	require.Equal(t, "Invalid Input Data", FailureInvalidInput.Message())
	require.NotEqual(t, FailureCapacityExceeded.Message(), FailureTransport.Message())
}

func waitSettled(t *testing.T, ctrl *Controller) SessionState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	state, err := ctrl.Wait(ctx)
	require.NoError(t, err)
	require.True(t, state.Terminal(), "state %s is not terminal", state.Status)
	return state
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubClassifier struct {
	mu        sync.Mutex
	result    Result
	err       error
	gate      chan struct{}
	panicWith string
	calls     int
	last      Request
}

func (s *stubClassifier) Predict(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	s.calls++
	s.last = req
	s.mu.Unlock()
	if s.gate != nil {
		<-s.gate
	}
	if s.panicWith != "" {
		panic(s.panicWith)
	}
	if s.err != nil {
		return Result{}, s.err
	}
	return s.result, nil
}

func (s *stubClassifier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubClassifier) lastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

type stubRecorder struct {
	mu       sync.Mutex
	started  int
	outcomes []string
	hits     int
}

func (s *stubRecorder) RequestStarted() {
	s.mu.Lock()
	s.started++
	s.mu.Unlock()
}

func (s *stubRecorder) RequestFinished(outcome string, _ time.Duration) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, outcome)
	s.mu.Unlock()
}

func (s *stubRecorder) CacheHit() {
	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
}

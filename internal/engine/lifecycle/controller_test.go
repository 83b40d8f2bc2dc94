package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/core/ports/mocks"
	"go.trai.ch/memo/internal/engine/lifecycle"
	"go.uber.org/mock/gomock"
)

type mockSet struct {
	hasher *mocks.MockFingerprinter
	store  *mocks.MockCacheStore
	locker *mocks.MockLocker
	tracer *mocks.MockTracer
	span   *mocks.MockSpan
	logger *mocks.MockLogger
}

func newMocked(t *testing.T) (*lifecycle.Controller, *mockSet) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &mockSet{
		hasher: mocks.NewMockFingerprinter(ctrl),
		store:  mocks.NewMockCacheStore(ctrl),
		locker: mocks.NewMockLocker(ctrl),
		tracer: mocks.NewMockTracer(ctrl),
		span:   mocks.NewMockSpan(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, m.span
		}).AnyTimes()
	m.span.EXPECT().End().AnyTimes()
	m.span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	c := lifecycle.New(m.hasher, m.store, m.locker, mocks.NewMockRegistry(ctrl), mocks.NewMockProvenance(ctrl), m.tracer, m.logger)
	return c, m
}

func snapshotA() *domain.ParamSnapshot {
	return &domain.ParamSnapshot{ObjectName: "A", Fingerprint: fpAx}
}

func TestCompute_FingerprintErrorSkipsLock(t *testing.T) {
	t.Parallel()

	c, m := newMocked(t)
	m.hasher.EXPECT().Snapshot(gomock.Any()).Return(nil, domain.ErrUnstableParam)
	m.span.EXPECT().RecordError(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrUnstableParam)
	})

	_, err := lifecycle.Compute[string](context.Background(), c, newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrUnstableParam)
}

func TestCompute_ReleasesLockOnError(t *testing.T) {
	t.Parallel()

	c, m := newMocked(t)
	released := false
	m.hasher.EXPECT().Snapshot(gomock.Any()).Return(snapshotA(), nil)
	m.locker.EXPECT().Acquire(gomock.Any(), "A", fpAx).Return(func() error {
		released = true
		return nil
	}, nil)
	m.store.EXPECT().Resolve(gomock.Any()).Return("", domain.ErrAmbiguousCacheEntry)
	m.span.EXPECT().RecordError(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrAmbiguousCacheEntry)
	})

	_, err := lifecycle.Compute[string](context.Background(), c, newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrAmbiguousCacheEntry)
	assert.True(t, released)
}

func TestCompute_ReleaseFailureIsWarning(t *testing.T) {
	t.Parallel()

	c, m := newMocked(t)
	m.hasher.EXPECT().Snapshot(gomock.Any()).Return(snapshotA(), nil)
	m.locker.EXPECT().Acquire(gomock.Any(), "A", fpAx).Return(func() error {
		return errors.New("bad file descriptor")
	}, nil)
	m.store.EXPECT().Resolve(gomock.Any()).Return(t.TempDir(), nil)
	m.store.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	m.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "failed to release lock")
	})

	payload, err := lifecycle.Compute[string](context.Background(), c, newA("", "x", nil))
	require.NoError(t, err)
	assert.Equal(t, "I am the object A with params x, y, z", payload)
}

func TestCompute_LockFailure(t *testing.T) {
	t.Parallel()

	c, m := newMocked(t)
	m.hasher.EXPECT().Snapshot(gomock.Any()).Return(snapshotA(), nil)
	m.locker.EXPECT().Acquire(gomock.Any(), "A", fpAx).Return(nil, domain.ErrLockFailed)
	m.span.EXPECT().RecordError(gomock.Any())

	_, err := lifecycle.Compute[string](context.Background(), c, newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrLockFailed)
}

func TestLoad_AmbiguousEntry(t *testing.T) {
	t.Parallel()

	c, m := newMocked(t)
	m.hasher.EXPECT().Fingerprint(gomock.Any()).Return(fpAx, nil)
	m.store.EXPECT().Find("A", fpAx).Return("", false, domain.ErrAmbiguousCacheEntry)
	m.span.EXPECT().RecordError(gomock.Any())

	_, err := lifecycle.Load[string](context.Background(), c, newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrAmbiguousCacheEntry)
}

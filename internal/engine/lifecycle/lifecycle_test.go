package lifecycle_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/cas"
	"go.trai.ch/memo/internal/adapters/fs"
	"go.trai.ch/memo/internal/adapters/lock"
	"go.trai.ch/memo/internal/adapters/registry"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/core/ports/mocks"
	"go.trai.ch/memo/internal/engine/lifecycle"
	"go.uber.org/mock/gomock"
)

const (
	fpAx = domain.Fingerprint("becdbfe1c8ec08d5c4ccc32f58602fc227f4ce35")
	fpAw = domain.Fingerprint("c0e0c3b38dfa744fae4654bdaf174ae27417c5c0")
	fpC  = domain.Fingerprint("68643342b75a3aaa6b0306727cd153ad55ef6c8a")
)

// objA is a cacheable string payload stored as A.txt.
type objA struct {
	domain.Tag
	A1, A2, A3 string

	created *atomic.Int32
	loadErr error
	saveErr error
	failErr error
	delay   time.Duration
}

func newA(tag, a1 string, created *atomic.Int32) *objA {
	return &objA{Tag: domain.Tag{Tag: tag}, A1: a1, A2: "y", A3: "z", created: created}
}

func (a *objA) Name() string { return "A" }

func (a *objA) TrackedFields() []domain.Field {
	return []domain.Field{
		domain.Track("A1", domain.String(a.A1)),
		domain.Track("A2", domain.String(a.A2)),
		domain.Track("A3", domain.String(a.A3)),
	}
}

func (a *objA) Create(_ context.Context) (string, error) {
	if a.failErr != nil {
		return "", a.failErr
	}
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.created != nil {
		a.created.Add(1)
	}
	return fmt.Sprintf("I am the object A with params %s, %s, %s", a.A1, a.A2, a.A3), nil
}

func (a *objA) LoadFromFile(dir string) (string, error) {
	if a.loadErr != nil {
		return "", a.loadErr
	}
	data, err := os.ReadFile(filepath.Join(dir, "A.txt"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *objA) SaveToFile(dir, payload string) error {
	if a.saveErr != nil {
		return a.saveErr
	}
	return os.WriteFile(filepath.Join(dir, "A.txt"), []byte(payload), domain.FilePerm)
}

// objC depends on A and concatenates its payload.
type objC struct {
	domain.Tag
	C1 string
	A  *objA

	created *atomic.Int32
}

func (c *objC) Name() string { return "C" }

func (c *objC) TrackedFields() []domain.Field {
	return []domain.Field{
		domain.Track("C1", domain.String(c.C1)),
		domain.DependsOn("a", c.A),
	}
}

func (c *objC) Create(ctx context.Context) (string, error) {
	a, err := lifecycle.Dep[string](ctx, c.A)
	if err != nil {
		return "", err
	}
	c.created.Add(1)
	return c.C1 + " + " + a, nil
}

func (c *objC) LoadFromFile(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "C.txt"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *objC) SaveToFile(dir, payload string) error {
	return os.WriteFile(filepath.Join(dir, "C.txt"), []byte(payload), domain.FilePerm)
}

var (
	_ ports.Cacheable[string] = (*objA)(nil)
	_ ports.Cacheable[string] = (*objC)(nil)
)

type fixture struct {
	root       string
	controller *lifecycle.Controller
	logger     *mocks.MockLogger
	provenance *mocks.MockProvenance
}

func newFixture(t *testing.T, tracer ports.Tracer) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	prov := mocks.NewMockProvenance(ctrl)

	if tracer == nil {
		tracer = telemetry.NewNoOpTracer()
	}

	root := t.TempDir()
	c := lifecycle.New(
		fs.NewHasher(fs.NewWalker()),
		cas.NewStore(root),
		lock.NewLocker(root, 5*time.Millisecond),
		registry.NewFileRegistry(),
		prov,
		tracer,
		log,
	)
	return &fixture{root: root, controller: c, logger: log, provenance: prov}
}

func TestCompute_Scenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	var created atomic.Int32

	payload, err := lifecycle.Compute[string](ctx, f.controller, newA("first", "x", &created))
	require.NoError(t, err)
	assert.Equal(t, "I am the object A with params x, y, z", payload)
	assert.Equal(t, int32(1), created.Load())

	folder := filepath.Join(f.root, "A", "A_first_"+fpAx.String())
	assert.FileExists(t, filepath.Join(folder, "A.txt"))
	assert.FileExists(t, filepath.Join(folder, domain.ParamsFileName))

	// Same fields, no tag: same folder, no creation.
	again, err := lifecycle.Compute[string](ctx, f.controller, newA("", "x", &created))
	require.NoError(t, err)
	assert.Equal(t, payload, again)
	assert.Equal(t, int32(1), created.Load())

	got, err := f.controller.Folder(newA("", "x", nil))
	require.NoError(t, err)
	assert.Equal(t, folder, got)

	// Different A1: new fingerprint, new folder.
	changed, err := lifecycle.Compute[string](ctx, f.controller, newA("first", "w", &created))
	require.NoError(t, err)
	assert.Equal(t, "I am the object A with params w, y, z", changed)
	assert.Equal(t, int32(2), created.Load())
	assert.DirExists(t, filepath.Join(f.root, "A", "A_first_"+fpAw.String()))
}

func TestCompute_Dependency(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	var createdA, createdC atomic.Int32

	c := &objC{C1: "c", A: newA("first", "x", &createdA), created: &createdC}

	payload, err := lifecycle.Compute[string](ctx, f.controller, c)
	require.NoError(t, err)
	assert.Equal(t, "c + I am the object A with params x, y, z", payload)
	assert.Equal(t, int32(1), createdA.Load())
	assert.Equal(t, int32(1), createdC.Load())
	assert.DirExists(t, filepath.Join(f.root, "C", "C_"+fpC.String()))
	assert.DirExists(t, filepath.Join(f.root, "A", "A_first_"+fpAx.String()))

	_, err = lifecycle.Compute[string](ctx, f.controller, c)
	require.NoError(t, err)
	assert.Equal(t, int32(1), createdA.Load())
	assert.Equal(t, int32(1), createdC.Load())

	// Changing the dependency changes the dependent's folder.
	c2 := &objC{C1: "c", A: newA("first", "w", &createdA), created: &createdC}
	fp, err := f.controller.Fingerprint(c2)
	require.NoError(t, err)
	assert.NotEqual(t, fpC, fp)
}

func TestCompute_LoadFailurePropagates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	var created atomic.Int32
	a := newA("", "x", &created)
	a.loadErr = errors.New("corrupt payload")

	_, err := lifecycle.Compute[string](context.Background(), f.controller, a)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrLoadFailed)
	assert.Zero(t, created.Load())
}

func TestCompute_NotFoundSentinelTriggersCreate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	var created atomic.Int32
	a := newA("", "x", &created)
	a.loadErr = wrappedNotFound()

	_, err := lifecycle.Compute[string](context.Background(), f.controller, a)
	require.NoError(t, err)
	assert.Equal(t, int32(1), created.Load())
}

func wrappedNotFound() error {
	return fmt.Errorf("payload: %w", domain.ErrNotFound)
}

func TestCompute_CreateFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	a := newA("", "x", nil)
	a.failErr = errors.New("boom")

	_, err := lifecycle.Compute[string](ctx, f.controller, a)
	require.ErrorIs(t, err, domain.ErrCreateFailed)

	_, err = lifecycle.Load[string](ctx, f.controller, newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrNotComputed)
}

func TestCompute_SaveFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	a := newA("", "x", nil)
	a.saveErr = errors.New("disk full")

	_, err := lifecycle.Compute[string](ctx, f.controller, a)
	require.ErrorIs(t, err, domain.ErrSaveFailed)

	folder, err := f.controller.Folder(a)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(folder, "A.txt"))
}

func TestCompute_ConcurrentCallersShareCreation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	var created atomic.Int32

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := newA("", "x", &created)
			a.delay = 20 * time.Millisecond
			results[i], errs[i] = lifecycle.Compute[string](context.Background(), f.controller, a)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "I am the object A with params x, y, z", results[i])
	}
	assert.Equal(t, int32(1), created.Load())
}

func TestCompute_JoinedCallerOutlivesFirstDeadline(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	var created atomic.Int32

	holder := lock.NewLocker(f.root, 5*time.Millisecond)
	release, err := holder.Acquire(context.Background(), "A", fpAx)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	firstErr := make(chan error, 1)
	go func() {
		_, err := lifecycle.Compute[string](short, f.controller, newA("", "x", &created))
		firstErr <- err
	}()

	time.Sleep(10 * time.Millisecond)
	type outcome struct {
		payload string
		err     error
	}
	second := make(chan outcome, 1)
	go func() {
		payload, err := lifecycle.Compute[string](context.Background(), f.controller, newA("", "x", &created))
		second <- outcome{payload: payload, err: err}
	}()

	require.ErrorIs(t, <-firstErr, context.DeadlineExceeded)

	time.Sleep(60 * time.Millisecond)
	require.NoError(t, release())

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "I am the object A with params x, y, z", got.payload)
	assert.Equal(t, int32(1), created.Load())
}

func TestCompute_InvalidIdentity(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	a := newA("a/b", "x", nil)

	_, err := lifecycle.Compute[string](context.Background(), f.controller, a)
	require.ErrorIs(t, err, domain.ErrInvalidRunTag)
}

func TestLoad_Strict(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := lifecycle.Load[string](ctx, f.controller, newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrNotComputed)

	// A folder without payload is still not computed.
	_, err = f.controller.Folder(newA("", "x", nil))
	require.NoError(t, err)
	_, err = lifecycle.Load[string](ctx, f.controller, newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrNotComputed)

	var created atomic.Int32
	_, err = lifecycle.Compute[string](ctx, f.controller, newA("tag", "x", &created))
	require.NoError(t, err)

	payload, err := lifecycle.Load[string](ctx, f.controller, newA("other", "x", nil))
	require.NoError(t, err)
	assert.Equal(t, "I am the object A with params x, y, z", payload)
	assert.Equal(t, int32(1), created.Load())
}

func TestDep_WithoutController(t *testing.T) {
	t.Parallel()

	_, err := lifecycle.Dep[string](context.Background(), newA("", "x", nil))
	require.ErrorIs(t, err, domain.ErrNoController)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	_, ok := lifecycle.FromContext(context.Background())
	assert.False(t, ok)

	got, ok := lifecycle.FromContext(lifecycle.WithController(context.Background(), f.controller))
	require.True(t, ok)
	assert.Same(t, f.controller, got)
}

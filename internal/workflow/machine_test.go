package workflow

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/model"
	"resultpost/internal/workflow/publish"
	"resultpost/internal/workflow/verify"
)

type fakePublisher struct {
	published   *publish.PublishedResult
	err         error
	started     chan struct{}
	block       chan struct{}
	calls       int
	retryCalls  int
	retryDrawID int64
}

func (f *fakePublisher) Publish(_ context.Context, _ *model.Game, _, _ []int) (*publish.PublishedResult, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}

	return f.published, f.err
}

func (f *fakePublisher) RetryResult(_ context.Context, drawID int64, _ *model.Game, _, _ []int) (*publish.PublishedResult, error) {
	f.retryCalls++
	f.retryDrawID = drawID

	return f.published, f.err
}

func testGame() *model.Game {
	return &model.Game{
		ID:                  1,
		Name:                "Monday Special",
		NumbersCount:        5,
		MaxNumber:           36,
		MachineNumbersCount: 5,
		MaxMachineNumber:    90,
		IsActive:            true,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fillEntry(t *testing.T, m *Machine, category Category, values []int) {
	t.Helper()

	for i, v := range values {
		require.NoError(t, m.SetEntrySlot(category, i, strconv.Itoa(v)))
	}
}

func fillEcho(t *testing.T, m *Machine, category Category, values []int) {
	t.Helper()

	for i, v := range values {
		require.NoError(t, m.SetEchoSlot(category, i, strconv.Itoa(v)))
	}
}

func machineAtVerify(t *testing.T, pub Publisher) *Machine {
	t.Helper()

	m := NewMachine(testLogger(), pub)

	require.NoError(t, m.SelectGame(testGame()))
	fillEntry(t, m, Primary, []int{3, 17, 22, 30, 36})
	fillEntry(t, m, Secondary, []int{5, 12, 44, 67, 90})
	require.NoError(t, m.ContinueToVerify())

	return m
}

func TestMachine_SelectGame(t *testing.T) {
	t.Parallel()

	m := NewMachine(testLogger(), &fakePublisher{})

	require.NoError(t, m.SelectGame(testGame()))
	assert.Equal(t, StageEnter, m.Stage())

	draft := m.Draft()
	require.NotNil(t, draft)
	assert.Equal(t, 5, draft.Primary.Size())
	assert.Equal(t, 36, draft.Primary.Bound())
	require.NotNil(t, draft.Secondary)
	assert.Equal(t, 90, draft.Secondary.Bound())

	err := m.SelectGame(testGame())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMachine_SelectGame_NoMachineNumbers(t *testing.T) {
	t.Parallel()

	m := NewMachine(testLogger(), &fakePublisher{})

	game := testGame()
	game.MachineNumbersCount = 0
	game.MaxMachineNumber = 0

	require.NoError(t, m.SelectGame(game))
	assert.Nil(t, m.Draft().Secondary)

	err := m.SetEntrySlot(Secondary, 0, "4")
	assert.ErrorIs(t, err, ErrNoSecondarySet)
}

func TestMachine_ContinueToVerify_Gate(t *testing.T) {
	t.Parallel()

	m := NewMachine(testLogger(), &fakePublisher{})
	require.NoError(t, m.SelectGame(testGame()))

	err := m.ContinueToVerify()
	assert.ErrorIs(t, err, ErrIncompleteEntry)

	fillEntry(t, m, Primary, []int{3, 17, 22, 30, 36})

	err = m.ContinueToVerify()
	assert.ErrorIs(t, err, ErrIncompleteEntry)

	fillEntry(t, m, Secondary, []int{5, 12, 44, 67, 90})

	require.NoError(t, m.ContinueToVerify())
	assert.Equal(t, StageVerify, m.Stage())

	attempt := m.Attempt()
	require.NotNil(t, attempt)
	assert.False(t, attempt.Primary.IsComplete())
}

func TestMachine_VerifyAndPublish_Match(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{published: &publish.PublishedResult{ID: 42, DrawID: 9}}
	m := machineAtVerify(t, pub)

	fillEcho(t, m, Primary, []int{3, 17, 22, 30, 36})
	fillEcho(t, m, Secondary, []int{5, 12, 44, 67, 90})

	outcome, err := m.VerifyAndPublish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, verify.Match, outcome)
	assert.Equal(t, StagePreview, m.Stage())
	assert.Equal(t, 1, pub.calls)

	published := m.Published()
	require.NotNil(t, published)
	assert.Equal(t, int64(42), published.ID)
}

func TestMachine_VerifyAndPublish_SwappedSecondaryMismatch(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	m := machineAtVerify(t, pub)

	fillEcho(t, m, Primary, []int{3, 17, 22, 30, 36})
	// Same values, first two swapped: positional comparison must fail.
	fillEcho(t, m, Secondary, []int{12, 5, 44, 67, 90})

	outcome, err := m.VerifyAndPublish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, verify.Mismatch, outcome)
	assert.Equal(t, StageVerify, m.Stage())
	assert.Zero(t, pub.calls)

	// The attempt is cleared for retry; the draft survives untouched.
	assert.False(t, m.Attempt().Primary.IsComplete())
	assert.True(t, m.Draft().Primary.IsComplete())
}

func TestMachine_Back(t *testing.T) {
	t.Parallel()

	m := machineAtVerify(t, &fakePublisher{})
	fillEcho(t, m, Primary, []int{3, 17, 22, 30, 36})

	require.NoError(t, m.Back())
	assert.Equal(t, StageEnter, m.Stage())
	assert.True(t, m.Draft().Primary.IsComplete())
	assert.Nil(t, m.Attempt())

	// A fresh attempt is seeded when verification starts again.
	require.NoError(t, m.ContinueToVerify())
	assert.False(t, m.Attempt().Primary.IsComplete())
}

func TestMachine_VerifyAndPublish_ResultStepRetry(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{
		err: &publish.Error{Step: publish.StepResult, DrawID: 7, Err: errors.New("boom")},
	}
	m := machineAtVerify(t, pub)

	fillEcho(t, m, Primary, []int{3, 17, 22, 30, 36})
	fillEcho(t, m, Secondary, []int{5, 12, 44, 67, 90})

	outcome, err := m.VerifyAndPublish(context.Background())
	require.Error(t, err)
	assert.Equal(t, verify.Match, outcome)
	assert.Equal(t, StageVerify, m.Stage())
	assert.Equal(t, 1, pub.calls)

	// The draw was created; the next attempt must not create another one.
	pub.err = nil
	pub.published = &publish.PublishedResult{ID: 11, DrawID: 7}

	outcome, err = m.VerifyAndPublish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, verify.Match, outcome)
	assert.Equal(t, StagePreview, m.Stage())
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, 1, pub.retryCalls)
	assert.Equal(t, int64(7), pub.retryDrawID)
}

func TestMachine_AdvanceToShare(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{published: &publish.PublishedResult{ID: 42}}
	m := machineAtVerify(t, pub)

	err := m.AdvanceToShare()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	fillEcho(t, m, Primary, []int{3, 17, 22, 30, 36})
	fillEcho(t, m, Secondary, []int{5, 12, 44, 67, 90})

	_, err = m.VerifyAndPublish(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.AdvanceToShare())
	assert.Equal(t, StageShare, m.Stage())
	require.NotNil(t, m.Published())
}

func TestMachine_Reset(t *testing.T) {
	t.Parallel()

	m := machineAtVerify(t, &fakePublisher{})

	m.Reset()
	assert.Equal(t, StageSelect, m.Stage())
	assert.Nil(t, m.Draft())
	assert.Nil(t, m.Attempt())
	assert.Nil(t, m.Published())
}

func TestMachine_Reset_AbandonsPendingPublish(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{
		published: &publish.PublishedResult{ID: 42},
		started:   make(chan struct{}),
		block:     make(chan struct{}),
	}
	m := machineAtVerify(t, pub)

	fillEcho(t, m, Primary, []int{3, 17, 22, 30, 36})
	fillEcho(t, m, Secondary, []int{5, 12, 44, 67, 90})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.VerifyAndPublish(context.Background())
	}()

	// Wait until the publish call is actually in flight, then reset.
	<-pub.started
	m.Reset()
	close(pub.block)
	<-done

	// The late completion is dropped; the machine stays in select.
	assert.Equal(t, StageSelect, m.Stage())
	assert.Nil(t, m.Published())
}

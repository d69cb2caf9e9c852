package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/model"
	"resultpost/internal/lib/logger/sl"
	"resultpost/internal/workflow/numberset"
	"resultpost/internal/workflow/publish"
	"resultpost/internal/workflow/verify"
)

type Stage string

const (
	StageSelect  Stage = "select"
	StageEnter   Stage = "enter"
	StageVerify  Stage = "verify"
	StagePreview Stage = "preview"
	StageShare   Stage = "share"
)

type Category string

const (
	Primary   Category = "primary"
	Secondary Category = "secondary"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in the current stage")
	ErrIncompleteEntry   = errors.New("number entry is incomplete")
	ErrNoSecondarySet    = errors.New("game has no machine numbers")
	ErrPublishPending    = errors.New("a publish attempt is already in flight")
)

// DraftResult holds the first-pass entry. It is mutated only during the
// enter stage and never persisted directly.
type DraftResult struct {
	Game      *model.Game
	Primary   *numberset.NumberSet
	Secondary *numberset.NumberSet
}

// VerificationAttempt is the independently re-entered echo of a draft. It
// lives only through the verify stage: discarded on success, cleared for
// retry on failure.
type VerificationAttempt struct {
	Primary   *numberset.NumberSet
	Secondary *numberset.NumberSet
}

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=Publisher
type Publisher interface {
	Publish(ctx context.Context, game *model.Game, primary, secondary []int) (*publish.PublishedResult, error)
	RetryResult(ctx context.Context, drawID int64, game *model.Game, primary, secondary []int) (*publish.PublishedResult, error)
}

// state is the tagged stage value. Each variant carries only the data valid
// for its stage, so a later stage can never read a stale earlier one.
type state interface {
	stage() Stage
}

type selectState struct{}

type enterState struct {
	draft *DraftResult
}

type verifyState struct {
	draft   *DraftResult
	attempt *VerificationAttempt
}

type previewState struct {
	published *publish.PublishedResult
}

type shareState struct {
	published *publish.PublishedResult
}

func (selectState) stage() Stage  { return StageSelect }
func (enterState) stage() Stage   { return StageEnter }
func (verifyState) stage() Stage  { return StageVerify }
func (previewState) stage() Stage { return StagePreview }
func (shareState) stage() Stage   { return StageShare }

// Machine sequences one result entry pass through
// select → enter → verify → preview → share. It tracks a single in-progress
// draft; at most one publish attempt is in flight at a time, and a reset
// while an attempt is pending abandons it: its late completion is dropped.
type Machine struct {
	log       *slog.Logger
	publisher Publisher

	mu          sync.Mutex
	state       state
	epoch       uint64
	pending     bool
	retryDrawID int64
}

func NewMachine(log *slog.Logger, publisher Publisher) *Machine {
	return &Machine{
		log:       log,
		publisher: publisher,
		state:     selectState{},
	}
}

func (m *Machine) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.stage()
}

// SelectGame enters the workflow proper, seeding empty number sets sized to
// the game's profile.
func (m *Machine) SelectGame(game *model.Game) error {
	const op = "workflow.SelectGame"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.(selectState); !ok {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	draft := &DraftResult{
		Game:    game,
		Primary: numberset.New(game.NumbersCount, game.MaxNumber),
	}
	if game.HasMachineNumbers() {
		draft.Secondary = numberset.New(game.MachineNumbersCount, game.MaxMachineNumber)
	}

	m.state = enterState{draft: draft}

	return nil
}

// SetEntrySlot mutates the draft during the enter stage.
func (m *Machine) SetEntrySlot(category Category, index int, value string) error {
	const op = "workflow.SetEntrySlot"

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.(enterState)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	set, err := pickSet(st.draft.Primary, st.draft.Secondary, category)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return set.SetSlot(index, value)
}

// SetEchoSlot mutates the verification attempt during the verify stage.
func (m *Machine) SetEchoSlot(category Category, index int, value string) error {
	const op = "workflow.SetEchoSlot"

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.(verifyState)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	set, err := pickSet(st.attempt.Primary, st.attempt.Secondary, category)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return set.SetSlot(index, value)
}

// ContinueToVerify is the enter → verify gate. Both sets must finalize
// cleanly (complete, duplicate-free, in range); the transition is refused
// otherwise.
func (m *Machine) ContinueToVerify() error {
	const op = "workflow.ContinueToVerify"

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.(enterState)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	if !st.draft.Primary.IsComplete() {
		return fmt.Errorf("%s: %w", op, ErrIncompleteEntry)
	}
	if _, err := st.draft.Primary.Values(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if st.draft.Secondary != nil {
		if !st.draft.Secondary.IsComplete() {
			return fmt.Errorf("%s: %w", op, ErrIncompleteEntry)
		}
		if _, err := st.draft.Secondary.Values(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	m.state = verifyState{
		draft:   st.draft,
		attempt: newAttempt(st.draft),
	}

	return nil
}

// Back is the explicit verify → enter back-edge. The in-progress attempt is
// discarded; the draft survives.
func (m *Machine) Back() error {
	const op = "workflow.Back"

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.(verifyState)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	m.state = enterState{draft: st.draft}

	return nil
}

// VerifyAndPublish compares the attempt against the draft and, on an exact
// match, publishes the pair. A mismatch keeps the machine in verify with the
// attempt cleared for retry. A duplicate found by the pre-check forces the
// machine back to enter. On a publish failure the machine stays in verify
// and remembers a created draw so the next attempt retries only the result
// step.
//
// The lock is released for the duration of the network call; a Reset made
// while the call is pending wins, and the late completion is ignored.
func (m *Machine) VerifyAndPublish(ctx context.Context) (verify.Outcome, error) {
	const op = "workflow.VerifyAndPublish"

	m.mu.Lock()

	st, ok := m.state.(verifyState)
	if !ok {
		m.mu.Unlock()

		return verify.Mismatch, fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	if m.pending {
		m.mu.Unlock()

		return verify.Mismatch, fmt.Errorf("%s: %w", op, ErrPublishPending)
	}

	outcome, err := verify.Sets(st.draft.Primary, st.attempt.Primary, st.draft.Secondary, st.attempt.Secondary)
	if err != nil {
		// Duplicates mean the entry was never valid; only re-entry can fix it.
		m.state = enterState{draft: st.draft}
		m.mu.Unlock()

		return verify.Mismatch, fmt.Errorf("%s: %w", op, err)
	}

	if outcome == verify.Mismatch {
		m.state = verifyState{
			draft:   st.draft,
			attempt: newAttempt(st.draft),
		}
		m.mu.Unlock()

		return verify.Mismatch, nil
	}

	primary, err := st.draft.Primary.Values()
	if err != nil {
		m.mu.Unlock()

		return verify.Mismatch, fmt.Errorf("%s: %w", op, err)
	}

	var secondary []int
	if st.draft.Secondary != nil {
		secondary, err = st.draft.Secondary.Values()
		if err != nil {
			m.mu.Unlock()

			return verify.Mismatch, fmt.Errorf("%s: %w", op, err)
		}
	}

	m.pending = true
	epoch := m.epoch
	game := st.draft.Game
	retryDrawID := m.retryDrawID
	m.mu.Unlock()

	var published *publish.PublishedResult

	if retryDrawID != 0 {
		published, err = m.publisher.RetryResult(ctx, retryDrawID, game, primary, secondary)
	} else {
		published, err = m.publisher.Publish(ctx, game, primary, secondary)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		// The workflow was reset while the call was in flight.
		m.log.Info("discarding publish completion for abandoned attempt")

		return verify.Match, nil
	}

	m.pending = false

	if err != nil {
		var pubErr *publish.Error
		if errors.As(err, &pubErr) && pubErr.Step == publish.StepResult {
			m.retryDrawID = pubErr.DrawID
		}

		m.log.Error("publish failed", sl.Err(err))

		return verify.Match, fmt.Errorf("%s: %w", op, err)
	}

	m.retryDrawID = 0
	m.state = previewState{published: published}

	return verify.Match, nil
}

// AdvanceToShare is the preview → share transition; there is no forward skip
// into share from anywhere else.
func (m *Machine) AdvanceToShare() error {
	const op = "workflow.AdvanceToShare"

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.(previewState)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	m.state = shareState{published: st.published}

	return nil
}

// Reset returns to select from any stage, discarding all in-progress data.
// An in-flight publish is abandoned, not cancelled; its completion will be
// dropped.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = selectState{}
	m.epoch++
	m.pending = false
	m.retryDrawID = 0
}

// Draft exposes the current draft in the enter and verify stages.
func (m *Machine) Draft() *DraftResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch st := m.state.(type) {
	case enterState:
		return st.draft
	case verifyState:
		return st.draft
	default:
		return nil
	}
}

// Attempt exposes the verification attempt in the verify stage.
func (m *Machine) Attempt() *VerificationAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.state.(verifyState); ok {
		return st.attempt
	}

	return nil
}

// Published exposes the published result in the preview and share stages.
func (m *Machine) Published() *publish.PublishedResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch st := m.state.(type) {
	case previewState:
		return st.published
	case shareState:
		return st.published
	default:
		return nil
	}
}

func newAttempt(draft *DraftResult) *VerificationAttempt {
	attempt := &VerificationAttempt{
		Primary: numberset.New(draft.Primary.Size(), draft.Primary.Bound()),
	}
	if draft.Secondary != nil {
		attempt.Secondary = numberset.New(draft.Secondary.Size(), draft.Secondary.Bound())
	}

	return attempt
}

func pickSet(primary, secondary *numberset.NumberSet, category Category) (*numberset.NumberSet, error) {
	switch category {
	case Primary:
		return primary, nil
	case Secondary:
		if secondary == nil {
			return nil, ErrNoSecondarySet
		}

		return secondary, nil
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
}

package publish

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"resultpost/internal/config"
	"resultpost/internal/dataservice"
	"resultpost/internal/http-server/model"
	"resultpost/internal/lib/logger/sl"
	"resultpost/internal/lib/numbers"
)

type Step string

const (
	StepDraw   Step = "draw"
	StepResult Step = "result"
)

// Error reports which publish step failed. When the result step fails after
// the draw was created, DrawID carries the orphaned draw so a caller can
// retry the result against it; the draw is not rolled back.
type Error struct {
	Step   Step
	DrawID int64
	Err    error
}

func (e *Error) Error() string {
	if e.Step == StepResult && e.DrawID != 0 {
		return fmt.Sprintf("publish failed at %s step (draw %d already created): %v", e.Step, e.DrawID, e.Err)
	}

	return fmt.Sprintf("publish failed at %s step: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PublishedResult is the durable record handed back after a verified draw and
// result pair is created, held by the workflow as a read reference only.
type PublishedResult struct {
	ID             int64
	GameID         int64
	GameName       string
	DrawID         int64
	DrawDatetime   time.Time
	WinningNumbers []int
	MachineNumbers []int
	ShareCopy      string
	ShareHashtags  []string
	ShareTargets   []string
	Status         config.ReviewStatus
	Verified       bool
	VerifiedAt     *time.Time
	Approvals      []model.ResultApproval
	CreatedAt      time.Time
}

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=DataService
type DataService interface {
	CreateDraw(ctx context.Context, req dataservice.CreateDrawRequest) (*model.Draw, error)
	CreateResult(ctx context.Context, req dataservice.CreateResultRequest) (*model.Result, error)
}

type Publisher struct {
	log *slog.Logger
	svc DataService
	now func() time.Time
}

func New(log *slog.Logger, svc DataService) *Publisher {
	return &Publisher{
		log: log,
		svc: svc,
		now: time.Now,
	}
}

// Publish creates a draw scoped to the game and the current timestamp, then a
// result referencing it. The two steps are strictly ordered; a result-step
// failure leaves the created draw in place and surfaces its id for retry.
func (p *Publisher) Publish(ctx context.Context, game *model.Game, primary, secondary []int) (*PublishedResult, error) {
	const op = "publish.Publish"

	draw, err := p.svc.CreateDraw(ctx, dataservice.CreateDrawRequest{
		GameID:       game.ID,
		DrawDatetime: p.now(),
	})
	if err != nil {
		p.log.Error("failed to create draw", sl.Err(err))

		return nil, &Error{Step: StepDraw, Err: fmt.Errorf("%s: %w", op, err)}
	}

	p.log.Info("draw created", sl.Int64("draw_id", draw.ID))

	return p.createResult(ctx, draw.ID, game, primary, secondary)
}

// RetryResult re-runs only the result step against a draw that survived an
// earlier failed publish, keeping recovery idempotent by draw id.
func (p *Publisher) RetryResult(ctx context.Context, drawID int64, game *model.Game, primary, secondary []int) (*PublishedResult, error) {
	return p.createResult(ctx, drawID, game, primary, secondary)
}

func (p *Publisher) createResult(ctx context.Context, drawID int64, game *model.Game, primary, secondary []int) (*PublishedResult, error) {
	const op = "publish.createResult"

	result, err := p.svc.CreateResult(ctx, dataservice.CreateResultRequest{
		DrawID:         drawID,
		WinningNumbers: primary,
		MachineNumbers: secondary,
	})
	if err != nil {
		p.log.Error("failed to create result", sl.Err(err), sl.Int64("draw_id", drawID))

		return nil, &Error{Step: StepResult, DrawID: drawID, Err: fmt.Errorf("%s: %w", op, err)}
	}

	p.log.Info("result created", sl.Int64("result_id", result.ID))

	return buildPublished(result, game, primary, secondary), nil
}

// buildPublished re-parses the service-echoed CSV fields the same way the
// display path does. Empty or absent echoes fall back to the locally
// submitted integers; that is a fallback, not an error.
func buildPublished(result *model.Result, game *model.Game, primary, secondary []int) *PublishedResult {
	winning := numbers.ParseCSV(result.WinningNumbers)
	if len(winning) == 0 {
		winning = primary
	}

	var machine []int
	if result.MachineNumbers != nil {
		machine = numbers.ParseCSV(*result.MachineNumbers)
	}
	if len(machine) == 0 {
		machine = secondary
	}

	published := &PublishedResult{
		ID:             result.ID,
		GameID:         game.ID,
		GameName:       game.Name,
		DrawID:         result.DrawID,
		WinningNumbers: winning,
		MachineNumbers: machine,
		ShareCopy:      result.ShareCopy,
		ShareHashtags:  result.ShareHashtags,
		ShareTargets:   result.ShareTargets,
		Status:         normalizeStatus(result.Status),
		Verified:       result.Verified,
		VerifiedAt:     result.VerifiedAt,
		Approvals:      result.Approvals,
		CreatedAt:      result.CreatedAt,
	}

	if result.Draw != nil {
		published.DrawDatetime = result.Draw.DrawDatetime

		if result.Draw.Game != nil && result.Draw.Game.Name != "" {
			published.GameID = result.Draw.GameID
			published.GameName = result.Draw.Game.Name
		}
	}

	return published
}

func normalizeStatus(status config.ReviewStatus) config.ReviewStatus {
	switch status {
	case config.PendingReview, config.Approved, config.ChangesRequested:
		return status
	default:
		return config.PendingReview
	}
}

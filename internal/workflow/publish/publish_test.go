package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"resultpost/internal/config"
	"resultpost/internal/dataservice"
	"resultpost/internal/http-server/model"
)

type fakeDataService struct {
	draw      *model.Draw
	drawErr   error
	result    *model.Result
	resultErr error

	drawCalls   int
	resultCalls int
	lastResult  dataservice.CreateResultRequest
}

func (f *fakeDataService) CreateDraw(_ context.Context, _ dataservice.CreateDrawRequest) (*model.Draw, error) {
	f.drawCalls++

	return f.draw, f.drawErr
}

func (f *fakeDataService) CreateResult(_ context.Context, req dataservice.CreateResultRequest) (*model.Result, error) {
	f.resultCalls++
	f.lastResult = req

	return f.result, f.resultErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testGame() *model.Game {
	return &model.Game{
		ID:                  3,
		Name:                "STAR LOTTO",
		NumbersCount:        5,
		MaxNumber:           36,
		MachineNumbersCount: 5,
		MaxMachineNumber:    90,
	}
}

func TestPublish_Success(t *testing.T) {
	drawTime := time.Date(2025, 3, 1, 19, 15, 0, 0, time.UTC)
	machine := "9,16,28,33,45"

	svc := &fakeDataService{
		draw: &model.Draw{ID: 7, GameID: 3, DrawDatetime: drawTime},
		result: &model.Result{
			ID:             42,
			DrawID:         7,
			WinningNumbers: "12,23,34,41,7",
			MachineNumbers: &machine,
			Status:         config.PendingReview,
			Draw: &model.Draw{
				ID:           7,
				GameID:       3,
				DrawDatetime: drawTime,
				Game:         testGame(),
			},
		},
	}

	p := New(discardLogger(), svc)

	published, err := p.Publish(context.Background(), testGame(), []int{12, 23, 34, 41, 7}, []int{9, 16, 28, 33, 45})
	require.NoError(t, err)

	assert.Equal(t, int64(42), published.ID)
	assert.Equal(t, "STAR LOTTO", published.GameName)
	assert.Equal(t, drawTime, published.DrawDatetime)
	// Round-trip: the CSV echoed by the service re-parses to the submitted values.
	assert.Equal(t, []int{12, 23, 34, 41, 7}, published.WinningNumbers)
	assert.Equal(t, []int{9, 16, 28, 33, 45}, published.MachineNumbers)
	assert.Equal(t, config.PendingReview, published.Status)
	assert.Equal(t, 1, svc.drawCalls)
	assert.Equal(t, 1, svc.resultCalls)
}

func TestPublish_EmptyEchoFallsBackToSubmitted(t *testing.T) {
	svc := &fakeDataService{
		draw: &model.Draw{ID: 7},
		result: &model.Result{
			ID:             42,
			DrawID:         7,
			WinningNumbers: "",
			Status:         config.ReviewStatus("something_new"),
		},
	}

	p := New(discardLogger(), svc)

	published, err := p.Publish(context.Background(), testGame(), []int{12, 23, 34, 41, 7}, []int{9, 16})
	require.NoError(t, err)

	assert.Equal(t, []int{12, 23, 34, 41, 7}, published.WinningNumbers)
	assert.Equal(t, []int{9, 16}, published.MachineNumbers)
	// Unknown service statuses normalize to pending review.
	assert.Equal(t, config.PendingReview, published.Status)
	// Without a nested draw the game metadata comes from the local profile.
	assert.Equal(t, "STAR LOTTO", published.GameName)
	assert.Equal(t, int64(3), published.GameID)
}

func TestPublish_DrawStepFailure(t *testing.T) {
	svc := &fakeDataService{
		drawErr: errors.New("connection refused"),
	}

	p := New(discardLogger(), svc)

	_, err := p.Publish(context.Background(), testGame(), []int{1, 2, 3}, nil)
	require.Error(t, err)

	var pubErr *Error
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, StepDraw, pubErr.Step)
	assert.Zero(t, pubErr.DrawID)
	assert.Equal(t, 0, svc.resultCalls)
}

func TestPublish_ResultStepFailureKeepsDraw(t *testing.T) {
	svc := &fakeDataService{
		draw:      &model.Draw{ID: 7},
		resultErr: errors.New("boom"),
	}

	p := New(discardLogger(), svc)

	_, err := p.Publish(context.Background(), testGame(), []int{1, 2, 3}, nil)
	require.Error(t, err)

	var pubErr *Error
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, StepResult, pubErr.Step)
	assert.Equal(t, int64(7), pubErr.DrawID)
}

func TestRetryResult_ReusesDraw(t *testing.T) {
	svc := &fakeDataService{
		result: &model.Result{
			ID:             43,
			DrawID:         7,
			WinningNumbers: "1,2,3",
		},
	}

	p := New(discardLogger(), svc)

	published, err := p.RetryResult(context.Background(), 7, testGame(), []int{1, 2, 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, svc.drawCalls)
	assert.Equal(t, int64(7), svc.lastResult.DrawID)
	assert.Equal(t, int64(43), published.ID)
}

package save

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"resultpost/internal/config"
	"resultpost/internal/http-server/handlers/event"
	"resultpost/internal/http-server/handlers/job"
	"resultpost/internal/http-server/model"
	resp "resultpost/internal/lib/api/response"
	"resultpost/internal/lib/logger/sl"
	"resultpost/internal/lib/numbers"
	"resultpost/internal/workflow/publish"
	"resultpost/internal/workflow/share"
)

type Request struct {
	DrawID         int64    `json:"draw_id" validate:"required"`
	WinningNumbers []int    `json:"winning_numbers" validate:"required,min=1"`
	MachineNumbers []int    `json:"machine_numbers"`
	ShareCopy      string   `json:"share_copy"`
	ShareHashtags  []string `json:"share_hashtags"`
	ShareTargets   []string `json:"share_targets"`
	SubmittedByID  *int64   `json:"submitted_by_id"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=ResultSaver
type ResultSaver interface {
	SaveResult(result model.Result) (int64, error)
	GetResultByID(id int64) (*model.Result, error)
	GetResultByDrawID(drawID int64) (*model.Result, error)
}

type DrawProvider interface {
	GetDrawByID(id int64) (*model.Draw, error)
}

type Result struct {
	log          *slog.Logger
	validator    *validator.Validate
	resultSaver  ResultSaver
	drawProvider DrawProvider
	composer     *share.Composer
	event        event.Interface
}

func NewResult(
	log *slog.Logger,
	resultSaver ResultSaver,
	drawProvider DrawProvider,
	composer *share.Composer,
	event event.Interface) *Result {
	return &Result{
		log:          log,
		validator:    validator.New(),
		resultSaver:  resultSaver,
		drawProvider: drawProvider,
		composer:     composer,
		event:        event,
	}
}

// New attaches a result to an existing draw. Re-posting a result for a draw
// that already has one returns the stored result unchanged, so a retry after
// a lost response cannot create a duplicate.
func (h *Result) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.result.save.New"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := h.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		draw, err := h.drawProvider.GetDrawByID(req.DrawID)
		if err != nil {
			log.Error("failed to find draw", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to find draw", http.StatusInternalServerError))

			return
		}

		if draw == nil || draw.Game == nil {
			log.Error("draw not found", slog.Int64("draw_id", req.DrawID))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("draw not found", http.StatusNotFound))

			return
		}

		existing, err := h.resultSaver.GetResultByDrawID(req.DrawID)
		if err != nil {
			log.Error("failed to look up result", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to look up result", http.StatusInternalServerError))

			return
		}

		if existing != nil {
			log.Info("draw already has a result", slog.Int64("result_id", existing.ID))

			existing.Draw = draw

			render.JSON(w, r, existing)

			return
		}

		if msg := validateNumbers(draw.Game, req.WinningNumbers, req.MachineNumbers); msg != "" {
			log.Error("invalid numbers", slog.String("reason", msg))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(msg, http.StatusBadRequest))

			return
		}

		result := model.Result{
			DrawID:         req.DrawID,
			WinningNumbers: numbers.JoinCSV(req.WinningNumbers),
			ShareCopy:      req.ShareCopy,
			ShareHashtags:  req.ShareHashtags,
			ShareTargets:   req.ShareTargets,
			Status:         config.PendingReview,
			SubmittedByID:  req.SubmittedByID,
		}

		if len(req.MachineNumbers) > 0 {
			machine := numbers.JoinCSV(req.MachineNumbers)
			result.MachineNumbers = &machine
		}

		if result.ShareCopy == "" {
			result.ShareCopy = h.composer.BuildCaption(&publish.PublishedResult{
				GameName:       draw.Game.Name,
				DrawDatetime:   draw.DrawDatetime,
				WinningNumbers: req.WinningNumbers,
				MachineNumbers: req.MachineNumbers,
			})
		}

		if len(result.ShareHashtags) == 0 {
			result.ShareHashtags = []string{h.composer.DefaultHashtag}
		}

		if len(result.ShareTargets) == 0 {
			for _, platform := range config.DefaultShareTargets {
				result.ShareTargets = append(result.ShareTargets, string(platform))
			}
		}

		id, err := h.resultSaver.SaveResult(result)
		if err != nil {
			log.Error("failed to save result", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to save result", http.StatusInternalServerError))

			return
		}

		log.Info("result saved", slog.Int64("result_id", id))

		saved, err := h.resultSaver.GetResultByID(id)
		if err != nil || saved == nil {
			log.Error("failed to reload result", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to reload result", http.StatusInternalServerError))

			return
		}

		saved.Draw = draw

		job.Dispatch(&job.SendEventJob{
			EventMessage: event.Message{
				Channel: "results",
				Event:   "created",
				Data: map[string]interface{}{
					"result_id": saved.ID,
					"draw_id":   saved.DrawID,
					"game":      draw.Game.Name,
					"status":    saved.Status,
				},
			},
			Event: h.event,
			Log:   log,
		}, 0)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, saved)
	}
}

func validateNumbers(game *model.Game, winning, machine []int) string {
	if len(winning) != game.NumbersCount {
		return fmt.Sprintf("expected %d winning numbers, got %d", game.NumbersCount, len(winning))
	}

	if msg := checkRangeAndDuplicates("winning", winning, game.MaxNumber); msg != "" {
		return msg
	}

	if game.HasMachineNumbers() {
		if len(machine) != game.MachineNumbersCount {
			return fmt.Sprintf("expected %d machine numbers, got %d", game.MachineNumbersCount, len(machine))
		}

		return checkRangeAndDuplicates("machine", machine, game.MaxMachineNumber)
	}

	if len(machine) > 0 {
		return "game does not use machine numbers"
	}

	return ""
}

func checkRangeAndDuplicates(label string, values []int, bound int) string {
	seen := make(map[int]struct{}, len(values))

	for _, v := range values {
		if v < 1 || v > bound {
			return fmt.Sprintf("%s number %d is outside 1-%d", label, v, bound)
		}

		if _, ok := seen[v]; ok {
			return fmt.Sprintf("duplicate %s number %d", label, v)
		}

		seen[v] = struct{}{}
	}

	return ""
}

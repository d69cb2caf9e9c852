package get

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/model"
	resp "resultpost/internal/lib/api/response"
	"resultpost/internal/lib/logger/sl"
)

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=ResultProvider
type ResultProvider interface {
	GetResultByID(id int64) (*model.Result, error)
}

type DrawProvider interface {
	GetDrawByID(id int64) (*model.Draw, error)
}

type ApprovalProvider interface {
	GetApprovalsByResultID(resultID int64) ([]model.ResultApproval, error)
}

type Result struct {
	log              *slog.Logger
	resultProvider   ResultProvider
	drawProvider     DrawProvider
	approvalProvider ApprovalProvider
}

func NewResult(
	log *slog.Logger,
	resultProvider ResultProvider,
	drawProvider DrawProvider,
	approvalProvider ApprovalProvider) *Result {
	return &Result{
		log:              log,
		resultProvider:   resultProvider,
		drawProvider:     drawProvider,
		approvalProvider: approvalProvider,
	}
}

// New returns one result with its draw, game and approval history attached.
func (h *Result) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.result.get.New"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid result id", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid result id", http.StatusBadRequest))

			return
		}

		result, err := h.resultProvider.GetResultByID(id)
		if err != nil {
			log.Error("failed to find result", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to find result", http.StatusInternalServerError))

			return
		}

		if result == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("result not found", http.StatusNotFound))

			return
		}

		draw, err := h.drawProvider.GetDrawByID(result.DrawID)
		if err != nil {
			log.Error("failed to find draw", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to find draw", http.StatusInternalServerError))

			return
		}

		result.Draw = draw

		approvals, err := h.approvalProvider.GetApprovalsByResultID(id)
		if err != nil {
			log.Error("failed to load approvals", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to load approvals", http.StatusInternalServerError))

			return
		}

		result.Approvals = approvals

		render.JSON(w, r, result)
	}
}

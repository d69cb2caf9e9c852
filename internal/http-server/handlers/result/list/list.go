package list

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/model"
	resp "resultpost/internal/lib/api/response"
	"resultpost/internal/lib/logger/sl"
)

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=ResultLister
type ResultLister interface {
	ListResults() ([]model.Result, error)
}

type Results struct {
	log          *slog.Logger
	resultLister ResultLister
}

func NewResults(log *slog.Logger, resultLister ResultLister) *Results {
	return &Results{
		log:          log,
		resultLister: resultLister,
	}
}

// New lists stored results, newest first.
func (h *Results) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.result.list.New"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		results, err := h.resultLister.ListResults()
		if err != nil {
			log.Error("failed to list results", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to list results", http.StatusInternalServerError))

			return
		}

		if results == nil {
			results = []model.Result{}
		}

		render.JSON(w, r, results)
	}
}

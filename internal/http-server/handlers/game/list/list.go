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

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=GameLister
type GameLister interface {
	ListActiveGames() ([]model.Game, error)
}

type Games struct {
	log        *slog.Logger
	gameLister GameLister
}

func NewGames(log *slog.Logger, gameLister GameLister) *Games {
	return &Games{
		log:        log,
		gameLister: gameLister,
	}
}

// New lists the active game profiles available for result entry.
func (g *Games) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.game.list.New"

		log := g.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		games, err := g.gameLister.ListActiveGames()
		if err != nil {
			log.Error("failed to list games", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to list games", http.StatusInternalServerError))

			return
		}

		if games == nil {
			games = []model.Game{}
		}

		render.JSON(w, r, games)
	}
}

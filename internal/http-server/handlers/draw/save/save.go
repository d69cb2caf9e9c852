package save

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/model"
	resp "resultpost/internal/lib/api/response"
	"resultpost/internal/lib/logger/sl"
)

type Request struct {
	GameID       int64     `json:"game_id" validate:"required"`
	DrawDatetime time.Time `json:"draw_datetime" validate:"required"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=DrawSaver
type DrawSaver interface {
	SaveDraw(draw model.Draw) (int64, error)
	GetDrawByID(id int64) (*model.Draw, error)
}

type GameProvider interface {
	GetGameByID(id int64) (*model.Game, error)
}

type Draw struct {
	log          *slog.Logger
	validator    *validator.Validate
	drawSaver    DrawSaver
	gameProvider GameProvider
}

func NewDraw(log *slog.Logger, drawSaver DrawSaver, gameProvider GameProvider) *Draw {
	return &Draw{
		log:          log,
		validator:    validator.New(),
		drawSaver:    drawSaver,
		gameProvider: gameProvider,
	}
}

// New records a draw occurrence for a game. A draw is a standalone record:
// it stays valid even if no result is ever attached to it.
func (d *Draw) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.draw.save.New"

		log := d.log.With(
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

		if err := d.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		game, err := d.gameProvider.GetGameByID(req.GameID)
		if err != nil {
			log.Error("failed to find game", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to find game", http.StatusInternalServerError))

			return
		}

		if game == nil {
			log.Error("game not found", slog.Int64("game_id", req.GameID))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("game not found", http.StatusNotFound))

			return
		}

		id, err := d.drawSaver.SaveDraw(model.Draw{
			GameID:       req.GameID,
			DrawDatetime: req.DrawDatetime,
		})
		if err != nil {
			log.Error("failed to save draw", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to save draw", http.StatusInternalServerError))

			return
		}

		log.Info("draw saved", slog.Int64("draw_id", id))

		draw, err := d.drawSaver.GetDrawByID(id)
		if err != nil || draw == nil {
			log.Error("failed to reload draw", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to reload draw", http.StatusInternalServerError))

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, draw)
	}
}

package save

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/model"
	resp "resultpost/internal/lib/api/response"
	"resultpost/internal/lib/logger/sl"
)

type Request struct {
	Name                string  `json:"name" validate:"required"`
	Description         *string `json:"description"`
	NumbersCount        int     `json:"numbers_count" validate:"required,min=1"`
	MaxNumber           int     `json:"max_number" validate:"required,min=1"`
	MachineNumbersCount int     `json:"machine_numbers_count" validate:"min=0"`
	MaxMachineNumber    int     `json:"max_machine_number" validate:"min=0"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=GameSaver
type GameSaver interface {
	FindGameByName(name string) (*model.Game, error)
	SaveGame(game model.Game) (int64, error)
	GetGameByID(id int64) (*model.Game, error)
}

type Game struct {
	log       *slog.Logger
	validator *validator.Validate
	gameSaver GameSaver
}

func NewGame(log *slog.Logger, gameSaver GameSaver) *Game {
	return &Game{
		log:       log,
		validator: validator.New(),
		gameSaver: gameSaver,
	}
}

// New creates a game profile, or returns the existing one when a game with
// the same name is already registered.
func (g *Game) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.game.save.New"

		log := g.log.With(
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

		if err := g.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		if req.NumbersCount > req.MaxNumber {
			log.Error("numbers count exceeds the number range")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("numbers count exceeds the number range", http.StatusBadRequest))

			return
		}

		if req.MachineNumbersCount > 0 && req.MachineNumbersCount > req.MaxMachineNumber {
			log.Error("machine numbers count exceeds the machine number range")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("machine numbers count exceeds the machine number range", http.StatusBadRequest))

			return
		}

		existing, err := g.gameSaver.FindGameByName(req.Name)
		if err != nil {
			log.Error("failed to look up game", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to look up game", http.StatusInternalServerError))

			return
		}

		if existing != nil {
			log.Info("game already registered", slog.Int64("game_id", existing.ID))

			render.JSON(w, r, existing)

			return
		}

		id, err := g.gameSaver.SaveGame(model.Game{
			Name:                req.Name,
			Description:         req.Description,
			NumbersCount:        req.NumbersCount,
			MaxNumber:           req.MaxNumber,
			MachineNumbersCount: req.MachineNumbersCount,
			MaxMachineNumber:    req.MaxMachineNumber,
			IsActive:            true,
		})
		if err != nil {
			log.Error("failed to save game", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to save game", http.StatusInternalServerError))

			return
		}

		log.Info("game saved", slog.Int64("game_id", id))

		game, err := g.gameSaver.GetGameByID(id)
		if err != nil || game == nil {
			log.Error("failed to reload game", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to reload game", http.StatusInternalServerError))

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, game)
	}
}

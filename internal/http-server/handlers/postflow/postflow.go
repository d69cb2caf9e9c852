package postflow

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"golang.org/x/exp/slog"

	"resultpost/internal/config"
	"resultpost/internal/http-server/model"
	resp "resultpost/internal/lib/api/response"
	"resultpost/internal/lib/logger/sl"
	"resultpost/internal/workflow"
	"resultpost/internal/workflow/publish"
	"resultpost/internal/workflow/share"
	"resultpost/internal/workflow/verify"
)

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=GameSource
type GameSource interface {
	ListGames(ctx context.Context) ([]model.Game, error)
}

type Snapshotter interface {
	Capture(ctx context.Context, pageURL, selector string) ([]byte, error)
}

// Postflow is the HTTP surface of the posting workflow. Every stateful
// endpoint addresses a session by id; the session's state machine decides
// whether the action is allowed.
type Postflow struct {
	log       *slog.Logger
	validator *validator.Validate
	sessions  *SessionStore
	games     GameSource
	publisher workflow.Publisher
	composer  *share.Composer
	capturer  Snapshotter
	cached    *cache.Cache
	siteURL   string
	cardURL   string
}

const gamesCacheKey = "games"

func New(
	log *slog.Logger,
	sessions *SessionStore,
	games GameSource,
	publisher workflow.Publisher,
	composer *share.Composer,
	capturer Snapshotter,
	shareCfg config.Share,
	snapshotCfg config.Snapshot) *Postflow {
	return &Postflow{
		log:       log,
		validator: validator.New(),
		sessions:  sessions,
		games:     games,
		publisher: publisher,
		composer:  composer,
		capturer:  capturer,
		cached:    cache.New(time.Minute, 5*time.Minute),
		siteURL:   shareCfg.SiteURL,
		cardURL:   snapshotCfg.CardBaseURL,
	}
}

// listGames serves the game catalog from a short-lived cache; the profiles
// change rarely and every slot grid needs them.
func (p *Postflow) listGames(ctx context.Context) ([]model.Game, error) {
	if stored, found := p.cached.Get(gamesCacheKey); found {
		return stored.([]model.Game), nil
	}

	games, err := p.games.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	p.cached.Set(gamesCacheKey, games, cache.DefaultExpiration)

	return games, nil
}

type StateResponse struct {
	resp.Response
	SessionID      string                   `json:"session_id"`
	Stage          workflow.Stage           `json:"stage"`
	Game           *model.Game              `json:"game,omitempty"`
	EntryPrimary   []string                 `json:"entry_primary,omitempty"`
	EntrySecondary []string                 `json:"entry_secondary,omitempty"`
	EchoPrimary    []string                 `json:"echo_primary,omitempty"`
	EchoSecondary  []string                 `json:"echo_secondary,omitempty"`
	Outcome        verify.Outcome           `json:"outcome,omitempty"`
	Result         *publish.PublishedResult `json:"result,omitempty"`
}

// NewSession opens a fresh workflow session in the select stage.
func (p *Postflow) NewSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.NewSession"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session := p.sessions.Create(workflow.NewMachine(p.log, p.publisher))

		log.Info("session opened", slog.String("session_id", session.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, p.state(session))
	}
}

// Games lists the game profiles available for selection.
func (p *Postflow) Games() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.Games"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		games, err := p.listGames(r.Context())
		if err != nil {
			log.Error("failed to list games", sl.Err(err))

			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, resp.Error("failed to list games", http.StatusBadGateway))

			return
		}

		render.JSON(w, r, games)
	}
}

// State reports the session's current stage and data, so a reloaded client
// can resume where it left off.
func (p *Postflow) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := p.session(w, r, "handlers.postflow.State")
		if !ok {
			return
		}

		render.JSON(w, r, p.state(session))
	}
}

type SelectRequest struct {
	GameID int64 `json:"game_id" validate:"required"`
}

// SelectGame moves the session from select to enter, seeding entry slots
// from the chosen game's profile.
func (p *Postflow) SelectGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.SelectGame"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, ok := p.session(w, r, op)
		if !ok {
			return
		}

		var req SelectRequest

		if !p.decode(w, r, log, &req) {
			return
		}

		games, err := p.listGames(r.Context())
		if err != nil {
			log.Error("failed to list games", sl.Err(err))

			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, resp.Error("failed to list games", http.StatusBadGateway))

			return
		}

		var game *model.Game

		for i := range games {
			if games[i].ID == req.GameID {
				game = &games[i]

				break
			}
		}

		if game == nil {
			log.Error("game not found", slog.Int64("game_id", req.GameID))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("game not found", http.StatusNotFound))

			return
		}

		if err = session.Machine.SelectGame(game); err != nil {
			p.machineError(w, r, log, err)

			return
		}

		render.JSON(w, r, p.state(session))
	}
}

type SlotRequest struct {
	Category workflow.Category `json:"category" validate:"required,oneof=primary secondary"`
	Index    int               `json:"index" validate:"min=0"`
	Value    string            `json:"value"`
}

// SetSlot writes one slot value. The stage decides which pass it lands in:
// the entry draft during enter, the verification echo during verify.
func (p *Postflow) SetSlot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.SetSlot"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, ok := p.session(w, r, op)
		if !ok {
			return
		}

		var req SlotRequest

		if !p.decode(w, r, log, &req) {
			return
		}

		var err error

		switch session.Machine.Stage() {
		case workflow.StageEnter:
			err = session.Machine.SetEntrySlot(req.Category, req.Index, req.Value)
		case workflow.StageVerify:
			err = session.Machine.SetEchoSlot(req.Category, req.Index, req.Value)
		default:
			err = workflow.ErrInvalidTransition
		}

		if err != nil {
			p.machineError(w, r, log, err)

			return
		}

		render.JSON(w, r, p.state(session))
	}
}

// Continue is the enter → verify gate.
func (p *Postflow) Continue() http.HandlerFunc {
	return p.transition("handlers.postflow.Continue", func(m *workflow.Machine) error {
		return m.ContinueToVerify()
	})
}

// Back returns a verify-stage session to enter, discarding the echo.
func (p *Postflow) Back() http.HandlerFunc {
	return p.transition("handlers.postflow.Back", func(m *workflow.Machine) error {
		return m.Back()
	})
}

// Advance moves a previewed result on to the share stage.
func (p *Postflow) Advance() http.HandlerFunc {
	return p.transition("handlers.postflow.Advance", func(m *workflow.Machine) error {
		return m.AdvanceToShare()
	})
}

// Reset abandons the session's progress from any stage.
func (p *Postflow) Reset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := p.session(w, r, "handlers.postflow.Reset")
		if !ok {
			return
		}

		session.Machine.Reset()

		render.JSON(w, r, p.state(session))
	}
}

// Verify runs the double-entry comparison and, on a match, publishes the
// result. The response carries the outcome; a mismatch is a normal response,
// not an error.
func (p *Postflow) Verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.Verify"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, ok := p.session(w, r, op)
		if !ok {
			return
		}

		outcome, err := session.Machine.VerifyAndPublish(r.Context())
		if err != nil {
			if errors.Is(err, workflow.ErrInvalidTransition) || errors.Is(err, workflow.ErrPublishPending) {
				p.machineError(w, r, log, err)

				return
			}

			log.Error("verification or publish failed", sl.Err(err))

			state := p.state(session)
			state.Response = resp.Error(err.Error(), http.StatusUnprocessableEntity)
			state.Outcome = outcome

			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, state)

			return
		}

		state := p.state(session)
		state.Outcome = outcome

		render.JSON(w, r, state)
	}
}

type ShareRequest struct {
	Platform config.Platform `json:"platform" validate:"required"`
}

type ShareResponse struct {
	resp.Response
	Platform     config.Platform     `json:"platform"`
	Kind         config.PlatformKind `json:"kind,omitempty"`
	Target       string              `json:"target,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
	Text         string              `json:"text"`
}

// Share resolves a platform dispatch for the session's published result:
// a compose URL for link platforms, copy instructions for manual ones. An
// unrecognized platform resolves to nothing rather than an error.
func (p *Postflow) Share() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.postflow.Share"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, ok := p.session(w, r, op)
		if !ok {
			return
		}

		var req ShareRequest

		if !p.decode(w, r, log, &req) {
			return
		}

		published := session.Machine.Published()
		if published == nil {
			p.machineError(w, r, log, workflow.ErrInvalidTransition)

			return
		}

		text := p.composer.BuildShareText(published)
		outcome := p.composer.Resolve(req.Platform, text, p.composer.Hashtags(published), p.siteURL)

		render.JSON(w, r, ShareResponse{
			Response:     resp.OK(),
			Platform:     req.Platform,
			Kind:         outcome.Kind,
			Target:       outcome.Target,
			Instructions: outcome.Instructions,
			Text:         text,
		})
	}
}

func (p *Postflow) transition(op string, apply func(*workflow.Machine) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, ok := p.session(w, r, op)
		if !ok {
			return
		}

		if err := apply(session.Machine); err != nil {
			p.machineError(w, r, log, err)

			return
		}

		render.JSON(w, r, p.state(session))
	}
}

func (p *Postflow) session(w http.ResponseWriter, r *http.Request, op string) (*Session, bool) {
	session, err := p.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		p.log.Error("session lookup failed",
			slog.String("op", op),
			sl.Err(err))

		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, resp.Error("session not found or expired", http.StatusNotFound))

		return nil, false
	}

	return session, true
}

func (p *Postflow) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, req interface{}) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

		return false
	}

	if err := p.validator.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)

		log.Error("invalid request", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.ValidationError(validateErr))

		return false
	}

	return true
}

func (p *Postflow) machineError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Error("workflow action rejected", sl.Err(err))

	status := http.StatusBadRequest
	if errors.Is(err, workflow.ErrInvalidTransition) || errors.Is(err, workflow.ErrPublishPending) {
		status = http.StatusConflict
	}

	render.Status(r, status)
	render.JSON(w, r, resp.Error(err.Error(), status))
}

func (p *Postflow) state(session *Session) StateResponse {
	state := StateResponse{
		Response:  resp.OK(),
		SessionID: session.ID,
		Stage:     session.Machine.Stage(),
	}

	if draft := session.Machine.Draft(); draft != nil {
		state.Game = draft.Game
		state.EntryPrimary = draft.Primary.Slots()

		if draft.Secondary != nil {
			state.EntrySecondary = draft.Secondary.Slots()
		}
	}

	if attempt := session.Machine.Attempt(); attempt != nil {
		state.EchoPrimary = attempt.Primary.Slots()

		if attempt.Secondary != nil {
			state.EchoSecondary = attempt.Secondary.Slots()
		}
	}

	state.Result = session.Machine.Published()

	return state
}

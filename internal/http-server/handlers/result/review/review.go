package review

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
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
)

type Request struct {
	ManagerID int64           `json:"manager_id" validate:"required"`
	Decision  config.Decision `json:"decision" validate:"required,oneof=approved rejected"`
	Note      *string         `json:"note"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.28.2 --name=ResultReviewer
type ResultReviewer interface {
	GetResultByID(id int64) (*model.Result, error)
	UpdateResultReview(id int64, status config.ReviewStatus, verified bool, verifiedAt *time.Time) error
}

type ApprovalSaver interface {
	SaveApproval(approval model.ResultApproval) (int64, error)
}

type Review struct {
	log           *slog.Logger
	validator     *validator.Validate
	reviewer      ResultReviewer
	approvalSaver ApprovalSaver
	event         event.Interface
	now           func() time.Time
}

func NewReview(
	log *slog.Logger,
	reviewer ResultReviewer,
	approvalSaver ApprovalSaver,
	event event.Interface) *Review {
	return &Review{
		log:           log,
		validator:     validator.New(),
		reviewer:      reviewer,
		approvalSaver: approvalSaver,
		event:         event,
		now:           time.Now,
	}
}

// New records a manager's review decision for a result. Approval marks the
// result verified with a timestamp; rejection sends it back as
// changes_requested. Either way the decision itself is kept as an approval
// row for the audit trail.
func (h *Review) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.result.review.New"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		resultID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid result id", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid result id", http.StatusBadRequest))

			return
		}

		var req Request

		if err = render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err = h.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		result, err := h.reviewer.GetResultByID(resultID)
		if err != nil {
			log.Error("failed to find result", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to find result", http.StatusInternalServerError))

			return
		}

		if result == nil {
			log.Error("result not found", slog.Int64("result_id", resultID))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("result not found", http.StatusNotFound))

			return
		}

		if _, err = h.approvalSaver.SaveApproval(model.ResultApproval{
			ResultID:  resultID,
			ManagerID: req.ManagerID,
			Decision:  req.Decision,
			Note:      req.Note,
		}); err != nil {
			log.Error("failed to save approval", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to save approval", http.StatusInternalServerError))

			return
		}

		status := config.ChangesRequested
		verified := false

		var verifiedAt *time.Time

		if req.Decision == config.DecisionApproved {
			status = config.Approved
			verified = true
			now := h.now()
			verifiedAt = &now
		}

		if err = h.reviewer.UpdateResultReview(resultID, status, verified, verifiedAt); err != nil {
			log.Error("failed to update result review", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to update result review", http.StatusInternalServerError))

			return
		}

		log.Info("result reviewed",
			slog.Int64("result_id", resultID),
			slog.String("decision", string(req.Decision)))

		updated, err := h.reviewer.GetResultByID(resultID)
		if err != nil || updated == nil {
			log.Error("failed to reload result", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to reload result", http.StatusInternalServerError))

			return
		}

		job.Dispatch(&job.SendEventJob{
			EventMessage: event.Message{
				Channel: "results",
				Event:   "reviewed",
				Data: map[string]interface{}{
					"result_id": resultID,
					"status":    updated.Status,
				},
			},
			Event: h.event,
			Log:   log,
		}, 0)

		render.JSON(w, r, updated)
	}
}

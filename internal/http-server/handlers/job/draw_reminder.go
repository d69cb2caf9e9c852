package job

import (
	"time"

	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/handlers/event"
	"resultpost/internal/http-server/model"
	"resultpost/internal/lib/logger/sl"
)

type DueDrawLister interface {
	GetDueUnnotifiedDraws(now time.Time) ([]model.Draw, error)
	MarkDrawNotified(id int64) error
}

// DrawReminderJob reminds the staff to enter numbers once a draw's scheduled
// time has passed. It reschedules itself through the queue.
type DrawReminderJob struct {
	Log      *slog.Logger
	Draws    DueDrawLister
	Event    event.Interface
	Interval time.Duration
}

func (job *DrawReminderJob) Execute() {
	const op = "handlers.job.draw_reminder.Execute"

	log := job.Log.With(slog.String("op", op))

	draws, err := job.Draws.GetDueUnnotifiedDraws(time.Now())
	if err != nil {
		log.Error("failed to get due draws", sl.Err(err))

		Dispatch(job, job.Interval)

		return
	}

	for _, draw := range draws {
		message := event.Message{
			Channel: "draws",
			Event:   "reminder",
			Data: map[string]interface{}{
				"draw_id":       draw.ID,
				"game_name":     draw.Game.Name,
				"draw_datetime": draw.DrawDatetime,
			},
		}

		if err = job.Event.TriggerEvent(message); err != nil {
			log.Error("failed to send draw reminder", sl.Err(err))

			continue
		}

		if err = job.Draws.MarkDrawNotified(draw.ID); err != nil {
			log.Error("failed to mark draw notified", sl.Err(err))
		}
	}

	Dispatch(job, job.Interval)
}

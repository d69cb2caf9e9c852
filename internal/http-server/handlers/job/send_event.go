package job

import (
	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/handlers/event"
	"resultpost/internal/lib/logger/sl"
)

type SendEventJob struct {
	EventMessage event.Message
	Event        event.Interface
	Log          *slog.Logger
}

func (job *SendEventJob) Execute() {
	if err := job.Event.TriggerEvent(job.EventMessage); err != nil {
		job.Log.Error("failed to trigger event",
			slog.String("channel", job.EventMessage.Channel),
			slog.String("event", job.EventMessage.Event),
			sl.Err(err))
	}
}

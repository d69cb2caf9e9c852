package event

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pusher/pusher-http-go/v5"
	"golang.org/x/exp/slog"
)

type Message struct {
	Channel string                 `json:"channel"`
	Event   string                 `json:"event"`
	Data    map[string]interface{} `json:"data"`
}

type Interface interface {
	TriggerEvent(m Message) error
}

type PusherEvent struct {
	log    *slog.Logger
	pusher *pusher.Client
}

func NewPusherEvent(log *slog.Logger, pusherClient *pusher.Client) *PusherEvent {
	return &PusherEvent{
		log:    log,
		pusher: pusherClient,
	}
}

func (p *PusherEvent) TriggerEvent(m Message) error {
	if err := p.pusher.Trigger(m.Channel, m.Event, m.Data); err != nil {
		p.log.Error("failed to trigger pusher event")

		return err
	}

	return nil
}

// WSRelay forwards events to the websocket hub as JSON frames. The hub
// rebroadcasts them to channel subscribers.
type WSRelay struct {
	log  *slog.Logger
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewWSRelay(log *slog.Logger, conn *websocket.Conn) *WSRelay {
	return &WSRelay{
		log:  log,
		conn: conn,
	}
}

func (r *WSRelay) TriggerEvent(m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conn.WriteJSON(m); err != nil {
		r.log.Error("failed to relay event to ws hub")

		return err
	}

	return nil
}

// Fanout sends every event to all sinks and reports the first failure.
type Fanout struct {
	sinks []Interface
}

func NewFanout(sinks ...Interface) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) TriggerEvent(m Message) error {
	var firstErr error

	for _, sink := range f.sinks {
		if err := sink.TriggerEvent(m); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

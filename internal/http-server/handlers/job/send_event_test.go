package job

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/handlers/event"
)

type fakeSink struct {
	mu       sync.Mutex
	messages []event.Message
	err      error
}

func (f *fakeSink) TriggerEvent(m event.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.messages = append(f.messages, m)

	return f.err
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.messages)
}

func testMessage() event.Message {
	return event.Message{
		Channel: "results",
		Event:   "created",
		Data:    map[string]interface{}{"result_id": int64(42)},
	}
}

func TestSendEventJob_Execute(t *testing.T) {
	sink := &fakeSink{}

	job := &SendEventJob{
		EventMessage: testMessage(),
		Event:        sink,
		Log:          slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}

	job.Execute()

	require.Equal(t, 1, sink.count())
	assert.Equal(t, "results", sink.messages[0].Channel)
	assert.Equal(t, "created", sink.messages[0].Event)
}

func TestSendEventJob_ExecuteLogsFailure(t *testing.T) {
	var buf bytes.Buffer

	sink := &fakeSink{err: errors.New("pusher down")}

	job := &SendEventJob{
		EventMessage: testMessage(),
		Event:        sink,
		Log:          slog.New(slog.NewTextHandler(&buf, nil)),
	}

	job.Execute()

	assert.Contains(t, buf.String(), "failed to trigger event")
	assert.Contains(t, buf.String(), "pusher down")
}

func TestDispatch_DeliversToWorker(t *testing.T) {
	Queue = make(JobQueue, 1)
	NewWorkerPool(1, Queue).Start()

	sink := &fakeSink{}

	Dispatch(&SendEventJob{
		EventMessage: testMessage(),
		Event:        sink,
		Log:          slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}, 0)

	require.Eventually(t, func() bool { return sink.count() == 1 },
		time.Second, 10*time.Millisecond)
}

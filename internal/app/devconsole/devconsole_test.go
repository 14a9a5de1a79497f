package devconsole_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hitesh22rana/devconsole/internal/app/devconsole"
	devconsolemock "github.com/hitesh22rana/devconsole/internal/app/devconsole/mock"
	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	"github.com/hitesh22rana/devconsole/internal/pkg/transport"
	devconsolerepo "github.com/hitesh22rana/devconsole/internal/repository/devconsole"
	devconsolesvc "github.com/hitesh22rana/devconsole/internal/service/devconsole"
)

func TestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := devconsolemock.NewMockService(ctrl)
	app := devconsole.New(t.Context(), svc)

	event := devconsolemodel.LogEvent{ID: "1", CorrelationID: "a"}
	cause := errors.New("read: connection reset")

	gomock.InOrder(
		svc.EXPECT().MarkConnected(gomock.Any()),
		svc.EXPECT().Ingest(gomock.Any(), event).Return(devconsolerepo.IngestResult{Accepted: true, Outcome: devconsolerepo.OutcomeOrphan}),
		svc.EXPECT().Ingest(gomock.Any(), event).Return(devconsolerepo.IngestResult{Accepted: true, Outcome: devconsolerepo.OutcomeEvicted}),
		svc.EXPECT().Ingest(gomock.Any(), event).Return(devconsolerepo.IngestResult{}),
		svc.EXPECT().MarkDisconnected(gomock.Any(), cause),
		svc.EXPECT().MarkDisconnected(gomock.Any(), nil),
	)

	app.OnOpen()
	app.OnMessage(event)
	app.OnMessage(event)
	app.OnMessage(event)
	app.OnClose(cause)
	app.OnClose(nil)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		mock  func(tr *devconsolemock.MockTransport)
		isErr bool
	}{
		{
			name: "success",
			mock: func(tr *devconsolemock.MockTransport) {
				gomock.InOrder(
					tr.EXPECT().Connect(gomock.Any()).Return(nil),
					tr.EXPECT().Disconnect(),
				)
			},
		},
		{
			name: "error: connect rejected",
			mock: func(tr *devconsolemock.MockTransport) {
				tr.EXPECT().Connect(gomock.Any()).Return(status.Error(codes.FailedPrecondition, "transport already connected"))
			},
			isErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tr := devconsolemock.NewMockTransport(ctrl)
			tt.mock(tr)

			app := devconsole.New(t.Context(), devconsolemock.NewMockService(ctrl))

			ctx, cancel := context.WithCancel(t.Context())
			cancel()

			err := app.Run(ctx, tr)
			if (err != nil) != tt.isErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.isErr)
			}
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	frames := []string{
		`{"id":"1","timestamp":"2025-06-01T12:00:00Z","level":"INFO","message":"start","actionId":"a","actionType":"IMPORT","actionSummary":"Import run"}`,
		`pong`,
		`{"id":"2","timestamp":"2025-06-01T12:00:03Z","level":"ERROR","message":"boom","actionId":"a","actionStatus":"FAILED"}`,
		`{"id":"2","timestamp":"2025-06-01T12:00:03Z","level":"ERROR","message":"boom","actionId":"a","actionStatus":"FAILED"}`,
	}

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, f := range frames {
			fmt.Fprintf(w, "event: log\ndata: %s\n\n", f)
		}
		w.(http.Flusher).Flush()

		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	store := devconsolerepo.New(&devconsolerepo.Config{})
	svc := devconsolesvc.New(validator.New(), store)
	app := devconsole.New(t.Context(), svc)
	client := transport.New(&transport.SSEDialer{URL: srv.URL}, app, &transport.Config{BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, client) }()

	require.Eventually(t, func() bool {
		return store.Stats().BufferedEvents == 2 && store.Connection().Connected
	}, 5*time.Second, 5*time.Millisecond)

	workflow, err := svc.GetWorkflow(t.Context(), &devconsolesvc.GetWorkflowRequest{WorkflowID: "a"})
	require.NoError(t, err)
	assert.Equal(t, devconsolemodel.WorkflowStatusFailed, workflow.Status)
	assert.Len(t, workflow.Events, 2)
	assert.Equal(t, uint64(1), store.Stats().DuplicateEvents)

	cancel()
	require.NoError(t, <-done)

	conn := store.Connection()
	assert.False(t, conn.Connected)
	assert.Empty(t, conn.LastError)
	assert.Equal(t, transport.StateDisconnected, client.State())
}

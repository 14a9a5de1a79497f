//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

package devconsole

import (
	"context"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	loggerpkg "github.com/hitesh22rana/devconsole/internal/pkg/logger"
	svcpkg "github.com/hitesh22rana/devconsole/internal/pkg/svc"
	devconsolerepo "github.com/hitesh22rana/devconsole/internal/repository/devconsole"
)

// Service provides the console operations driven by the transport.
type Service interface {
	Ingest(ctx context.Context, event devconsolemodel.LogEvent) devconsolerepo.IngestResult
	MarkConnected(ctx context.Context)
	MarkDisconnected(ctx context.Context, err error)
}

// Transport is the lifecycle of the stream connection.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect()
}

// App binds the transport's notifications to the console state.
type App struct {
	ctx    context.Context
	logger *zap.Logger
	tp     trace.Tracer
	svc    Service
}

// New creates a new devconsole app. ctx is handed to the service on every
// transport notification.
func New(ctx context.Context, svc Service) *App {
	logger := loggerpkg.FromContext(ctx).Named("app")
	return &App{
		ctx:    loggerpkg.WithLogger(context.WithoutCancel(ctx), logger),
		logger: logger,
		tp:     otel.Tracer(svcpkg.Info().GetName()),
		svc:    svc,
	}
}

// OnOpen marks the console connected.
func (a *App) OnOpen() {
	a.svc.MarkConnected(a.ctx)
}

// OnClose marks the console disconnected and records the cause.
func (a *App) OnClose(err error) {
	a.svc.MarkDisconnected(a.ctx, err)
}

// OnMessage ingests one parsed event.
func (a *App) OnMessage(event devconsolemodel.LogEvent) {
	res := a.svc.Ingest(a.ctx, event)
	if !res.Accepted {
		a.logger.Debug("dropped duplicate event", zap.String("event_id", event.ID))
		return
	}
	switch res.Outcome {
	case devconsolerepo.OutcomeOrphan:
		a.logger.Debug("event references an unknown workflow",
			zap.String("event_id", event.ID),
			zap.String("correlation_id", event.CorrelationID),
		)
	case devconsolerepo.OutcomeEvicted:
		a.logger.Debug("workflow is older than every retained workflow",
			zap.String("event_id", event.ID),
			zap.String("correlation_id", event.CorrelationID),
		)
	}
}

// Run connects the transport and keeps it open until ctx is done.
func (a *App) Run(ctx context.Context, transport Transport) (err error) {
	ctx, span := a.tp.Start(ctx, "App.Run")
	defer func() {
		if err != nil {
			span.SetStatus(otelcodes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	if err = transport.Connect(loggerpkg.WithLogger(ctx, a.logger)); err != nil {
		return err
	}
	span.AddEvent("connected")
	a.logger.Info("console started")

	<-ctx.Done()

	a.logger.Info("stopping the console")
	transport.Disconnect()
	return nil
}

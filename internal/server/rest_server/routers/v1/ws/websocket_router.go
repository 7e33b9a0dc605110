package ws

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/okieraised/alert-watcher/internal/api_response"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
	"github.com/okieraised/alert-watcher/internal/infrastructure/tracer_client"
	"github.com/okieraised/alert-watcher/internal/server/rest_server/services/v1/ws"
)

type EventStreamRouter struct {
	svc    ws.IEventStreamService
	logger *log.Logger
	tracer trace.Tracer
}

func NewEventStreamRouter(svc ws.IEventStreamService) *EventStreamRouter {
	logger := log.MustNewECSLogger()
	return &EventStreamRouter{
		svc:    svc,
		logger: logger,
		tracer: tracer_client.Tracer("event_stream_router"),
	}
}

func (r *EventStreamRouter) Routes(engine *gin.RouterGroup) {
	routes := engine.Group("/v1")
	routes.GET("/events", r.subscribe)
}

func (r *EventStreamRouter) subscribe(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, trace.WithAttributes(attribute.KeyValue{
		Key:   constants.APIFieldRequestID,
		Value: attribute.StringValue(ctx.GetString(constants.APIFieldRequestID)),
	}))
	defer span.End()

	resp := api_response.New[any](ctx)
	r.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	).Debug("Received new websocket handshake for the alert event stream")

	_, cSpan := r.tracer.Start(rootCtx, "handler")
	_, err := r.svc.Subscribe(ctx, rootCtx, r.tracer)
	if err != nil {
		cSpan.End()
		r.logger.Error(err.Error())
		resp.Populate(err.Code, err.Message, nil, nil, nil)
		ctx.JSON(err.HTTPStatus, resp)
		return
	}
	cSpan.End()
}

package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/okieraised/alert-watcher/internal/api_response"
	"github.com/okieraised/alert-watcher/internal/cerrors"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/event_hub"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

type IEventStreamService interface {
	Subscribe(ctx *gin.Context, tracerCtx context.Context, tracer trace.Tracer) (*api_response.BaseOutput, *cerrors.AppError)
}

// EventStreamService upgrades subscribers onto the alert event hub.
type EventStreamService struct {
	hub      *event_hub.EventHub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewEventStreamService(options ...func(*EventStreamService)) *EventStreamService {
	var upgrader = websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	svc := &EventStreamService{}
	for _, opt := range options {
		opt(svc)
	}
	logger := log.MustNewECSLogger()
	svc.upgrader = upgrader
	svc.logger = logger

	return svc
}

func WithEventHub(hub *event_hub.EventHub) func(*EventStreamService) {
	return func(c *EventStreamService) {
		c.hub = hub
	}
}

func (svc *EventStreamService) Subscribe(
	ctx *gin.Context,
	tracerCtx context.Context,
	tracer trace.Tracer,
) (*api_response.BaseOutput, *cerrors.AppError) {
	rootCtx, span := tracer.Start(tracerCtx, "subscribe-event-stream")
	defer span.End()

	resp := &api_response.BaseOutput{}
	lg := svc.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	)

	_, cSpan := tracer.Start(rootCtx, "upgrade-connection")
	conn, err := svc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		cSpan.End()
		lg.Error(err.Error())
		return nil, cerrors.ErrWebsocketUpgrade.WithCause(err)
	}
	cSpan.End()

	connID := uuid.New()
	lg.Info(fmt.Sprintf("New event stream client connected with ID: %s", connID.String()))

	client := event_hub.NewClient(connID, conn, svc.hub)
	client.Register()
	go client.Write()
	go client.Read()

	resp.Code = cerrors.OK.Code
	resp.Message = cerrors.OK.Message
	return resp, nil
}

package restful

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/okieraised/alert-watcher/internal/agent/access_log_watcher"
	"github.com/okieraised/alert-watcher/internal/agent/pool_registry"
	"github.com/okieraised/alert-watcher/internal/alert"
	"github.com/okieraised/alert-watcher/internal/api_response"
	"github.com/okieraised/alert-watcher/internal/cerrors"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/event_hub"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
)

type IStatusService interface {
	WatcherStatus(ctx *gin.Context, input *WatcherStatusInput) (*api_response.BaseOutput, *cerrors.AppError)
}

type StatusService struct {
	watcher    *access_log_watcher.Watcher
	registry   *pool_registry.Registry
	dispatcher *alert.Dispatcher
	hub        *event_hub.EventHub
	logger     *log.Logger
}

func NewStatusService(options ...func(*StatusService)) *StatusService {
	svc := &StatusService{}
	for _, opt := range options {
		opt(svc)
	}
	logger := log.MustNewECSLogger()
	svc.logger = logger
	return svc
}

func WithWatcher(w *access_log_watcher.Watcher) func(*StatusService) {
	return func(svc *StatusService) {
		svc.watcher = w
	}
}

func WithPoolRegistry(r *pool_registry.Registry) func(*StatusService) {
	return func(svc *StatusService) {
		svc.registry = r
	}
}

func WithDispatcher(d *alert.Dispatcher) func(*StatusService) {
	return func(svc *StatusService) {
		svc.dispatcher = d
	}
}

func WithEventHub(h *event_hub.EventHub) func(*StatusService) {
	return func(svc *StatusService) {
		svc.hub = h
	}
}

type WatcherStatusInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
}

type WatcherStatusOutput struct {
	Watcher access_log_watcher.Snapshot `json:"watcher"`
	Pools   []pool_registry.Entry       `json:"pools"`
	Alerts  AlertPipelineInfo           `json:"alerts"`
}

type AlertPipelineInfo struct {
	PendingDeliveries int   `json:"pending_deliveries"`
	StreamClients     int64 `json:"stream_clients"`
}

func (svc *StatusService) WatcherStatus(ctx *gin.Context, input *WatcherStatusInput) (*api_response.BaseOutput, *cerrors.AppError) {
	_, span := input.Tracer.Start(input.TracerCtx, "watcher-status-handler")
	defer span.End()

	resp := &api_response.BaseOutput{}
	lg := svc.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	)

	if svc.watcher == nil {
		lg.Error(cerrors.ErrWatcherNotReady.Message)
		return nil, cerrors.ErrWatcherNotReady
	}

	respData := WatcherStatusOutput{
		Watcher: svc.watcher.Snapshot(),
		Pools:   []pool_registry.Entry{},
	}
	if svc.registry != nil {
		respData.Pools = svc.registry.Snapshot()
	}
	if svc.dispatcher != nil {
		respData.Alerts.PendingDeliveries = svc.dispatcher.Pending()
	}
	if svc.hub != nil {
		respData.Alerts.StreamClients = svc.hub.ClientCount()
	}

	resp.Code = cerrors.OK.Code
	resp.Message = cerrors.OK.Message
	resp.Data = respData

	return resp, nil
}

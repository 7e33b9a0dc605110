package restful

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/okieraised/alert-watcher/internal/api_response"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
	"github.com/okieraised/alert-watcher/internal/infrastructure/tracer_client"
	"github.com/okieraised/alert-watcher/internal/server/rest_server/services/v1/restful"
)

type StatusRouter struct {
	svc    restful.IStatusService
	logger *log.Logger
	tracer trace.Tracer
}

func NewStatusRouter(svc restful.IStatusService) *StatusRouter {
	logger := log.MustNewECSLogger()
	return &StatusRouter{
		svc:    svc,
		logger: logger,
		tracer: tracer_client.Tracer("status"),
	}
}

func (r *StatusRouter) Routes(engine *gin.RouterGroup) {
	routes := engine.Group("/watcher")
	routes.GET("/status", r.watcherStatus)
}

func (r *StatusRouter) watcherStatus(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, trace.WithAttributes(attribute.KeyValue{
		Key:   constants.APIFieldRequestID,
		Value: attribute.StringValue(ctx.GetString(constants.APIFieldRequestID)),
	}))
	defer span.End()

	resp := api_response.New[any](ctx)
	lg := r.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	)
	lg.Debug("Received new watcher status request")

	_, cSpan := r.tracer.Start(rootCtx, "handler")
	result, appErr := r.svc.WatcherStatus(ctx, &restful.WatcherStatusInput{
		TracerCtx: rootCtx,
		Tracer:    r.tracer,
	})
	if appErr != nil {
		cSpan.End()
		lg.Error(appErr.Error())
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}
	cSpan.End()

	resp.Populate(result.Code, result.Message, result.Data, nil, nil)
	ctx.JSON(http.StatusOK, resp)
	return
}

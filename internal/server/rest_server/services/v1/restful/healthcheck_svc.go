package restful

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/okieraised/alert-watcher/internal/api_response"
	"github.com/okieraised/alert-watcher/internal/cerrors"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
	"github.com/okieraised/alert-watcher/internal/utilities"
)

type IHealthcheckService interface {
	Healthcheck(ctx *gin.Context, input *HealthcheckInput) (*api_response.BaseOutput, *cerrors.AppError)
}

type HealthcheckService struct {
	logger  *log.Logger
	started time.Time
}

func NewHealthcheckService(options ...func(*HealthcheckService)) *HealthcheckService {
	svc := &HealthcheckService{
		started: time.Now(),
	}
	for _, opt := range options {
		opt(svc)
	}
	logger := log.MustNewECSLogger()
	svc.logger = logger
	return svc
}

type HealthcheckInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
}

type HealthcheckOutput struct {
	Host    HostInfo    `json:"host"`
	Runtime RuntimeInfo `json:"runtime"`
	Network NetworkInfo `json:"network"`
}

type HostInfo struct {
	Hostname string `json:"hostname"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Version  string `json:"version"`
	PID      int    `json:"pid"`
}

type RuntimeInfo struct {
	GoVersion  string  `json:"go_version"`
	NumCPU     int     `json:"num_cpu"`
	Goroutines int     `json:"goroutines"`
	HeapAlloc  uint64  `json:"heap_alloc"`
	HeapSys    uint64  `json:"heap_sys"`
	UptimeSec  float64 `json:"uptime_sec"`
}

type NetworkInfo struct {
	OutboundIP   string   `json:"outbound_ip"`
	PhysicalMacs []string `json:"physical_macs"`
}

func (svc *HealthcheckService) Healthcheck(ctx *gin.Context, input *HealthcheckInput) (*api_response.BaseOutput, *cerrors.AppError) {
	rootCtx, span := input.Tracer.Start(input.TracerCtx, "healthcheck-handler")
	defer span.End()

	resp := &api_response.BaseOutput{}
	lg := svc.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	)

	_, cSpan := input.Tracer.Start(rootCtx, "get-host-info")
	hostname, err := os.Hostname()
	if err != nil {
		cSpan.End()
		wErr := errors.Wrap(err, "failed to get hostname")
		lg.Error(wErr.Error())
		return nil, cerrors.ErrGenericInternalServer
	}
	cSpan.End()

	_, cSpan = input.Tracer.Start(rootCtx, "get-net-info")
	physicalMacs, err := utilities.RetrievePhysicalMacAddr()
	if err != nil {
		cSpan.End()
		wErr := errors.Wrap(err, "failed to get physical mac addresses")
		lg.Error(wErr.Error())
		return nil, cerrors.ErrGenericInternalServer
	}

	outboundIP, err := utilities.GetOutboundIP()
	if err != nil {
		cSpan.End()
		wErr := errors.Wrap(err, "failed to get outbound ip")
		lg.Error(wErr.Error())
		return nil, cerrors.ErrGenericInternalServer
	}
	cSpan.End()

	_, cSpan = input.Tracer.Start(rootCtx, "get-runtime-info")
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	cSpan.End()

	respData := HealthcheckOutput{
		Host: HostInfo{
			Hostname: hostname,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			Version:  constants.WatcherVersion,
			PID:      os.Getpid(),
		},
		Runtime: RuntimeInfo{
			GoVersion:  runtime.Version(),
			NumCPU:     runtime.NumCPU(),
			Goroutines: runtime.NumGoroutine(),
			HeapAlloc:  memStats.HeapAlloc,
			HeapSys:    memStats.HeapSys,
			UptimeSec:  time.Since(svc.started).Seconds(),
		},
		Network: NetworkInfo{
			OutboundIP:   outboundIP.String(),
			PhysicalMacs: physicalMacs,
		},
	}

	resp.Code = cerrors.OK.Code
	resp.Message = cerrors.OK.Message
	resp.Data = respData

	return resp, nil
}

package routers

import (
	"github.com/okieraised/alert-watcher/internal/server/rest_server/services/v1/restful"
	"github.com/okieraised/alert-watcher/internal/server/rest_server/services/v1/ws"
)

type V1Rest struct {
	healthcheck *restful.HealthcheckService
	status      *restful.StatusService
}

func NewV1RestState() *V1Rest {
	return &V1Rest{}
}

func (svc *V1Rest) SetHealthcheckService(healthcheck *restful.HealthcheckService) {
	svc.healthcheck = healthcheck
}

func (svc *V1Rest) GetHealthcheckService() *restful.HealthcheckService {
	return svc.healthcheck
}

func (svc *V1Rest) SetStatusService(status *restful.StatusService) {
	svc.status = status
}

func (svc *V1Rest) GetStatusService() *restful.StatusService {
	return svc.status
}

type Websocket struct {
	eventStream *ws.EventStreamService
}

func NewWebsocketState() *Websocket {
	return &Websocket{}
}

func (svc *Websocket) SetEventStreamService(eventStream *ws.EventStreamService) {
	svc.eventStream = eventStream
}

func (svc *Websocket) GetEventStreamService() *ws.EventStreamService {
	return svc.eventStream
}

type AppState struct {
	v1Rest    *V1Rest
	websocket *Websocket
}

func NewAppState() *AppState {
	return &AppState{}
}

func (svc *AppState) SetV1RestState(v1Rest *V1Rest) {
	svc.v1Rest = v1Rest
}

func (svc *AppState) GetV1RestState() *V1Rest {
	return svc.v1Rest
}

func (svc *AppState) GetWebsocketState() *Websocket {
	return svc.websocket
}

func (svc *AppState) SetWebsocketState(ws *Websocket) {
	svc.websocket = ws
}

package ports

import websocketdto "taxi-dispatch/internal/dispatch-service/core/domain/websocket_dto"

type INotifyWebsocket interface {
	WriteToUser(userID string, msg websocketdto.Event)
}

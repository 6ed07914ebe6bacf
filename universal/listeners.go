package universal

import (
	"sync"

	"sonora/blueprint"
	"sonora/screens"
	"sonora/util"

	"github.com/antoniodipinto/ikisocket"
	"go.uber.org/zap"
)

// ScreenLookup finds mounted screens
type ScreenLookup interface {
	Get(id string) (screens.Screen, error)
}

// Hub pushes screen events to the websocket clients subscribed to each screen
type Hub struct {
	Logger *zap.Logger
	// EmitTo sends a message to one connected client
	EmitTo func(uuid string, message []byte) error
	// Screens is consulted on subscribe. It is usually set after the registry exists.
	Screens ScreenLookup

	mu          sync.RWMutex
	subscribers map[string]map[string]struct{}
	clients     map[string]string
}

func NewHub(lookup ScreenLookup, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		Logger: logger,
		EmitTo: func(uuid string, message []byte) error {
			return ikisocket.EmitTo(uuid, message)
		},
		Screens:     lookup,
		subscribers: map[string]map[string]struct{}{},
		clients:     map[string]string{},
	}
}

// Publish sends the event to the subscribers of its screen. An unmount event also drops them.
func (h *Hub) Publish(event blueprint.ScreenEvent) {
	h.mu.RLock()
	uuids := make([]string, 0, len(h.subscribers[event.ScreenID]))
	for uuid := range h.subscribers[event.ScreenID] {
		uuids = append(uuids, uuid)
	}
	h.mu.RUnlock()

	message := util.SerializeWebsocketMessage(event)
	for _, uuid := range uuids {
		if err := h.EmitTo(uuid, message); err != nil {
			h.Logger.Warn("[universal][Hub][Publish] warning - could not emit screen event", zap.String("client", uuid), zap.Error(err))
		}
	}

	if event.Event == blueprint.ScreenUnmountedEvent {
		h.mu.Lock()
		for uuid := range h.subscribers[event.ScreenID] {
			delete(h.clients, uuid)
		}
		delete(h.subscribers, event.ScreenID)
		h.mu.Unlock()
	}
}

// OnMessage is the ikisocket message listener
func (h *Hub) OnMessage(payload *ikisocket.EventPayload) {
	h.HandleMessage(payload.Kws.UUID, payload.Data, func(message []byte) {
		payload.Kws.Emit(message)
	})
}

// OnDisconnect is the ikisocket disconnect listener
func (h *Hub) OnDisconnect(payload *ikisocket.EventPayload) {
	h.unsubscribe(payload.Kws.UUID)
}

// HandleMessage processes one client message. A client follows one screen at a time.
func (h *Hub) HandleMessage(uuid string, data []byte, reply func(message []byte)) {
	message := util.GetWSMessagePayload(data, reply)
	if message == nil {
		return
	}

	switch message.EventName {
	case blueprint.SubscribeEvent:
		if _, err := h.Screens.Get(message.Screen); err != nil {
			h.rejectSubscribe(message.Screen, err, reply)
			return
		}
		h.subscribe(uuid, message.Screen)
		// the registry forgets a screen before publishing its unmount, so a screen still found
		// here will reach this subscriber with its unmount event
		if _, err := h.Screens.Get(message.Screen); err != nil {
			h.unsubscribeFrom(uuid, message.Screen)
			h.rejectSubscribe(message.Screen, err, reply)
			return
		}
		reply(util.SerializeWebsocketMessage(blueprint.WebsocketMessage{EventName: blueprint.SubscribedEvent, Screen: message.Screen}))
	case blueprint.UnsubscribeEvent:
		h.unsubscribe(uuid)
	default:
		h.Logger.Warn("[universal][Hub][HandleMessage] warning - unknown event", zap.String("event", message.EventName))
	}
}

func (h *Hub) rejectSubscribe(screenID string, err error, reply func(message []byte)) {
	h.Logger.Warn("[universal][Hub][HandleMessage] warning - subscribe to unknown screen", zap.String("screen_id", screenID))
	reply(util.SerializeWebsocketMessage(blueprint.WebsocketErrorMessage{
		Message:   "screen is not mounted",
		Error:     err.Error(),
		EventName: blueprint.EESUBSCRIBE,
	}))
}

// Subscribers returns how many clients follow a screen
func (h *Hub) Subscribers(screenID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[screenID])
}

func (h *Hub) subscribe(uuid, screenID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(uuid)
	if h.subscribers[screenID] == nil {
		h.subscribers[screenID] = map[string]struct{}{}
	}
	h.subscribers[screenID][uuid] = struct{}{}
	h.clients[uuid] = screenID
}

func (h *Hub) unsubscribe(uuid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(uuid)
}

// unsubscribeFrom drops the client only if it still follows screenID
func (h *Hub) unsubscribeFrom(uuid, screenID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[uuid] == screenID {
		h.removeLocked(uuid)
	}
}

func (h *Hub) removeLocked(uuid string) {
	screenID, ok := h.clients[uuid]
	if !ok {
		return
	}
	delete(h.clients, uuid)
	delete(h.subscribers[screenID], uuid)
	if len(h.subscribers[screenID]) == 0 {
		delete(h.subscribers, screenID)
	}
}

package util

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"sonora/blueprint"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/teris-io/shortid"
)

const shortIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_-"

// ids from one generator are unique within the process
var shortIDs = shortid.MustNew(1, shortIDAlphabet, 2342)

// SuccessResponse sends back a success http response to the client.
func SuccessResponse(ctx *fiber.Ctx, statusCode int, data interface{}) error {
	return ctx.Status(statusCode).JSON(fiber.Map{
		"message": "Request Ok",
		"status":  statusCode,
		"data":    data,
	})
}

// ErrorResponse sends back an error http response to the client.
func ErrorResponse(ctx *fiber.Ctx, statusCode int, err interface{}, message string) error {
	if e, ok := err.(error); ok {
		err = e.Error()
	}
	return ctx.Status(statusCode).JSON(fiber.Map{
		"message": message,
		"status":  statusCode,
		"error":   err,
	})
}

// DeezerIsExplicit returns a true or false specifying if it's an explicit content
func DeezerIsExplicit(v int) bool {
	return v == 1
}

// GetFormattedDuration returns the duration of a track in format ``h:mm:ss`` if it reaches an hour
// or ``m:ss`` if it's less
func GetFormattedDuration(v int) string {
	if v < 0 {
		v = 0
	}
	hour := v / 3600
	minutes := (v % 3600) / 60
	seconds := v % 60
	if hour > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hour, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// GenerateShortID returns a url friendly short id
func GenerateShortID() string {
	id, err := shortIDs.Generate()
	if err != nil {
		log.Printf("\n[util][GenerateShortID] error - could not generate short id %v\n", err)
		return ""
	}
	return id
}

var plainRoutes = []string{
	blueprint.RouteLanding,
	blueprint.RouteLogin,
	blueprint.RouteRegister,
	blueprint.RouteTabs,
	blueprint.RouteHome,
	blueprint.RouteSearch,
	blueprint.RouteProfile,
}

var detailRoutes = []string{
	blueprint.RouteSongDetail,
	blueprint.RoutePlaylistDetail,
	blueprint.RouteArtistDetail,
}

// ParseRoute parses a navigation route like ``playlistDetail/908622995`` or ``search``.
// A leading slash is tolerated.
func ParseRoute(raw string) (*blueprint.Route, error) {
	route := strings.Trim(strings.TrimSpace(raw), "/")
	if lo.Contains(plainRoutes, route) {
		return &blueprint.Route{Name: route}, nil
	}

	name, rawID, found := strings.Cut(route, "/")
	if !found || !lo.Contains(detailRoutes, name) {
		return nil, blueprint.EINVALIDROUTE
	}
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return nil, blueprint.EINVALIDROUTE
	}
	return &blueprint.Route{Name: name, ID: id}, nil
}

// DetailRoute builds the route of a detail screen
func DetailRoute(name string, id int) string {
	return fmt.Sprintf("%s/%d", name, id)
}

// GetWSMessagePayload deserializes an incoming websocket message. It answers heartbeats itself
// through emit and returns nil for them.
func GetWSMessagePayload(payload []byte, emit func(message []byte)) *blueprint.WebsocketMessage {
	var message blueprint.WebsocketMessage
	err := json.Unmarshal(payload, &message)
	if err != nil {
		log.Printf("\n[util][GetWSMessagePayload] - error deserializing incoming message %v\n", err)
		emit(SerializeWebsocketMessage(blueprint.WebsocketErrorMessage{
			Message:   "could not read message",
			Error:     err.Error(),
			EventName: blueprint.EEDESERIALIZE,
		}))
		return nil
	}
	if message.EventName == "heartbeat" {
		emit([]byte(`{"event_name":"heartbeat"}`))
		return nil
	}
	return &message
}

// SerializeWebsocketMessage serializes a message for the websocket. If it fails, the deserialize
// error event name is sent instead.
func SerializeWebsocketMessage(message interface{}) []byte {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("\n[util][SerializeWebsocketMessage] - error serializing message %v\n", err)
		return []byte(blueprint.EEDESERIALIZE)
	}
	return payload
}

package blueprint

import (
	"errors"
	"fmt"
)

const DeezerAPIBase = "https://api.deezer.com"

// perhaps have a different Error type declarations somewhere. For now, be here
var (
	ENETWORK            = errors.New("ENETWORK")
	EUPSTREAM           = errors.New("EUPSTREAM")
	ENOTFOUND           = errors.New("ENOTFOUND")
	EMAPPING            = errors.New("EMAPPING")
	ENOTPLAYABLE        = errors.New("ENOTPLAYABLE")
	EINVALIDROUTE       = errors.New("EINVALIDROUTE")
	ESCREENNOTFOUND     = errors.New("ESCREENNOTFOUND")
	EWRONGSCREEN        = errors.New("EWRONGSCREEN")
	EINVALIDCREDENTIALS = errors.New("EINVALIDCREDENTIALS")
	EUSEREXISTS         = errors.New("EUSEREXISTS")
)

// CatalogError is returned by the catalog client. Kind is one of ENETWORK, EUPSTREAM,
// ENOTFOUND or EMAPPING so callers can match with errors.Is.
type CatalogError struct {
	Kind   error
	Op     string
	Status int
	Err    error
}

func (e *CatalogError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

func (e *CatalogError) Is(target error) bool {
	return target == e.Kind
}

// SonoraLoggerOptions carries the tags attached to the sentry core of a logger
type SonoraLoggerOptions struct {
	Env      string
	AddTrace bool
}

// WebsocketMessage represents a message sent from the client to the server over websocket
type WebsocketMessage struct {
	EventName string `json:"event_name"`
	Screen    string `json:"screen,omitempty"`
}

// WebsocketErrorMessage represents the error message sent from the server to the client over websocket
type WebsocketErrorMessage struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	EventName string `json:"event_name"`
}

var (
	EEDESERIALIZE = "EVENT_DESERIALIZE_MESSAGE_ERROR"
	EESUBSCRIBE   = "EVENT_SUBSCRIBE_ERROR"
)

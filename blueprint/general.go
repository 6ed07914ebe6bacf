package blueprint

// Route names understood by the navigation surface
const (
	RouteLanding        = "landing"
	RouteLogin          = "login"
	RouteRegister       = "register"
	RouteTabs           = "(tabs)"
	RouteHome           = "home"
	RouteSearch         = "search"
	RouteProfile        = "profile"
	RouteSongDetail     = "songDetail"
	RoutePlaylistDetail = "playlistDetail"
	RouteArtistDetail   = "artistDetail"
)

// Route is a parsed navigation target. ID is only set for the detail routes.
type Route struct {
	Name string `json:"name"`
	ID   int    `json:"id,omitempty"`
}

// SectionStatus is the state of one independently loading part of a screen
type SectionStatus string

const (
	StatusIdle    SectionStatus = "idle"
	StatusLoading SectionStatus = "loading"
	StatusReady   SectionStatus = "ready"
	StatusError   SectionStatus = "error"
)

// PlaybackStatus is the state of a screen's preview player
type PlaybackStatus string

const (
	PlaybackEmpty   PlaybackStatus = "empty"
	PlaybackLoaded  PlaybackStatus = "loaded"
	PlaybackPlaying PlaybackStatus = "playing"
	PlaybackPaused  PlaybackStatus = "paused"
)

// PlaybackState is what the presentation layer needs to render the play controls
type PlaybackState struct {
	Status  PlaybackStatus `json:"status"`
	TrackID int            `json:"track_id,omitempty"`
	Session string         `json:"session,omitempty"`
}

// Screen events pushed over the websocket
const (
	SectionChangedEvent  = "screen:section:changed"
	PlaybackChangedEvent = "screen:playback:changed"
	ScreenUnmountedEvent = "screen:unmounted"
)

// Websocket client events
const (
	SubscribeEvent   = "subscribe"
	UnsubscribeEvent = "unsubscribe"
	SubscribedEvent  = "subscribed"
)

// ScreenEvent is emitted whenever a section or the player of a mounted screen changes state
type ScreenEvent struct {
	Event    string         `json:"event_name"`
	ScreenID string         `json:"screen_id"`
	Screen   string         `json:"screen"`
	Section  string         `json:"section,omitempty"`
	Status   SectionStatus  `json:"status,omitempty"`
	Error    string         `json:"error,omitempty"`
	Playback *PlaybackState `json:"playback,omitempty"`
}

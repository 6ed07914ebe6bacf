package blueprint

// LoginRequest is the body of the login route
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of the register route
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse tells the client where to navigate after an auth action
type AuthResponse struct {
	Username string `json:"username"`
	Next     string `json:"next"`
}

// NavigateRequest is the body of the navigate route
type NavigateRequest struct {
	Route string `json:"route"`
}

// SearchRequest is the body of the search submit route
type SearchRequest struct {
	Query string `json:"q"`
}

// AvatarRequest carries the uri chosen in the image picker
type AvatarRequest struct {
	URI string `json:"uri"`
}

// MountResponse is returned when a screen has been mounted
type MountResponse struct {
	ScreenID string      `json:"screen_id"`
	Screen   string      `json:"screen"`
	State    interface{} `json:"state"`
}

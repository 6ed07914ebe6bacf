package screens

import (
	"strings"
	"sync"

	"sonora/blueprint"
)

var favoriteSongs = []blueprint.FavoriteSong{
	{ID: "1", Title: "Risalah Hati", Artist: "Dewa 19", Cover: "https://api.deezer.com/artist/5551146/image"},
	{ID: "2", Title: "Stand By Me", Artist: "Oasis", Cover: "https://e-cdns-images.dzcdn.net/images/artist/bafbda4f8507af52be228cfe08d3b460/500x500-000000-80-0-0.jpg"},
	{ID: "3", Title: "Wonderwall (Remastered)", Artist: "Oasis", Cover: "https://e-cdns-images.dzcdn.net/images/artist/bafbda4f8507af52be228cfe08d3b460/500x500-000000-80-0-0.jpg"},
	{ID: "4", Title: "Cucak Rowo", Artist: "Didi Kempot", Cover: "https://e-cdns-images.dzcdn.net/images/artist/69825b4396ce49338ccdbfb21297e2c5/500x500-000000-80-0-0.jpg"},
}

// ProfileSnapshot is the state of the profile screen. An empty ProfileImage means the default avatar.
type ProfileSnapshot struct {
	ScreenID     string                   `json:"screen_id"`
	Screen       string                   `json:"screen"`
	User         blueprint.ProfileUser    `json:"user"`
	Favorites    []blueprint.FavoriteSong `json:"favorites"`
	ProfileImage string                   `json:"profile_image,omitempty"`
}

// Profile shows the signed in user. It does not talk to the catalog.
type Profile struct {
	*base
	user blueprint.ProfileUser

	mu           sync.Mutex
	profileImage string
}

func NewProfile(deps *Deps) *Profile {
	return &Profile{
		base: newBase(blueprint.RouteProfile, deps),
		user: deps.Profile,
	}
}

func (p *Profile) Mount() {
	p.mountOnce(func() {})
}

// SetProfileImage stores the uri picked by the client. An empty uri means the picker was
// cancelled and leaves the current image.
func (p *Profile) SetProfileImage(uri string) bool {
	p.Touch()
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return false
	}
	p.mu.Lock()
	p.profileImage = uri
	p.mu.Unlock()
	return true
}

// Logout returns the route to navigate to once signed out
func (p *Profile) Logout() string {
	p.Touch()
	return blueprint.RouteLanding
}

func (p *Profile) Snapshot() interface{} {
	p.mu.Lock()
	image := p.profileImage
	p.mu.Unlock()

	favorites := make([]blueprint.FavoriteSong, len(favoriteSongs))
	copy(favorites, favoriteSongs)
	return &ProfileSnapshot{
		ScreenID:     p.id,
		Screen:       p.name,
		User:         p.user,
		Favorites:    favorites,
		ProfileImage: image,
	}
}

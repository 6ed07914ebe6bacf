package blueprint

// ProfileUser is the signed in user shown on the profile screen
type ProfileUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FavoriteSong is an entry of the profile favourites list
type FavoriteSong struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Cover  string `json:"cover"`
}

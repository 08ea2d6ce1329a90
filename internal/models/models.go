package models

// FavoriteKind identifies which of a user's favorites lists an entry
// belongs to.
type FavoriteKind string

const (
	FavoriteArtist FavoriteKind = "artist"
	FavoriteTrack  FavoriteKind = "track"
	FavoriteAlbum  FavoriteKind = "album"
)

// Label returns the capitalized display name of the kind, as used in
// response messages ("Artist saved successfully").
func (k FavoriteKind) Label() string {
	switch k {
	case FavoriteArtist:
		return "Artist"
	case FavoriteTrack:
		return "Track"
	case FavoriteAlbum:
		return "Album"
	}
	return string(k)
}

// User represents a record in the local user directory
type User struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	FavoriteArtists []string `json:"favorite_artists"`
	FavoriteTracks  []string `json:"favorite_tracks"`
	FavoriteAlbums  []string `json:"favorite_albums"`
}

// Favorites returns the list for the given kind.
func (u *User) Favorites(kind FavoriteKind) []string {
	switch kind {
	case FavoriteArtist:
		return u.FavoriteArtists
	case FavoriteTrack:
		return u.FavoriteTracks
	case FavoriteAlbum:
		return u.FavoriteAlbums
	}
	return nil
}

// AddFavorite appends an entry to the list for the given kind.
func (u *User) AddFavorite(kind FavoriteKind, entry string) {
	switch kind {
	case FavoriteArtist:
		u.FavoriteArtists = append(u.FavoriteArtists, entry)
	case FavoriteTrack:
		u.FavoriteTracks = append(u.FavoriteTracks, entry)
	case FavoriteAlbum:
		u.FavoriteAlbums = append(u.FavoriteAlbums, entry)
	}
}

// Clone returns a deep copy so callers cannot mutate store state through
// shared slices.
func (u *User) Clone() User {
	c := *u
	c.FavoriteArtists = append([]string(nil), u.FavoriteArtists...)
	c.FavoriteTracks = append([]string(nil), u.FavoriteTracks...)
	c.FavoriteAlbums = append([]string(nil), u.FavoriteAlbums...)
	return c
}

package models

// Stats aggregates service counters for the admin surface.
type Stats struct {
	Users         int `db:"users"`
	VerifiedUsers int `db:"verified_users"`
	Generations   int `db:"generations"`
	GalleryImages int `db:"gallery_images"`
}

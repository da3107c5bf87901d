package model

import "time"

// Profile mirrors an external auth identity (Supabase user). The application
// only ever writes the display name; everything else is managed upstream.
type Profile struct {
	ID        string // auth user id (UUID)
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

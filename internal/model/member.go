package model

import "time"

// Member is a public directory profile. It may be linked 1:1 to an Admin via
// AdminID, which lets that admin edit the profile without the "members"
// permission. When the owning admin account is deleted the profile stays,
// flagged archived, and lookups surface it as gone.
type Member struct {
	ID                   int        `json:"id"`
	Name                 string     `json:"name"`
	Role                 string     `json:"role"`
	Genres               *string    `json:"genres,omitempty"`
	Bio                  *string    `json:"bio,omitempty"`
	JoinDate             *time.Time `json:"join_date,omitempty"`
	Email                string     `json:"email"`
	City                 *string    `json:"city,omitempty"`
	Country              *string    `json:"country,omitempty"`
	Instagram            *string    `json:"instagram,omitempty"`
	Soundcloud           *string    `json:"soundcloud,omitempty"`
	Spotify              *string    `json:"spotify,omitempty"`
	Bandcamp             *string    `json:"bandcamp,omitempty"`
	Photo                *string    `json:"photo,omitempty"`
	PortfolioLink        *string    `json:"portfolio_link,omitempty"`
	PortfolioDescription *string    `json:"portfolio_description,omitempty"`
	PortfolioImages      []string   `json:"portfolio_images"`
	SoundcloudEmbeds     []string   `json:"soundcloud_embeds"`
	SpotifyEmbeds        []string   `json:"spotify_embeds"`
	AdminID              *int       `json:"admin_id,omitempty"`
	Archived             bool       `json:"archived"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// PublicMember is the reduced shape served on the public directory listing.
type PublicMember struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Photo   *string `json:"photo"`
}

// MemberRequest is the create/update payload for a member profile.
type MemberRequest struct {
	Name                 string   `json:"name" binding:"required,max=255"`
	Role                 string   `json:"role" binding:"required,max=128"`
	Email                string   `json:"email" binding:"required,email,max=255"`
	Genres               *string  `json:"genres"`
	Bio                  *string  `json:"bio"`
	JoinDate             string   `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
	City                 *string  `json:"city"`
	Country              *string  `json:"country"`
	Instagram            *string  `json:"instagram"`
	Soundcloud           *string  `json:"soundcloud"`
	Spotify              *string  `json:"spotify"`
	Bandcamp             *string  `json:"bandcamp"`
	Photo                *string  `json:"photo"`
	PortfolioLink        *string  `json:"portfolio_link"`
	PortfolioDescription *string  `json:"portfolio_description"`
	PortfolioImages      []string `json:"portfolio_images" binding:"omitempty,max=10"`
	SoundcloudEmbeds     []string `json:"soundcloud_embeds"`
	SpotifyEmbeds        []string `json:"spotify_embeds"`
}

// ContactRequest is the public contact-a-member form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Message string `json:"message" binding:"required,max=4000"`
}

package transport

import (
	"time"

	"github.com/everafter-dev/wedding-back/internal/db"
)

// Response views. Password is write-only and never leaves the server;
// everything else stored is exposed as-is.
type (
	UserResp struct {
		ID        uint64    `json:"id"`
		Email     string    `json:"email"`
		Username  string    `json:"username"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		CreatedAt time.Time `json:"created_at"`
	}

	WeddingResp struct {
		ID                 uint64    `json:"id"`
		UserID             uint64    `json:"user_id"`
		UniqueURL          string    `json:"unique_url"`
		Bride              string    `json:"bride"`
		Groom              string    `json:"groom"`
		WeddingDate        time.Time `json:"wedding_date"`
		Venue              string    `json:"venue"`
		VenueAddress       string    `json:"venue_address"`
		VenueLat           *float64  `json:"venue_lat,omitempty"`
		VenueLng           *float64  `json:"venue_lng,omitempty"`
		Story              string    `json:"story"`
		Template           string    `json:"template"`
		PrimaryColor       string    `json:"primary_color"`
		AccentColor        string    `json:"accent_color"`
		BackgroundMusicURL *string   `json:"background_music_url,omitempty"`
		IsPublic           bool      `json:"is_public"`
		CreatedAt          time.Time `json:"created_at"`
	}

	GuestResp struct {
		ID              uint64     `json:"id"`
		WeddingID       uint64     `json:"wedding_id"`
		Name            string     `json:"name"`
		Email           *string    `json:"email,omitempty"`
		Phone           *string    `json:"phone,omitempty"`
		RSVPStatus      string     `json:"rsvp_status"`
		PlusOneName     *string    `json:"plus_one_name,omitempty"`
		DietaryNotes    *string    `json:"dietary_notes,omitempty"`
		TableAssignment *string    `json:"table_assignment,omitempty"`
		GiftReceived    bool       `json:"gift_received"`
		InvitationSent  bool       `json:"invitation_sent"`
		Message         *string    `json:"message,omitempty"`
		CreatedAt       time.Time  `json:"created_at"`
		RespondedAt     *time.Time `json:"responded_at,omitempty"`
	}

	PhotoResp struct {
		ID         uint64    `json:"id"`
		WeddingID  uint64    `json:"wedding_id"`
		URL        string    `json:"url"`
		Caption    *string   `json:"caption,omitempty"`
		IsHero     bool      `json:"is_hero"`
		UploadedAt time.Time `json:"uploaded_at"`
	}

	GuestBookEntryResp struct {
		ID        uint64    `json:"id"`
		WeddingID uint64    `json:"wedding_id"`
		GuestName string    `json:"guest_name"`
		Message   string    `json:"message"`
		CreatedAt time.Time `json:"created_at"`
	}

	GetStartedResp struct {
		User    UserResp    `json:"user"`
		Wedding WeddingResp `json:"wedding"`
		Message string      `json:"message"`
	}
)

func toUserResp(u *db.User) UserResp {
	return UserResp{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResps(users []db.User) []UserResp {
	resp := make([]UserResp, len(users))
	for i := range users {
		resp[i] = toUserResp(&users[i])
	}
	return resp
}

func toWeddingResp(w *db.Wedding) WeddingResp {
	return WeddingResp{
		ID:                 w.ID,
		UserID:             w.UserID,
		UniqueURL:          w.UniqueURL,
		Bride:              w.Bride,
		Groom:              w.Groom,
		WeddingDate:        w.WeddingDate,
		Venue:              w.Venue,
		VenueAddress:       w.VenueAddress,
		VenueLat:           w.VenueLat,
		VenueLng:           w.VenueLng,
		Story:              w.Story,
		Template:           w.Template,
		PrimaryColor:       w.PrimaryColor,
		AccentColor:        w.AccentColor,
		BackgroundMusicURL: w.BackgroundMusicURL,
		IsPublic:           w.IsPublic,
		CreatedAt:          w.CreatedAt,
	}
}

func toWeddingResps(weddings []db.Wedding) []WeddingResp {
	resp := make([]WeddingResp, len(weddings))
	for i := range weddings {
		resp[i] = toWeddingResp(&weddings[i])
	}
	return resp
}

func toGuestResp(g *db.Guest) GuestResp {
	return GuestResp{
		ID:              g.ID,
		WeddingID:       g.WeddingID,
		Name:            g.Name,
		Email:           g.Email,
		Phone:           g.Phone,
		RSVPStatus:      g.RSVPStatus,
		PlusOneName:     g.PlusOneName,
		DietaryNotes:    g.DietaryNotes,
		TableAssignment: g.TableAssignment,
		GiftReceived:    g.GiftReceived,
		InvitationSent:  g.InvitationSent,
		Message:         g.Message,
		CreatedAt:       g.CreatedAt,
		RespondedAt:     g.RespondedAt,
	}
}

func toGuestResps(guests []db.Guest) []GuestResp {
	resp := make([]GuestResp, len(guests))
	for i := range guests {
		resp[i] = toGuestResp(&guests[i])
	}
	return resp
}

func toPhotoResp(p *db.Photo) PhotoResp {
	return PhotoResp{
		ID:         p.ID,
		WeddingID:  p.WeddingID,
		URL:        p.URL,
		Caption:    p.Caption,
		IsHero:     p.IsHero,
		UploadedAt: p.UploadedAt,
	}
}

func toPhotoResps(photos []db.Photo) []PhotoResp {
	resp := make([]PhotoResp, len(photos))
	for i := range photos {
		resp[i] = toPhotoResp(&photos[i])
	}
	return resp
}

func toGuestBookEntryResp(e *db.GuestBookEntry) GuestBookEntryResp {
	return GuestBookEntryResp{
		ID:        e.ID,
		WeddingID: e.WeddingID,
		GuestName: e.GuestName,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}

func toGuestBookEntryResps(entries []db.GuestBookEntry) []GuestBookEntryResp {
	resp := make([]GuestBookEntryResp, len(entries))
	for i := range entries {
		resp[i] = toGuestBookEntryResp(&entries[i])
	}
	return resp
}

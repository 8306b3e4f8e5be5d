package service

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/everafter-dev/wedding-back/internal/db"
)

// Defaults applied when a wedding is created without explicit styling.
const (
	DefaultTemplate     = "gardenRomance"
	DefaultPrimaryColor = "#D4B08C"
	DefaultAccentColor  = "#89916B"
)

type WeddingCreateInput struct {
	UserID             uint64    `json:"user_id" validate:"required"`
	Bride              string    `json:"bride" validate:"required,max=100"`
	Groom              string    `json:"groom" validate:"required,max=100"`
	WeddingDate        time.Time `json:"wedding_date" validate:"required"`
	Venue              string    `json:"venue" validate:"required,max=200"`
	VenueAddress       string    `json:"venue_address" validate:"required,max=300"`
	VenueLat           *float64  `json:"venue_lat"`
	VenueLng           *float64  `json:"venue_lng"`
	Story              string    `json:"story" validate:"max=5000"`
	Template           string    `json:"template" validate:"max=50"`
	PrimaryColor       string    `json:"primary_color" validate:"omitempty,hexcolor"`
	AccentColor        string    `json:"accent_color" validate:"omitempty,hexcolor"`
	BackgroundMusicURL *string   `json:"background_music_url"`
	IsPublic           *bool     `json:"is_public"`
}

type WeddingUpdateInput struct {
	Bride              *string    `json:"bride" validate:"omitempty,max=100"`
	Groom              *string    `json:"groom" validate:"omitempty,max=100"`
	WeddingDate        *time.Time `json:"wedding_date"`
	Venue              *string    `json:"venue" validate:"omitempty,max=200"`
	VenueAddress       *string    `json:"venue_address" validate:"omitempty,max=300"`
	VenueLat           *float64   `json:"venue_lat"`
	VenueLng           *float64   `json:"venue_lng"`
	Story              *string    `json:"story" validate:"omitempty,max=5000"`
	Template           *string    `json:"template" validate:"omitempty,max=50"`
	PrimaryColor       *string    `json:"primary_color" validate:"omitempty,hexcolor"`
	AccentColor        *string    `json:"accent_color" validate:"omitempty,hexcolor"`
	BackgroundMusicURL *string    `json:"background_music_url"`
	IsPublic           *bool      `json:"is_public"`
}

type WeddingStats struct {
	TotalGuests      int64 `json:"totalGuests"`
	ConfirmedGuests  int64 `json:"confirmedGuests"`
	PendingGuests    int64 `json:"pendingGuests"`
	DeclinedGuests   int64 `json:"declinedGuests"`
	MaybeGuests      int64 `json:"maybeGuests"`
	TotalPhotos      int64 `json:"totalPhotos"`
	GuestBookEntries int64 `json:"guestBookEntries"`
}

// newWedding builds a wedding record with its generated unique URL and the
// template/color/visibility defaults filled in. Persisting is the caller's
// job so both the registration transaction and the plain create share it.
func newWedding(userID uint64, in *WeddingCreateInput) db.Wedding {
	w := db.Wedding{
		UserID:             userID,
		UniqueURL:          GenerateUniqueURL(),
		Bride:              in.Bride,
		Groom:              in.Groom,
		WeddingDate:        in.WeddingDate,
		Venue:              in.Venue,
		VenueAddress:       in.VenueAddress,
		VenueLat:           in.VenueLat,
		VenueLng:           in.VenueLng,
		Story:              in.Story,
		Template:           in.Template,
		PrimaryColor:       in.PrimaryColor,
		AccentColor:        in.AccentColor,
		BackgroundMusicURL: in.BackgroundMusicURL,
		IsPublic:           true,
	}
	if w.Template == "" {
		w.Template = DefaultTemplate
	}
	if w.PrimaryColor == "" {
		w.PrimaryColor = DefaultPrimaryColor
	}
	if w.AccentColor == "" {
		w.AccentColor = DefaultAccentColor
	}
	if in.IsPublic != nil {
		w.IsPublic = *in.IsPublic
	}
	return w
}

func (s *General) WeddingCreate(in *WeddingCreateInput) (*db.Wedding, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	var owner db.User
	if err := s.db.First(&owner, in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, FieldErrors{"user_id": "user does not exist"}
		}
		return nil, errors.Wrap(err, "find owner")
	}

	model := newWedding(owner.ID, in)
	if err := s.db.Create(&model).Error; err != nil {
		return nil, errors.Wrap(err, "create wedding")
	}
	return &model, nil
}

// WeddingList returns every wedding, or only one user's when userID is set.
func (s *General) WeddingList(userID *uint64) ([]db.Wedding, error) {
	weddings := make([]db.Wedding, 0)
	q := s.db.Order("id")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Find(&weddings).Error; err != nil {
		return nil, errors.Wrap(err, "list weddings")
	}
	return weddings, nil
}

func (s *General) WeddingGet(id uint64) (*db.Wedding, error) {
	wedding := db.Wedding{}
	if err := s.db.First(&wedding, id).Error; err != nil {
		return nil, errors.Wrap(err, "find wedding")
	}
	return &wedding, nil
}

func (s *General) WeddingByURL(uniqueURL string) (*db.Wedding, error) {
	wedding := db.Wedding{}
	if err := s.db.Where("unique_url = ?", uniqueURL).First(&wedding).Error; err != nil {
		return nil, errors.Wrap(err, "find wedding by url")
	}
	return &wedding, nil
}

func (s *General) WeddingsByUser(userID uint64) ([]db.Wedding, error) {
	return s.WeddingList(&userID)
}

func (s *General) WeddingUpdate(id uint64, in *WeddingUpdateInput) (*db.Wedding, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	wedding := db.Wedding{}
	if err := s.db.First(&wedding, id).Error; err != nil {
		return nil, errors.Wrap(err, "find wedding")
	}

	// unique_url and created_at are never client-settable, so updates go
	// through an explicit column map
	updates := map[string]interface{}{}
	setString(updates, "bride", in.Bride)
	setString(updates, "groom", in.Groom)
	if in.WeddingDate != nil {
		updates["wedding_date"] = *in.WeddingDate
	}
	setString(updates, "venue", in.Venue)
	setString(updates, "venue_address", in.VenueAddress)
	if in.VenueLat != nil {
		updates["venue_lat"] = *in.VenueLat
	}
	if in.VenueLng != nil {
		updates["venue_lng"] = *in.VenueLng
	}
	setString(updates, "story", in.Story)
	setString(updates, "template", in.Template)
	setString(updates, "primary_color", in.PrimaryColor)
	setString(updates, "accent_color", in.AccentColor)
	if in.BackgroundMusicURL != nil {
		updates["background_music_url"] = *in.BackgroundMusicURL
	}
	if in.IsPublic != nil {
		updates["is_public"] = *in.IsPublic
	}

	if len(updates) > 0 {
		if err := s.db.Model(&wedding).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update wedding")
		}
		if err := s.db.First(&wedding, id).Error; err != nil {
			return nil, errors.Wrap(err, "reload wedding")
		}
	}
	return &wedding, nil
}

// WeddingDelete removes a wedding and all of its guests, photos and guest
// book entries in one transaction.
func (s *General) WeddingDelete(id uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		wedding := db.Wedding{}
		if err := tx.First(&wedding, id).Error; err != nil {
			return errors.Wrap(err, "find wedding")
		}
		return deleteWeddingChildren(tx, wedding.ID)
	})
}

// deleteWeddingChildren deletes a wedding together with its dependents.
// Callers are expected to run it inside a transaction.
func deleteWeddingChildren(tx *gorm.DB, weddingID uint64) error {
	if err := tx.Where("wedding_id = ?", weddingID).Delete(&db.Guest{}).Error; err != nil {
		return errors.Wrap(err, "delete guests")
	}
	if err := tx.Where("wedding_id = ?", weddingID).Delete(&db.Photo{}).Error; err != nil {
		return errors.Wrap(err, "delete photos")
	}
	if err := tx.Where("wedding_id = ?", weddingID).Delete(&db.GuestBookEntry{}).Error; err != nil {
		return errors.Wrap(err, "delete guest book entries")
	}
	if err := tx.Delete(&db.Wedding{}, weddingID).Error; err != nil {
		return errors.Wrap(err, "delete wedding")
	}
	return nil
}

// WeddingStatsGet aggregates guest RSVP counts plus photo and guest book
// totals for one wedding.
func (s *General) WeddingStatsGet(id uint64) (*WeddingStats, error) {
	wedding := db.Wedding{}
	if err := s.db.First(&wedding, id).Error; err != nil {
		return nil, errors.Wrap(err, "find wedding")
	}

	sql, args, err := squirrel.
		Select("rsvp_status", "COUNT(*) AS n").From("guests").
		Where(squirrel.Eq{"wedding_id": wedding.ID}).
		GroupBy("rsvp_status").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	rows := make([]struct {
		RsvpStatus string
		N          int64
	}, 0)
	if err := s.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "scan rsvp counts")
	}

	stats := WeddingStats{}
	for _, row := range rows {
		stats.TotalGuests += row.N
		switch row.RsvpStatus {
		case db.RSVPConfirmed:
			stats.ConfirmedGuests = row.N
		case db.RSVPPending:
			stats.PendingGuests = row.N
		case db.RSVPDeclined:
			stats.DeclinedGuests = row.N
		case db.RSVPMaybe:
			stats.MaybeGuests = row.N
		}
	}

	if err := s.db.Model(&db.Photo{}).Where("wedding_id = ?", wedding.ID).Count(&stats.TotalPhotos).Error; err != nil {
		return nil, errors.Wrap(err, "count photos")
	}
	if err := s.db.Model(&db.GuestBookEntry{}).Where("wedding_id = ?", wedding.ID).Count(&stats.GuestBookEntries).Error; err != nil {
		return nil, errors.Wrap(err, "count guest book entries")
	}
	return &stats, nil
}

func setString(updates map[string]interface{}, column string, v *string) {
	if v != nil {
		updates[column] = *v
	}
}

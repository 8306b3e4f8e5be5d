package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/everafter-dev/wedding-back/internal/config"
)

// RSVP states a guest can be in. Guests start out as pending and move to one
// of the other three when they respond.
const (
	RSVPPending   = "pending"
	RSVPConfirmed = "confirmed"
	RSVPDeclined  = "declined"
	RSVPMaybe     = "maybe"
)

type (
	User struct {
		ID        uint64 `gorm:"primarykey"`
		Email     string `gorm:"unique;not null"`
		Username  string `gorm:"unique;not null"`
		Password  string `gorm:"not null"`
		FirstName string `gorm:"not null"`
		LastName  string
		CreatedAt time.Time
		Weddings  []Wedding `gorm:"constraint:OnDelete:CASCADE"`
	}

	Wedding struct {
		ID                 uint64 `gorm:"primarykey"`
		UserID             uint64 `gorm:"not null"`
		User               User
		UniqueURL          string    `gorm:"uniqueIndex;not null"`
		Bride              string    `gorm:"not null"`
		Groom              string    `gorm:"not null"`
		WeddingDate        time.Time `gorm:"not null"`
		Venue              string    `gorm:"not null"`
		VenueAddress       string    `gorm:"not null"`
		VenueLat           *float64
		VenueLng           *float64
		Story              string
		Template           string `gorm:"not null"`
		PrimaryColor       string `gorm:"not null"`
		AccentColor        string `gorm:"not null"`
		BackgroundMusicURL *string
		IsPublic           bool `gorm:"not null"`
		CreatedAt          time.Time
		Guests             []Guest          `gorm:"constraint:OnDelete:CASCADE"`
		Photos             []Photo          `gorm:"constraint:OnDelete:CASCADE"`
		GuestBookEntries   []GuestBookEntry `gorm:"constraint:OnDelete:CASCADE"`
	}

	Guest struct {
		ID              uint64 `gorm:"primarykey"`
		WeddingID       uint64 `gorm:"not null"`
		Wedding         Wedding
		Name            string `gorm:"not null"`
		Email           *string
		Phone           *string
		RSVPStatus      string `gorm:"column:rsvp_status;not null;default:pending"`
		PlusOneName     *string
		DietaryNotes    *string
		TableAssignment *string
		GiftReceived    bool `gorm:"not null"`
		InvitationSent  bool `gorm:"not null"`
		Message         *string
		CreatedAt       time.Time
		RespondedAt     *time.Time
	}

	Photo struct {
		ID         uint64 `gorm:"primarykey"`
		WeddingID  uint64 `gorm:"not null"`
		Wedding    Wedding
		URL        string `gorm:"not null"`
		Caption    *string
		IsHero     bool      `gorm:"not null"`
		UploadedAt time.Time `gorm:"autoCreateTime"`
	}

	GuestBookEntry struct {
		ID        uint64 `gorm:"primarykey"`
		WeddingID uint64 `gorm:"not null"`
		Wedding   Wedding
		GuestName string `gorm:"not null"`
		Message   string `gorm:"not null"`
		CreatedAt time.Time
	}
)

func NewGormClient(cfg *config.Config) (*gorm.DB, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Info,
		Colorful:                  true,
		IgnoreRecordNotFoundError: false,
	})

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema. Shared with the test suite, which
// runs it against an in-memory sqlite database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}); err != nil {
		return errors.Wrap(err, "migrate user")
	}
	if err := db.AutoMigrate(&Wedding{}); err != nil {
		return errors.Wrap(err, "migrate wedding")
	}
	if err := db.AutoMigrate(&Guest{}); err != nil {
		return errors.Wrap(err, "migrate guest")
	}
	if err := db.AutoMigrate(&Photo{}); err != nil {
		return errors.Wrap(err, "migrate photo")
	}
	if err := db.AutoMigrate(&GuestBookEntry{}); err != nil {
		return errors.Wrap(err, "migrate guest book entry")
	}
	return nil
}

package service

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/everafter-dev/wedding-back/internal/db"
)

// FieldErrors maps a request field to what is wrong with it. It is returned
// for any client-correctable failure so the caller can render it next to the
// offending input.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+" "+msg)
	}
	return strings.Join(parts, "; ")
}

type General struct {
	db       *gorm.DB
	logger   *zap.SugaredLogger
	validate *validator.Validate
}

func NewGeneral(gdb *gorm.DB, l *zap.SugaredLogger) *General {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &General{
		db:       gdb,
		logger:   l,
		validate: v,
	}
}

type GetStartedInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`

	Bride        string    `json:"bride" validate:"required,max=100"`
	Groom        string    `json:"groom" validate:"required,max=100"`
	WeddingDate  time.Time `json:"wedding_date" validate:"required"`
	Venue        string    `json:"venue" validate:"required,max=200"`
	VenueAddress string    `json:"venue_address" validate:"required,max=300"`
	Story        string    `json:"story" validate:"max=5000"`
	Template     string    `json:"template" validate:"max=50"`
	PrimaryColor string    `json:"primary_color" validate:"omitempty,hexcolor"`
	AccentColor  string    `json:"accent_color" validate:"omitempty,hexcolor"`
	IsPublic     *bool     `json:"is_public"`
}

// GetStarted registers a user and creates their wedding page in one shot.
// Both inserts run in a single transaction: if the wedding cannot be created
// the user is rolled back too.
func (s *General) GetStarted(in *GetStartedInput) (*db.User, *db.Wedding, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, nil, fe
	}

	hash, err := s.bcryptGen(in.Password)
	if err != nil {
		return nil, nil, errors.Wrap(err, "bcryptGen")
	}
	first, last := SplitName(in.Name)

	var (
		user    db.User
		wedding db.Wedding
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return errors.Wrap(err, "check email")
		}
		if count > 0 {
			return FieldErrors{"email": "is already registered"}
		}

		user = db.User{
			Email:     in.Email,
			Username:  in.Email,
			Password:  hash,
			FirstName: first,
			LastName:  last,
		}
		if err := tx.Create(&user).Error; err != nil {
			return errors.Wrap(err, "create user")
		}

		wedding = newWedding(user.ID, &WeddingCreateInput{
			Bride:        in.Bride,
			Groom:        in.Groom,
			WeddingDate:  in.WeddingDate,
			Venue:        in.Venue,
			VenueAddress: in.VenueAddress,
			Story:        in.Story,
			Template:     in.Template,
			PrimaryColor: in.PrimaryColor,
			AccentColor:  in.AccentColor,
			IsPublic:     in.IsPublic,
		})
		if err := tx.Create(&wedding).Error; err != nil {
			return errors.Wrap(err, "create wedding")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Infow("registered user with wedding", "user_id", user.ID, "wedding_id", wedding.ID)
	return &user, &wedding, nil
}

// SplitName breaks a display name into first and last name. The first
// whitespace-separated token is the first name, the rest joined by spaces is
// the last name ("" for a single-token name).
func SplitName(name string) (string, string) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], strings.Join(tokens[1:], " ")
}

// GenerateUniqueURL produces the shareable path segment for a wedding page:
// a random uuid with the dashes stripped, truncated to 12 characters.
// Uniqueness is best effort; the unique index on weddings.unique_url is the
// actual guarantee and a collision surfaces as a constraint violation.
func GenerateUniqueURL() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return raw[:12]
}

// checkStruct runs the tag validators and flattens the result into a
// field-keyed error map, nil when the input is valid.
func (s *General) checkStruct(in interface{}) FieldErrors {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}
	fe := FieldErrors{}
	for _, v := range verrs {
		fe[v.Field()] = validationMessage(v)
	}
	return fe
}

func validationMessage(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return "does not match " + strings.ToLower(v.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", v.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", v.Param())
	case "hexcolor":
		return "must be a hex color value"
	case "oneof":
		return "must be one of: " + v.Param()
	default:
		return "is invalid"
	}
}

func (s *General) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), 14)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

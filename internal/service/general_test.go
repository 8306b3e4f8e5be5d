package service

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/everafter-dev/wedding-back/internal/db"
)

func newTestService(t *testing.T) *General {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return NewGeneral(gdb, zap.NewNop().Sugar())
}

func seedUser(t *testing.T, s *General, email string) *db.User {
	t.Helper()
	u := &db.User{
		Email:     email,
		Username:  email,
		Password:  "not-a-real-hash",
		FirstName: "Test",
	}
	require.NoError(t, s.db.Create(u).Error)
	return u
}

func seedWedding(t *testing.T, s *General, userID uint64) *db.Wedding {
	t.Helper()
	w := newWedding(userID, &WeddingCreateInput{
		Bride:       "Jane",
		Groom:       "John",
		WeddingDate: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, s.db.Create(&w).Error)
	return &w
}

func validGetStarted() *GetStartedInput {
	return &GetStartedInput{
		Name:            "Jane Doe",
		Email:           "jane@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Bride:           "Jane",
		Groom:           "John",
		WeddingDate:     time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		Venue:           "Garden Hall",
		VenueAddress:    "1 Main St",
	}
}

func TestGetStarted(t *testing.T) {
	s := newTestService(t)

	user, wedding, err := s.GetStarted(validGetStarted())
	require.NoError(t, err)

	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.Equal(t, "jane@x.com", user.Email)
	assert.Equal(t, "jane@x.com", user.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))

	assert.Equal(t, user.ID, wedding.UserID)
	assert.Len(t, wedding.UniqueURL, 12)
	assert.Equal(t, DefaultTemplate, wedding.Template)
	assert.Equal(t, DefaultPrimaryColor, wedding.PrimaryColor)
	assert.Equal(t, DefaultAccentColor, wedding.AccentColor)
	assert.True(t, wedding.IsPublic)
	assert.Equal(t, "", wedding.Story)

	var userCount, weddingCount int64
	require.NoError(t, s.db.Model(&db.User{}).Count(&userCount).Error)
	require.NoError(t, s.db.Model(&db.Wedding{}).Count(&weddingCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), weddingCount)
}

func TestGetStartedPasswordMismatch(t *testing.T) {
	s := newTestService(t)

	in := validGetStarted()
	in.ConfirmPassword = "something-else"

	_, _, err := s.GetStarted(in)
	require.Error(t, err)

	fe, ok := err.(FieldErrors)
	require.True(t, ok)
	assert.Contains(t, fe, "confirm_password")

	var userCount, weddingCount int64
	require.NoError(t, s.db.Model(&db.User{}).Count(&userCount).Error)
	require.NoError(t, s.db.Model(&db.Wedding{}).Count(&weddingCount).Error)
	assert.Equal(t, int64(0), userCount)
	assert.Equal(t, int64(0), weddingCount)
}

func TestGetStartedDuplicateEmail(t *testing.T) {
	s := newTestService(t)

	_, _, err := s.GetStarted(validGetStarted())
	require.NoError(t, err)

	_, _, err = s.GetStarted(validGetStarted())
	require.Error(t, err)

	fe, ok := err.(FieldErrors)
	require.True(t, ok)
	assert.Contains(t, fe, "email")

	var userCount int64
	require.NoError(t, s.db.Model(&db.User{}).Where("email = ?", "jane@x.com").Count(&userCount).Error)
	assert.Equal(t, int64(1), userCount)
}

func TestGetStartedMissingFields(t *testing.T) {
	s := newTestService(t)

	_, _, err := s.GetStarted(&GetStartedInput{})
	require.Error(t, err)

	fe, ok := err.(FieldErrors)
	require.True(t, ok)
	for _, field := range []string{"name", "email", "password", "bride", "groom", "wedding_date", "venue", "venue_address"} {
		assert.Contains(t, fe, field)
	}

	var userCount int64
	require.NoError(t, s.db.Model(&db.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(0), userCount)
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		name  string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"Jane van der Berg", "Jane", "van der Berg"},
		{"  Jane   Doe  ", "Jane", "Doe"},
		{"", "", ""},
	}
	for _, c := range cases {
		first, last := SplitName(c.name)
		assert.Equal(t, c.first, first, c.name)
		assert.Equal(t, c.last, last, c.name)
	}
}

func TestGenerateUniqueURL(t *testing.T) {
	seen := map[string]bool{}
	pattern := regexp.MustCompile(`^[0-9a-f]{12}$`)
	for i := 0; i < 100; i++ {
		slug := GenerateUniqueURL()
		assert.Len(t, slug, 12)
		assert.Regexp(t, pattern, slug)
		assert.False(t, seen[slug])
		seen[slug] = true
	}
}

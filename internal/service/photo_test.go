package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoCreateStampsUploadedAt(t *testing.T) {
	s := newTestService(t)
	owner := seedUser(t, s, "owner@x.com")
	wedding := seedWedding(t, s, owner.ID)

	photo, err := s.PhotoCreate(&PhotoCreateInput{
		WeddingID: wedding.ID,
		URL:       "https://cdn.example.com/1.jpg",
	})
	require.NoError(t, err)
	assert.False(t, photo.UploadedAt.IsZero())

	reloaded, err := s.PhotoGet(photo.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.UploadedAt.IsZero())
}

func TestPhotosByWedding(t *testing.T) {
	s := newTestService(t)
	owner := seedUser(t, s, "owner@x.com")
	wedding := seedWedding(t, s, owner.ID)
	other := seedWedding(t, s, owner.ID)

	for _, url := range []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"} {
		_, err := s.PhotoCreate(&PhotoCreateInput{WeddingID: wedding.ID, URL: url})
		require.NoError(t, err)
	}
	_, err := s.PhotoCreate(&PhotoCreateInput{WeddingID: other.ID, URL: "https://cdn.example.com/3.jpg"})
	require.NoError(t, err)

	photos, err := s.PhotosByWedding(wedding.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "https://cdn.example.com/1.jpg", photos[0].URL)
	assert.Equal(t, "https://cdn.example.com/2.jpg", photos[1].URL)

	photos, err = s.PhotosByWedding(999)
	require.NoError(t, err)
	assert.Len(t, photos, 0)
}

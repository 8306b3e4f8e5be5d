package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/everafter-dev/wedding-back/internal/db"
)

type GuestBookEntryCreateInput struct {
	WeddingID uint64 `json:"wedding_id" validate:"required"`
	GuestName string `json:"guest_name" validate:"required,max=100"`
	Message   string `json:"message" validate:"required,max=1000"`
}

type GuestBookEntryUpdateInput struct {
	GuestName *string `json:"guest_name" validate:"omitempty,max=100"`
	Message   *string `json:"message" validate:"omitempty,max=1000"`
}

func (s *General) GuestBookEntryCreate(in *GuestBookEntryCreateInput) (*db.GuestBookEntry, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}
	if err := s.requireWedding(in.WeddingID); err != nil {
		return nil, err
	}

	model := db.GuestBookEntry{
		WeddingID: in.WeddingID,
		GuestName: in.GuestName,
		Message:   in.Message,
	}
	if err := s.db.Create(&model).Error; err != nil {
		return nil, errors.Wrap(err, "create guest book entry")
	}
	return &model, nil
}

func (s *General) GuestBookEntryList() ([]db.GuestBookEntry, error) {
	entries := make([]db.GuestBookEntry, 0)
	if err := s.db.Order("id").Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "list guest book entries")
	}
	return entries, nil
}

// GuestBookEntriesByWedding lists a wedding's entries, newest first.
func (s *General) GuestBookEntriesByWedding(weddingID uint64) ([]db.GuestBookEntry, error) {
	entries := make([]db.GuestBookEntry, 0)
	if err := s.db.Where("wedding_id = ?", weddingID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "list guest book entries by wedding")
	}
	return entries, nil
}

func (s *General) GuestBookEntryGet(id uint64) (*db.GuestBookEntry, error) {
	entry := db.GuestBookEntry{}
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, errors.Wrap(err, "find guest book entry")
	}
	return &entry, nil
}

func (s *General) GuestBookEntryUpdate(id uint64, in *GuestBookEntryUpdateInput) (*db.GuestBookEntry, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	entry := db.GuestBookEntry{}
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, errors.Wrap(err, "find guest book entry")
	}

	updates := map[string]interface{}{}
	setString(updates, "guest_name", in.GuestName)
	setString(updates, "message", in.Message)

	if len(updates) > 0 {
		if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update guest book entry")
		}
		if err := s.db.First(&entry, id).Error; err != nil {
			return nil, errors.Wrap(err, "reload guest book entry")
		}
	}
	return &entry, nil
}

func (s *General) GuestBookEntryDelete(id uint64) error {
	res := s.db.Delete(&db.GuestBookEntry{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete guest book entry")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(gorm.ErrRecordNotFound, "find guest book entry")
	}
	return nil
}

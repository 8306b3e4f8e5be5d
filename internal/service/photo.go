package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/everafter-dev/wedding-back/internal/db"
)

type PhotoCreateInput struct {
	WeddingID uint64  `json:"wedding_id" validate:"required"`
	URL       string  `json:"url" validate:"required,max=2000"`
	Caption   *string `json:"caption" validate:"omitempty,max=500"`
	IsHero    bool    `json:"is_hero"`
}

type PhotoUpdateInput struct {
	URL     *string `json:"url" validate:"omitempty,max=2000"`
	Caption *string `json:"caption" validate:"omitempty,max=500"`
	IsHero  *bool   `json:"is_hero"`
}

func (s *General) PhotoCreate(in *PhotoCreateInput) (*db.Photo, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}
	if err := s.requireWedding(in.WeddingID); err != nil {
		return nil, err
	}

	model := db.Photo{
		WeddingID: in.WeddingID,
		URL:       in.URL,
		Caption:   in.Caption,
		IsHero:    in.IsHero,
	}
	if err := s.db.Create(&model).Error; err != nil {
		return nil, errors.Wrap(err, "create photo")
	}
	return &model, nil
}

func (s *General) PhotoList() ([]db.Photo, error) {
	photos := make([]db.Photo, 0)
	if err := s.db.Order("id").Find(&photos).Error; err != nil {
		return nil, errors.Wrap(err, "list photos")
	}
	return photos, nil
}

func (s *General) PhotosByWedding(weddingID uint64) ([]db.Photo, error) {
	photos := make([]db.Photo, 0)
	if err := s.db.Where("wedding_id = ?", weddingID).Order("id").Find(&photos).Error; err != nil {
		return nil, errors.Wrap(err, "list photos by wedding")
	}
	return photos, nil
}

func (s *General) PhotoGet(id uint64) (*db.Photo, error) {
	photo := db.Photo{}
	if err := s.db.First(&photo, id).Error; err != nil {
		return nil, errors.Wrap(err, "find photo")
	}
	return &photo, nil
}

func (s *General) PhotoUpdate(id uint64, in *PhotoUpdateInput) (*db.Photo, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	photo := db.Photo{}
	if err := s.db.First(&photo, id).Error; err != nil {
		return nil, errors.Wrap(err, "find photo")
	}

	updates := map[string]interface{}{}
	setString(updates, "url", in.URL)
	setString(updates, "caption", in.Caption)
	if in.IsHero != nil {
		updates["is_hero"] = *in.IsHero
	}

	if len(updates) > 0 {
		if err := s.db.Model(&photo).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update photo")
		}
		if err := s.db.First(&photo, id).Error; err != nil {
			return nil, errors.Wrap(err, "reload photo")
		}
	}
	return &photo, nil
}

func (s *General) PhotoDelete(id uint64) error {
	res := s.db.Delete(&db.Photo{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete photo")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(gorm.ErrRecordNotFound, "find photo")
	}
	return nil
}

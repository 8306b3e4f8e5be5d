package service

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/everafter-dev/wedding-back/internal/db"
)

type GuestCreateInput struct {
	WeddingID       uint64  `json:"wedding_id" validate:"required"`
	Name            string  `json:"name" validate:"required,max=100"`
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	RSVPStatus      string  `json:"rsvp_status" validate:"omitempty,oneof=pending confirmed declined maybe"`
	PlusOneName     *string `json:"plus_one_name" validate:"omitempty,max=100"`
	DietaryNotes    *string `json:"dietary_notes" validate:"omitempty,max=500"`
	TableAssignment *string `json:"table_assignment" validate:"omitempty,max=50"`
	GiftReceived    bool    `json:"gift_received"`
	InvitationSent  bool    `json:"invitation_sent"`
	Message         *string `json:"message" validate:"omitempty,max=1000"`
}

type GuestUpdateInput struct {
	Name            *string `json:"name" validate:"omitempty,max=100"`
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	RSVPStatus      *string `json:"rsvp_status" validate:"omitempty,oneof=pending confirmed declined maybe"`
	PlusOneName     *string `json:"plus_one_name" validate:"omitempty,max=100"`
	DietaryNotes    *string `json:"dietary_notes" validate:"omitempty,max=500"`
	TableAssignment *string `json:"table_assignment" validate:"omitempty,max=50"`
	GiftReceived    *bool   `json:"gift_received"`
	InvitationSent  *bool   `json:"invitation_sent"`
	Message         *string `json:"message" validate:"omitempty,max=1000"`
}

// RSVPInput is what a guest submits from the public wedding page. Pending is
// deliberately absent: responding always moves the guest out of it.
type RSVPInput struct {
	RSVPStatus string  `json:"rsvp_status" validate:"required,oneof=confirmed declined maybe"`
	Message    *string `json:"message" validate:"omitempty,max=1000"`
}

func (s *General) GuestCreate(in *GuestCreateInput) (*db.Guest, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}
	if err := s.requireWedding(in.WeddingID); err != nil {
		return nil, err
	}

	model := db.Guest{
		WeddingID:       in.WeddingID,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		RSVPStatus:      in.RSVPStatus,
		PlusOneName:     in.PlusOneName,
		DietaryNotes:    in.DietaryNotes,
		TableAssignment: in.TableAssignment,
		GiftReceived:    in.GiftReceived,
		InvitationSent:  in.InvitationSent,
		Message:         in.Message,
	}
	if model.RSVPStatus == "" {
		model.RSVPStatus = db.RSVPPending
	}
	if err := s.db.Create(&model).Error; err != nil {
		return nil, errors.Wrap(err, "create guest")
	}
	return &model, nil
}

func (s *General) GuestList() ([]db.Guest, error) {
	guests := make([]db.Guest, 0)
	if err := s.db.Order("id").Find(&guests).Error; err != nil {
		return nil, errors.Wrap(err, "list guests")
	}
	return guests, nil
}

// GuestsByWedding lists a wedding's guests, optionally narrowed to one RSVP
// status.
func (s *General) GuestsByWedding(weddingID uint64, rsvpStatus *string) ([]db.Guest, error) {
	w := squirrel.Eq{
		"wedding_id": weddingID,
	}
	if rsvpStatus != nil {
		w["rsvp_status"] = *rsvpStatus
	}
	sql, args, err := squirrel.
		Select("*").From("guests").
		OrderBy("id").
		Where(w).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	guests := make([]db.Guest, 0)
	if err := s.db.Raw(sql, args...).Scan(&guests).Error; err != nil {
		return nil, errors.Wrap(err, "scan guests")
	}
	return guests, nil
}

func (s *General) GuestGet(id uint64) (*db.Guest, error) {
	guest := db.Guest{}
	if err := s.db.First(&guest, id).Error; err != nil {
		return nil, errors.Wrap(err, "find guest")
	}
	return &guest, nil
}

func (s *General) GuestUpdate(id uint64, in *GuestUpdateInput) (*db.Guest, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	guest := db.Guest{}
	if err := s.db.First(&guest, id).Error; err != nil {
		return nil, errors.Wrap(err, "find guest")
	}

	updates := map[string]interface{}{}
	setString(updates, "name", in.Name)
	setString(updates, "email", in.Email)
	setString(updates, "phone", in.Phone)
	setString(updates, "rsvp_status", in.RSVPStatus)
	setString(updates, "plus_one_name", in.PlusOneName)
	setString(updates, "dietary_notes", in.DietaryNotes)
	setString(updates, "table_assignment", in.TableAssignment)
	if in.GiftReceived != nil {
		updates["gift_received"] = *in.GiftReceived
	}
	if in.InvitationSent != nil {
		updates["invitation_sent"] = *in.InvitationSent
	}
	setString(updates, "message", in.Message)

	if len(updates) > 0 {
		if err := s.db.Model(&guest).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update guest")
		}
		if err := s.db.First(&guest, id).Error; err != nil {
			return nil, errors.Wrap(err, "reload guest")
		}
	}
	return &guest, nil
}

// GuestRSVP records a guest's response and stamps responded_at.
func (s *General) GuestRSVP(id uint64, in *RSVPInput) (*db.Guest, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	guest := db.Guest{}
	if err := s.db.First(&guest, id).Error; err != nil {
		return nil, errors.Wrap(err, "find guest")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"rsvp_status":  in.RSVPStatus,
		"responded_at": now,
	}
	if in.Message != nil {
		updates["message"] = *in.Message
	}
	if err := s.db.Model(&guest).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "update rsvp")
	}
	if err := s.db.First(&guest, id).Error; err != nil {
		return nil, errors.Wrap(err, "reload guest")
	}
	return &guest, nil
}

func (s *General) GuestDelete(id uint64) error {
	res := s.db.Delete(&db.Guest{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete guest")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(gorm.ErrRecordNotFound, "find guest")
	}
	return nil
}

// requireWedding turns a dangling wedding reference into a field error
// before the foreign key gets a chance to reject it.
func (s *General) requireWedding(weddingID uint64) error {
	wedding := db.Wedding{}
	if err := s.db.First(&wedding, weddingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FieldErrors{"wedding_id": "wedding does not exist"}
		}
		return errors.Wrap(err, "find wedding")
	}
	return nil
}

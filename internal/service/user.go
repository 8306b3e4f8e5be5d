package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/everafter-dev/wedding-back/internal/db"
)

type UserCreateInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type UserUpdateInput struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

func (s *General) UserCreate(in *UserCreateInput) (*db.User, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "check email")
	}
	if count > 0 {
		return nil, FieldErrors{"email": "is already registered"}
	}

	hash, err := s.bcryptGen(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "bcryptGen")
	}
	first, last := SplitName(in.Name)

	model := db.User{
		Email:     in.Email,
		Username:  in.Email,
		Password:  hash,
		FirstName: first,
		LastName:  last,
	}
	if err := s.db.Create(&model).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return &model, nil
}

func (s *General) UserList() ([]db.User, error) {
	users := make([]db.User, 0)
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *General) UserGet(id uint64) (*db.User, error) {
	user := db.User{}
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

func (s *General) UserUpdate(id uint64, in *UserUpdateInput) (*db.User, error) {
	if fe := s.checkStruct(in); fe != nil {
		return nil, fe
	}

	user := db.User{}
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, errors.Wrap(err, "find user")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		first, last := SplitName(*in.Name)
		updates["first_name"] = first
		updates["last_name"] = last
	}
	if in.Email != nil {
		updates["email"] = *in.Email
		updates["username"] = *in.Email
	}
	if in.Password != nil {
		hash, err := s.bcryptGen(*in.Password)
		if err != nil {
			return nil, errors.Wrap(err, "bcryptGen")
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update user")
		}
		if err := s.db.First(&user, id).Error; err != nil {
			return nil, errors.Wrap(err, "reload user")
		}
	}
	return &user, nil
}

// UserDelete removes a user together with their weddings and everything the
// weddings own.
func (s *General) UserDelete(id uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		user := db.User{}
		if err := tx.First(&user, id).Error; err != nil {
			return errors.Wrap(err, "find user")
		}

		weddings := make([]db.Wedding, 0)
		if err := tx.Where("user_id = ?", user.ID).Find(&weddings).Error; err != nil {
			return errors.Wrap(err, "list weddings")
		}
		for i := range weddings {
			if err := deleteWeddingChildren(tx, weddings[i].ID); err != nil {
				return err
			}
		}

		if err := tx.Delete(&db.User{}, user.ID).Error; err != nil {
			return errors.Wrap(err, "delete user")
		}
		return nil
	})
}

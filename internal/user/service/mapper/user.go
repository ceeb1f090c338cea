package mapper

import (
	"github.com/AlibekovAA/user-registry/internal/common/dates"
	"github.com/AlibekovAA/user-registry/internal/user/domain"
	"github.com/AlibekovAA/user-registry/internal/user/service/dto"
)

type UserMapper interface {
	ToEntity(req dto.CreateUserRequest) domain.User
	ToDTO(user domain.User) dto.User
	ApplyUpdate(user *domain.User, req dto.UpdateUserRequest)
}

type DefaultUserMapper struct{}

func NewUserMapper() DefaultUserMapper {
	return DefaultUserMapper{}
}

func (DefaultUserMapper) ToEntity(req dto.CreateUserRequest) domain.User {
	return domain.User{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   dates.FromTime(req.BirthDate).Time,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
}

func (DefaultUserMapper) ToDTO(user domain.User) dto.User {
	return dto.User{
		ID:          int64(user.ID),
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		BirthDate:   dates.FromTime(user.BirthDate),
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
	}
}

// ApplyUpdate overwrites every editable field; ID and timestamps are kept.
func (DefaultUserMapper) ApplyUpdate(user *domain.User, req dto.UpdateUserRequest) {
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.BirthDate = dates.FromTime(req.BirthDate).Time
	user.Address = req.Address
	user.PhoneNumber = req.PhoneNumber
}

func UsersToDTO(m UserMapper, users []domain.User) []dto.User {
	result := make([]dto.User, len(users))
	for i, u := range users {
		result[i] = m.ToDTO(u)
	}
	return result
}

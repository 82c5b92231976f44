package models

import "time"

type UserType string

const (
	UserTypeStaff   UserType = "STAFF"
	UserTypeDoctor  UserType = "DOCTOR"
	UserTypePatient UserType = "PATIENT"
)

func (t UserType) IsValid() bool {
	switch t {
	case UserTypeStaff, UserTypeDoctor, UserTypePatient:
		return true
	}
	return false
}

type User struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Username    *string    `json:"username,omitempty"`
	Password    string     `json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	BirthDate   *time.Time `json:"birth_date"`
	Type        UserType   `json:"type"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	DateJoined  time.Time  `json:"date_joined"`
	UpdatedAt   time.Time  `json:"-"`
}

// UserInfo is the short representation embedded in examinations.
type UserInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (u *User) Info() *UserInfo {
	if u == nil {
		return nil
	}
	return &UserInfo{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

type UserFilter struct {
	Type *UserType
}

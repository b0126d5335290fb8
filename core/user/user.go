package user

import "time"

type User struct {
	ID            int       `json:"id" db:"user_id"`
	FullName      string    `json:"fullName" db:"full_name"`
	ContactNumber string    `json:"contactNumber" db:"contact_number"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  []byte    `json:"-" db:"password_hash"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"-" db:"updated_at"`
}

type UserSignup struct {
	FullName      string `json:"fullName" validate:"required"`
	ContactNumber string `json:"contactNumber" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
}

// Info is the slim identity returned inside the register/login envelope.
type Info struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (u User) Info() Info {
	return Info{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

package domain

import "time"

type ID int64

type User struct {
	ID          ID
	Email       string
	FirstName   string
	LastName    string
	BirthDate   time.Time
	Address     string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package domain

import "time"

const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"

	UserActive   = "Active"
	UserInactive = "Inactive"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) Validate() error {
	if u.Name == "" || u.Email == "" {
		return ErrInvalid
	}
	switch u.Role {
	case RoleAdmin, RoleCustomer:
	default:
		return ErrInvalid
	}
	switch u.Status {
	case UserActive, UserInactive:
	default:
		return ErrInvalid
	}
	return nil
}

type UserStats struct {
	Total  int
	Active int
	New    int
}

package dto

type CreateUserRequest struct {
	FullName   string `json:"fullName" validate:"required,max=200"`
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Role       string `json:"role" validate:"omitempty,oneof=admin user"`
	AvatarURL  string `json:"avatarUrl"`
	IsActive   *bool  `json:"isActive"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type UpdateUserRequest struct {
	FullName   *string `json:"fullName" validate:"omitempty,max=200"`
	Username   *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin user"`
	AvatarURL  *string `json:"avatarUrl"`
	IsActive   *bool   `json:"isActive"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postalCode"`
}

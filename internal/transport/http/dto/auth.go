package dto

type LoginRequest struct {
	// Identifier is an email address or a username.
	Identifier string `json:"identifier" validate:"required_without=Email"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"required"`
}

func (r LoginRequest) Login() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	return r.Email
}

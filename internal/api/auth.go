package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" example:"Alice"`
	Username string `json:"username" validate:"required" example:"alice"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"Secret123!"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// swagger:model api.RefreshResponse
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

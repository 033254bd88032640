package api

import (
	"time"

	"hospitofind/internal/model"
)

// swagger:model api.UserResponse
type UserResponse struct {
	ID         int       `json:"id" example:"1"`
	Name       string    `json:"name" example:"Alice"`
	Username   string    `json:"username" example:"alice"`
	Email      string    `json:"email" example:"alice@example.com"`
	Role       string    `json:"role" example:"user"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// UpdateMeRequest changes profile fields. Password is the current
// password, required as a confirmation gate.
// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// swagger:model api.UpdatePasswordRequest
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// swagger:model api.DeleteMeRequest
type DeleteMeRequest struct {
	Password string `json:"password" validate:"required"`
}

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// swagger:model api.UpdateRoleRequest
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// UserStatsResponse summarizes a contributor's submissions.
// swagger:model api.UserStatsResponse
type UserStatsResponse struct {
	TotalSubmissions    int    `json:"totalSubmissions"`
	VerifiedSubmissions int    `json:"verifiedSubmissions"`
	PendingSubmissions  int    `json:"pendingSubmissions"`
	ContributorLevel    string `json:"contributorLevel"`
}

// AdminStatsResponse is the moderation dashboard summary.
// swagger:model api.AdminStatsResponse
type AdminStatsResponse struct {
	TotalHospitals    int `json:"totalHospitals"`
	VerifiedHospitals int `json:"verifiedHospitals"`
	PendingHospitals  int `json:"pendingHospitals"`
	TotalUsers        int `json:"totalUsers"`
}

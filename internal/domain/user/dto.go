package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID                    string `json:"id"`
	FullName              string `json:"full_name"`
	Email                 string `json:"email"`
	IsAdmin               bool   `json:"is_admin"`
	ExpectedDailyMinutes  *int   `json:"expected_daily_minutes,omitempty"`
	FridayExpectedMinutes *int   `json:"friday_expected_minutes,omitempty"`
	CreatedAt             string `json:"created_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		FullName:              u.FullName,
		Email:                 u.Email,
		IsAdmin:               u.IsAdmin,
		ExpectedDailyMinutes:  u.ExpectedDailyMinutes,
		FridayExpectedMinutes: u.FridayExpectedMinutes,
		CreatedAt:             u.CreatedAt.Format(time.RFC3339),
	}
}

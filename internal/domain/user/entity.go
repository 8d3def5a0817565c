package user

import "time"

type User struct {
	ID       string
	FullName string
	Email    string
	IsAdmin  bool

	// Per-user expected working time. Nil falls back to the configured default.
	ExpectedDailyMinutes  *int
	FridayExpectedMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExistedDuring reports whether the user account was created before the end of the given period.
func (u *User) ExistedDuring(periodEnd time.Time) bool {
	return u.CreatedAt.Before(periodEnd)
}

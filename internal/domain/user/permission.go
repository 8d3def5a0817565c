package user

// Actor is the authenticated caller of an operation, resolved from the access token.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// RequireAdmin returns ErrAdminPrivilegeRequired unless the actor is an admin.
func (a Actor) RequireAdmin() error {
	if !a.IsAdmin {
		return ErrAdminPrivilegeRequired
	}
	return nil
}

// CanAccess reports whether the actor may read or act on data owned by userID.
func (a Actor) CanAccess(userID string) bool {
	return a.IsAdmin || a.UserID == userID
}

// RequireAccess returns ErrForbiddenUser when the actor may not act on userID's data.
func (a Actor) RequireAccess(userID string) error {
	if !a.CanAccess(userID) {
		return ErrForbiddenUser
	}
	return nil
}

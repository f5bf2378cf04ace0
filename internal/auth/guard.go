package auth

import "todo-backend/internal/domain"

// CheckOwner fails with domain.ErrForbidden unless the owner named in the
// request path is exactly the authenticated subject.
func CheckOwner(pathOwnerID, authenticatedID string) error {
	if pathOwnerID == "" || pathOwnerID != authenticatedID {
		return domain.ErrForbidden
	}
	return nil
}

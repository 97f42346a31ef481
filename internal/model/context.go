package model

import "context"

// Principal is the authenticated caller of an API request.
type Principal struct {
	UserID string
	Admin  bool
}

// CanAccess reports whether the principal may read or modify records of userID.
func (p Principal) CanAccess(userID string) bool {
	return p.Admin || (p.UserID != "" && p.UserID == userID)
}

type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}

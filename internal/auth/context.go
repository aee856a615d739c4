package auth

import (
	"context"

	"github.com/dukerupert/choreweek/internal/model"
)

type contextKey struct{}

// AuthContext is what RequireAuth resolves a session cookie into.
type AuthContext struct {
	UserID    int64
	Role      string
	MemberID  *int64
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// MemberID returns the household member linked to the caller, if any.
func MemberID(ctx context.Context) (int64, bool) {
	ac, ok := FromContext(ctx)
	if !ok || ac.MemberID == nil {
		return 0, false
	}
	return *ac.MemberID, true
}

func IsAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == model.RoleAdmin
}

// CanActForMember reports whether the caller may modify assignments that
// belong to memberID.
func CanActForMember(ctx context.Context, memberID int64) bool {
	if IsAdmin(ctx) {
		return true
	}
	own, ok := MemberID(ctx)
	return ok && own == memberID
}

package internal

import (
	"context"
	"strings"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated principal attached to every protected request.
type User struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
	CompanyID *int64  `json:"company_id,omitempty"`
}

func (u *User) HasCompany() bool {
	return u != nil && u.CompanyID != nil && *u.CompanyID > 0
}

// TenantID returns the caller's company id, or 0 for a user without a company.
func (u *User) TenantID() int64 {
	if !u.HasCompany() {
		return 0
	}
	return *u.CompanyID
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(ContextUserKey).(*User)
	return user, ok && user != nil
}

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

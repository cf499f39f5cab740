package user

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a user account.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
	StatusDeleted   Status = "deleted"
)

// ParseStatus converts a string to a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusActive, StatusInactive, StatusSuspended, StatusPending, StatusDeleted:
		return Status(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown user status: %s", s)
	}
}

// Role grants a set of permissions to a user.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole converts a string to a Role, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(s)) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// MaxFailedLoginAttempts is the number of consecutive failed logins that
// triggers a timed account lockout.
const MaxFailedLoginAttempts = 5

// User lives in the tenant's isolated database; email and phone number are
// unique within that store only, not across tenants.
type User struct {
	ID                  string     `bson:"_id" json:"id"`
	FirstName           string     `bson:"first_name" json:"first_name"`
	LastName            string     `bson:"last_name" json:"last_name"`
	TenantName          string     `bson:"tenant_name" json:"tenant_name"`
	Email               string     `bson:"email" json:"email"`
	PhoneNumber         string     `bson:"phone_number" json:"phone_number"`
	PasswordHash        string     `bson:"password_hash" json:"-"`
	Status              Status     `bson:"status" json:"status"`
	Roles               []Role     `bson:"roles" json:"roles"`
	CreatedAt           time.Time  `bson:"created_at" json:"created_at"`
	CreatedBy           string     `bson:"created_by" json:"created_by"`
	UpdatedAt           *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy           string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	LastLoginAt         *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	FailedLoginAttempts int        `bson:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `bson:"locked_until,omitempty" json:"-"`
	PasswordChangedAt   time.Time  `bson:"password_changed_at" json:"-"`
	MustChangePassword  bool       `bson:"must_change_password" json:"must_change_password"`
	VerificationToken   string     `bson:"verification_token,omitempty" json:"-"`
	VerificationExpires *time.Time `bson:"verification_expires,omitempty" json:"-"`
	EmailVerified       bool       `bson:"email_verified" json:"email_verified"`
}

// IsLocked reports whether the account is currently in a lockout window.
// A locked account rejects authentication regardless of credential
// correctness until the window passes.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && u.LockedUntil.After(time.Now())
}

// ShouldLock reports whether the failure counter has reached the lockout
// threshold.
func (u *User) ShouldLock() bool {
	return u.FailedLoginAttempts >= MaxFailedLoginAttempts
}

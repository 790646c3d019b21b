package user

import (
	"fmt"
	"strings"
	"time"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string
	Email    string
	Username string
	Role     Role
}

func (p Principal) Can(action Action) bool {
	return CanPerform(p.Role, action)
}

// User is a registered player. Optional profile fields are nil when absent.
type User struct {
	ID           string
	Username     string
	Email        string
	Role         Role
	DisplayName  *string
	FavoriteTeam *string
	Country      *string
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

// Label is the display name when present, the username otherwise.
func (u User) Label() string {
	if u.DisplayName != nil {
		return *u.DisplayName
	}
	return u.Username
}

// Profile holds the user-editable optional fields.
type Profile struct {
	DisplayName  *string
	FavoriteTeam *string
	Country      *string
	Bio          *string
}

// Normalize applies NormalizeOptional to every field.
func (p Profile) Normalize() Profile {
	return Profile{
		DisplayName:  NormalizeOptional(p.DisplayName),
		FavoriteTeam: NormalizeOptional(p.FavoriteTeam),
		Country:      NormalizeOptional(p.Country),
		Bio:          NormalizeOptional(p.Bio),
	}
}

// NormalizeOptional trims the value and treats a blank string as absent.
func NormalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Identity is what the token verifier knows about a user.
type Identity struct {
	ID       string
	Username string
	Email    string
	Role     Role
}

func IdentityFromPrincipal(p Principal) Identity {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		username = p.UserID
		if at := strings.IndexByte(p.Email, '@'); at > 0 {
			username = p.Email[:at]
		}
	}
	return Identity{ID: p.UserID, Username: username, Email: p.Email, Role: p.Role}
}

package participant

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDuplicateName = errors.New("participant name already exists")

// Participant is one entrant of a race, e.g. a driver.
type Participant struct {
	ID        string
	Name      string
	Team      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Participant) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("participant id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("participant name is required")
	}
	return nil
}

// NameKey is the lookup key for case-insensitive name resolution.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

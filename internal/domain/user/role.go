package user

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New("invalid user role")

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RolePlayer Role = "PLAYER"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RolePlayer:
		return RolePlayer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

// Action names one guarded operation.
type Action string

const (
	ActionReadRaces          Action = "race:read"
	ActionReadParticipants   Action = "participant:read"
	ActionReadLeaderboard    Action = "leaderboard:read"
	ActionManageProfile      Action = "profile:manage"
	ActionSubmitTip          Action = "tip:submit"
	ActionReadAnyTip         Action = "tip:read_any"
	ActionManageRaces        Action = "race:manage"
	ActionCloseRace          Action = "race:close"
	ActionManageParticipants Action = "participant:manage"
)

var permissions = map[Action]map[Role]bool{
	ActionReadRaces:          {RoleAdmin: true, RolePlayer: true},
	ActionReadParticipants:   {RoleAdmin: true, RolePlayer: true},
	ActionReadLeaderboard:    {RoleAdmin: true, RolePlayer: true},
	ActionManageProfile:      {RoleAdmin: true, RolePlayer: true},
	ActionSubmitTip:          {RoleAdmin: true, RolePlayer: true},
	ActionReadAnyTip:         {RoleAdmin: true},
	ActionManageRaces:        {RoleAdmin: true},
	ActionCloseRace:          {RoleAdmin: true},
	ActionManageParticipants: {RoleAdmin: true},
}

// CanPerform is the authorization predicate. Unknown roles and actions are denied.
func CanPerform(role Role, action Action) bool {
	return permissions[action][role]
}

package user

import (
	"errors"
	"testing"
)

func TestCanPerform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action Action
		admin  bool
		player bool
	}{
		{ActionReadRaces, true, true},
		{ActionReadParticipants, true, true},
		{ActionReadLeaderboard, true, true},
		{ActionManageProfile, true, true},
		{ActionSubmitTip, true, true},
		{ActionReadAnyTip, true, false},
		{ActionManageRaces, true, false},
		{ActionCloseRace, true, false},
		{ActionManageParticipants, true, false},
		{Action("race:delete_everything"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			t.Parallel()

			if got := CanPerform(RoleAdmin, tt.action); got != tt.admin {
				t.Fatalf("admin %s: want %v got %v", tt.action, tt.admin, got)
			}
			if got := CanPerform(RolePlayer, tt.action); got != tt.player {
				t.Fatalf("player %s: want %v got %v", tt.action, tt.player, got)
			}
			if CanPerform(Role("GUEST"), tt.action) {
				t.Fatalf("unknown role must be denied %s", tt.action)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Role{"admin": RoleAdmin, " Player ": RolePlayer, "ADMIN": RoleAdmin} {
		got, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("parse role %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse role %q: want %s got %s", raw, want, got)
		}
	}

	if _, err := ParseRole("root"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

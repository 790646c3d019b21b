package memory

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	"github.com/riskibarqy/race-tipping/internal/domain/race"
)

//go:embed roster.yaml
var defaultRoster []byte

// Seed is the reference data loaded into in-memory storage.
type Seed struct {
	Season       int               `yaml:"season"`
	Participants []seedParticipant `yaml:"participants"`
	Races        []seedRace        `yaml:"races"`
}

type seedParticipant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Team string `yaml:"team"`
}

type seedRace struct {
	ID    string    `yaml:"id"`
	Name  string    `yaml:"name"`
	Date  time.Time `yaml:"date"`
	Track string    `yaml:"track"`
}

// LoadSeed reads a roster file, or the embedded default when path is empty.
func LoadSeed(path string) (Seed, error) {
	raw := defaultRoster
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Seed{}, fmt.Errorf("read roster seed %s: %w", path, err)
		}
		raw = data
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode roster seed: %w", err)
	}
	return seed, nil
}

func (s Seed) ParticipantList(now time.Time) ([]participant.Participant, error) {
	out := make([]participant.Participant, 0, len(s.Participants))
	names := make(map[string]struct{}, len(s.Participants))
	for _, item := range s.Participants {
		p := participant.Participant{
			ID:        item.ID,
			Name:      strings.TrimSpace(item.Name),
			Team:      strings.TrimSpace(item.Team),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed participant %q: %w", item.ID, err)
		}
		key := participant.NameKey(p.Name)
		if _, dup := names[key]; dup {
			return nil, fmt.Errorf("seed participant %q: %w", p.Name, participant.ErrDuplicateName)
		}
		names[key] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func (s Seed) RaceList(now time.Time) ([]race.Race, error) {
	out := make([]race.Race, 0, len(s.Races))
	for _, item := range s.Races {
		r := race.Race{
			ID:        item.ID,
			Name:      strings.TrimSpace(item.Name),
			Date:      item.Date.UTC(),
			Track:     strings.TrimSpace(item.Track),
			Status:    race.StatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("seed race %q: %w", item.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

package httpapi

import (
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/leaderboard"
	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/user"
	"github.com/riskibarqy/race-tipping/internal/usecase"
)

type participantRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Team string `json:"team" validate:"omitempty,max=100"`
}

type raceRequest struct {
	Name    string    `json:"name" validate:"required,max=150"`
	Date    time.Time `json:"date"`
	Track   string    `json:"track" validate:"omitempty,max=150"`
	Weather string    `json:"weather" validate:"omitempty,max=100"`
	Tyres   string    `json:"tyres" validate:"omitempty,max=100"`
	Status  string    `json:"status" validate:"omitempty,max=20"`
}

type raceResultsRequest struct {
	ResultsOrder []string `json:"results_order"`
}

type submitTipRequest struct {
	Order             []string   `json:"order"`
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

type updateProfileRequest struct {
	DisplayName  *string `json:"display_name" validate:"omitempty,max=100"`
	FavoriteTeam *string `json:"favorite_team" validate:"omitempty,max=100"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	Bio          *string `json:"bio" validate:"omitempty,max=1000"`
}

type warmLeaderboardRequest struct {
	RaceID string `json:"race_id"`
}

type participantDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Team      string    `json:"team,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type raceDTO struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Date         time.Time  `json:"date"`
	Track        string     `json:"track,omitempty"`
	Weather      string     `json:"weather,omitempty"`
	Tyres        string     `json:"tyres,omitempty"`
	Status       string     `json:"status"`
	ResultsOrder []string   `json:"results_order,omitempty"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type raceResultsDTO struct {
	RaceID       string   `json:"race_id"`
	Status       string   `json:"status"`
	ResultsOrder []string `json:"results_order"`
}

type tipDTO struct {
	UserID    string    `json:"user_id"`
	RaceID    string    `json:"race_id"`
	Order     []string  `json:"order"`
	UpdatedAt time.Time `json:"updated_at"`
}

type leaderboardEntryDTO struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Points      int    `json:"points"`
}

type profileDTO struct {
	UserID       string  `json:"user_id"`
	Username     string  `json:"username"`
	Email        string  `json:"email,omitempty"`
	Role         string  `json:"role"`
	DisplayName  *string `json:"display_name,omitempty"`
	FavoriteTeam *string `json:"favorite_team,omitempty"`
	Country      *string `json:"country,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Points       *int    `json:"points,omitempty"`
}

type userPointsDTO struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

type warmLeaderboardDTO struct {
	RaceID  string `json:"race_id,omitempty"`
	Entries int    `json:"entries"`
}

func toParticipantDTO(item participant.Participant) participantDTO {
	return participantDTO{
		ID:        item.ID,
		Name:      item.Name,
		Team:      item.Team,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toParticipantDTOs(items []participant.Participant) []participantDTO {
	out := make([]participantDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toParticipantDTO(item))
	}
	return out
}

func toRaceDTO(item race.Race) raceDTO {
	return raceDTO{
		ID:        item.ID,
		Name:      item.Name,
		Date:      item.Date,
		Track:     item.Track,
		Weather:   item.Weather,
		Tyres:     item.Tyres,
		Status:    item.Status.WireName(),
		ClosedAt:  item.ClosedAt,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toRaceDTOs(items []race.Race) []raceDTO {
	out := make([]raceDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toRaceDTO(item))
	}
	return out
}

func toRaceResultsDTO(results usecase.RaceResults) raceResultsDTO {
	names := results.Names
	if names == nil {
		names = []string{}
	}
	return raceResultsDTO{
		RaceID:       results.Race.ID,
		Status:       results.Race.Status.WireName(),
		ResultsOrder: names,
	}
}

func toTipDTO(view usecase.TipView) tipDTO {
	order := view.Names
	if order == nil {
		order = []string{}
	}
	return tipDTO{
		UserID:    view.UserID,
		RaceID:    view.RaceID,
		Order:     order,
		UpdatedAt: view.UpdatedAt,
	}
}

func toTipDTOs(views []usecase.TipView) []tipDTO {
	out := make([]tipDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toTipDTO(view))
	}
	return out
}

func toLeaderboardDTOs(entries []leaderboard.Entry) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboardEntryDTO{
			Rank:        entry.Rank,
			UserID:      entry.UserID,
			Username:    entry.Username,
			DisplayName: entry.DisplayName,
			Points:      entry.Points,
		})
	}
	return out
}

func toProfileDTO(item user.User, points *int) profileDTO {
	return profileDTO{
		UserID:       item.ID,
		Username:     item.Username,
		Email:        item.Email,
		Role:         string(item.Role),
		DisplayName:  item.DisplayName,
		FavoriteTeam: item.FavoriteTeam,
		Country:      item.Country,
		Bio:          item.Bio,
		Points:       points,
	}
}

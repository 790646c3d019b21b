package race

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidStatus     = errors.New("invalid race status")
	ErrInvalidTransition = errors.New("invalid race status transition")
	ErrAlreadyClosed     = errors.New("race already closed")
)

// Status is the lifecycle stage of a race. Stages only move forward.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusTippable Status = "TIPPABLE"
	StatusClosed   Status = "CLOSED"
)

// statusByName is the single mapping from every accepted spelling to a status.
// "voting" is the client-facing name of TIPPABLE.
var statusByName = map[string]Status{
	"open":     StatusOpen,
	"tippable": StatusTippable,
	"voting":   StatusTippable,
	"closed":   StatusClosed,
}

var wireNames = map[Status]string{
	StatusOpen:     "open",
	StatusTippable: "voting",
	StatusClosed:   "closed",
}

var stageOrder = map[Status]int{
	StatusOpen:     0,
	StatusTippable: 1,
	StatusClosed:   2,
}

func ParseStatus(raw string) (Status, error) {
	status, ok := statusByName[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// WireName is the spelling exposed to API clients.
func (s Status) WireName() string {
	if name, ok := wireNames[s]; ok {
		return name
	}
	return strings.ToLower(string(s))
}

// CanTransition reports whether from -> to moves strictly forward.
func CanTransition(from, to Status) bool {
	fromStage, okFrom := stageOrder[from]
	toStage, okTo := stageOrder[to]
	return okFrom && okTo && toStage > fromStage
}

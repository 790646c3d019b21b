package participant

import "context"

// Repository describes roster persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Participant, error)
	GetByID(ctx context.Context, participantID string) (Participant, bool, error)
	// ListByNames matches names case-insensitively; unknown names are simply absent from the result.
	ListByNames(ctx context.Context, names []string) ([]Participant, error)
	ListByIDs(ctx context.Context, participantIDs []string) ([]Participant, error)
	Create(ctx context.Context, item Participant) error
	Update(ctx context.Context, item Participant) error
	Delete(ctx context.Context, participantID string) error
}

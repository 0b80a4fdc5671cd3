package identity

import "context"

type Repository interface {
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
}

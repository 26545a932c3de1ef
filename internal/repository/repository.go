package repository

import (
	"context"
	"errors"

	"github.com/fathima-sithara/person-service/internal/domain"
)

var (
	ErrNotFound      = errors.New("person not found")
	ErrDuplicateName = errors.New("name must be unique")
	ErrReadOnly      = errors.New("person source is read-only")
)

// PersonRepository is the backing store behind the GraphQL resolvers.
type PersonRepository interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, filter domain.PhoneFilter) ([]*domain.Person, error)
	FindByName(ctx context.Context, name string) (*domain.Person, error)
	Insert(ctx context.Context, p *domain.Person) error
	UpdatePhone(ctx context.Context, name, phone string) (*domain.Person, error)
}

func filterPersons(in []*domain.Person, filter domain.PhoneFilter) []*domain.Person {
	out := make([]*domain.Person, 0, len(in))
	for _, p := range in {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

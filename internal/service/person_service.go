package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fathima-sithara/person-service/internal/domain"
	"github.com/fathima-sithara/person-service/internal/repository"
	"github.com/fathima-sithara/person-service/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidFilter = errors.New("invalid phone filter")

type EventPublisher interface {
	PublishPersonCreated(ctx context.Context, p *domain.Person) error
	PublishPhoneUpdated(ctx context.Context, p *domain.Person) error
}

type PersonService struct {
	repo  repository.PersonRepository
	pub   EventPublisher
	log   *zap.Logger
	newID func() string
}

func NewPersonService(repo repository.PersonRepository, pub EventPublisher, logger *zap.Logger) *PersonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{
		repo:  repo,
		pub:   pub,
		log:   logger,
		newID: uuid.NewString,
	}
}

func (s *PersonService) PersonCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *PersonService) AllPersons(ctx context.Context, filter domain.PhoneFilter) ([]*domain.Person, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
	}
	return s.repo.List(ctx, filter)
}

// FindPerson returns nil without error when no person has that name.
func (s *PersonService) FindPerson(ctx context.Context, name string) (*domain.Person, error) {
	p, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// AddPerson validates the request, assigns a fresh id and stores the person.
// A taken name yields repository.ErrDuplicateName even when the request would
// also fail validation; bad fields yield *validation.Error.
func (s *PersonService) AddPerson(ctx context.Context, req domain.AddPersonRequest) (*domain.Person, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, repository.ErrDuplicateName
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p := &domain.Person{
		ID:     s.newID(),
		Name:   req.Name,
		Street: req.Street,
		City:   req.City,
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("person added", zap.String("id", p.ID), zap.String("name", p.Name))

	if err := s.pub.PublishPersonCreated(ctx, p); err != nil {
		s.log.Warn("publish person.created failed", zap.String("id", p.ID), zap.Error(err))
	}
	return p, nil
}

// EditNumber returns nil without error when no person has that name.
func (s *PersonService) EditNumber(ctx context.Context, req domain.EditNumberRequest) (*domain.Person, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.repo.UpdatePhone(ctx, req.Name, req.Phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("person phone updated", zap.String("id", p.ID), zap.String("name", p.Name))

	if err := s.pub.PublishPhoneUpdated(ctx, p); err != nil {
		s.log.Warn("publish person.phone_updated failed", zap.String("id", p.ID), zap.Error(err))
	}
	return p, nil
}

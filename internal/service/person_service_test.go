package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fathima-sithara/person-service/internal/domain"
	"github.com/fathima-sithara/person-service/internal/repository"
	"github.com/fathima-sithara/person-service/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	created []*domain.Person
	updated []*domain.Person
	err     error
}

func (p *recordingPublisher) PublishPersonCreated(ctx context.Context, person *domain.Person) error {
	p.created = append(p.created, person)
	return p.err
}

func (p *recordingPublisher) PublishPhoneUpdated(ctx context.Context, person *domain.Person) error {
	p.updated = append(p.updated, person)
	return p.err
}

func newTestService() (*PersonService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewPersonService(repository.NewMemoryPersonRepo(domain.Seed()), pub, nil)
	svc.newID = func() string { return "fixed-id" }
	return svc, pub
}

func strPtr(s string) *string { return &s }

func TestAllPersonsFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	yes, err := svc.AllPersons(ctx, domain.PhoneYes)
	require.NoError(t, err)
	for _, p := range yes {
		assert.NotEmpty(t, p.Phone)
	}
	assert.Len(t, yes, 2)

	no, err := svc.AllPersons(ctx, domain.PhoneNo)
	require.NoError(t, err)
	require.Len(t, no, 1)
	assert.Equal(t, "Itzi", no[0].Name)

	_, err = svc.AllPersons(ctx, domain.PhoneFilter("MAYBE"))
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestFindPersonMissingIsNil(t *testing.T) {
	svc, _ := newTestService()
	p, err := svc.FindPerson(context.Background(), "Nobody")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestAddPerson(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	p, err := svc.AddPerson(ctx, domain.AddPersonRequest{
		Name:   "Carlos",
		Phone:  strPtr("91-5551234"),
		Street: "Gran Via",
		City:   "Madrid",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", p.ID)
	assert.Equal(t, domain.Address{Street: "Gran Via", City: "Madrid"}, p.Address())

	n, err := svc.PersonCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.Len(t, pub.created, 1)
	assert.Equal(t, "Carlos", pub.created[0].Name)
}

func TestAddPersonGeneratesUUID(t *testing.T) {
	svc := NewPersonService(repository.NewMemoryPersonRepo(nil), &recordingPublisher{}, nil)
	a, err := svc.AddPerson(context.Background(), domain.AddPersonRequest{Name: "Carlos", Street: "Gran Via", City: "Madrid"})
	require.NoError(t, err)
	b, err := svc.AddPerson(context.Background(), domain.AddPersonRequest{Name: "Carmen", Street: "Gran Via", City: "Madrid"})
	require.NoError(t, err)
	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddPersonDuplicateLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	_, err := svc.AddPerson(ctx, domain.AddPersonRequest{Name: "Youseff", Street: "Gran Via", City: "Madrid"})
	assert.ErrorIs(t, err, repository.ErrDuplicateName)

	n, _ := svc.PersonCount(ctx)
	assert.Equal(t, 3, n)
	assert.Empty(t, pub.created)
}

func TestAddPersonShortSeededNameIsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	for _, name := range []string{"Midu", "Itzi"} {
		_, err := svc.AddPerson(ctx, domain.AddPersonRequest{Name: name, Street: "Gran Via", City: "Madrid"})
		assert.ErrorIs(t, err, repository.ErrDuplicateName, name)
		var ve *validation.Error
		assert.False(t, errors.As(err, &ve), name)
	}

	n, _ := svc.PersonCount(ctx)
	assert.Equal(t, 3, n)
	assert.Empty(t, pub.created)
}

func TestAddPersonValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.AddPerson(ctx, domain.AddPersonRequest{Name: "Ana", Street: "Gran Via", City: "Madrid"})
	var ve *validation.Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Fields[0].Field)

	n, _ := svc.PersonCount(ctx)
	assert.Equal(t, 3, n)
}

func TestAddPersonPublishFailureIsIgnored(t *testing.T) {
	svc, pub := newTestService()
	pub.err = errors.New("broker down")

	p, err := svc.AddPerson(context.Background(), domain.AddPersonRequest{Name: "Carlos", Street: "Gran Via", City: "Madrid"})
	require.NoError(t, err)
	assert.Equal(t, "Carlos", p.Name)
}

func TestEditNumber(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	before, err := svc.FindPerson(ctx, "Itzi")
	require.NoError(t, err)

	p, err := svc.EditNumber(ctx, domain.EditNumberRequest{Name: "Itzi", Phone: "971-123456"})
	require.NoError(t, err)
	assert.Equal(t, "971-123456", p.Phone)
	assert.Equal(t, before.Name, p.Name)
	assert.Equal(t, before.Street, p.Street)
	assert.Equal(t, before.City, p.City)
	assert.Equal(t, before.ID, p.ID)
	require.Len(t, pub.updated, 1)
}

func TestEditNumberMissingIsNil(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	p, err := svc.EditNumber(ctx, domain.EditNumberRequest{Name: "Nobody", Phone: "12"})
	assert.NoError(t, err)
	assert.Nil(t, p)

	n, _ := svc.PersonCount(ctx)
	assert.Equal(t, 3, n)
	assert.Empty(t, pub.updated)
}

func TestEditNumberValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.EditNumber(ctx, domain.EditNumberRequest{Name: "Midu", Phone: "12"})
	var ve *validation.Error
	require.True(t, errors.As(err, &ve))

	p, _ := svc.FindPerson(ctx, "Midu")
	assert.Equal(t, "034-1234567", p.Phone)
}

func TestReadOnlySourceSurfacesError(t *testing.T) {
	svc := NewPersonService(readOnlyRepo{repository.NewMemoryPersonRepo(domain.Seed())}, &recordingPublisher{}, nil)
	_, err := svc.AddPerson(context.Background(), domain.AddPersonRequest{Name: "Carlos", Street: "Gran Via", City: "Madrid"})
	assert.ErrorIs(t, err, repository.ErrReadOnly)
}

type readOnlyRepo struct {
	repository.PersonRepository
}

func (readOnlyRepo) Insert(ctx context.Context, p *domain.Person) error {
	return repository.ErrReadOnly
}

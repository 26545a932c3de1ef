package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/fathima-sithara/person-service/internal/domain"
	"github.com/fathima-sithara/person-service/internal/service"
)

// Resolver is the root resolver for both Query and Mutation fields.
type Resolver struct {
	svc *service.PersonService
	log *zap.Logger
}

func (r *Resolver) PersonCount(ctx context.Context) (int32, error) {
	n, err := r.svc.PersonCount(ctx)
	if err != nil {
		return 0, r.internal("personCount", err)
	}
	return int32(n), nil
}

func (r *Resolver) AllPersons(ctx context.Context, args struct{ Phone *string }) ([]*personResolver, error) {
	filter := domain.PhoneAny
	if args.Phone != nil {
		filter = domain.PhoneFilter(*args.Phone)
	}
	persons, err := r.svc.AllPersons(ctx, filter)
	if err != nil {
		return nil, r.internal("allPersons", err)
	}
	out := make([]*personResolver, len(persons))
	for i, p := range persons {
		out[i] = &personResolver{p: p}
	}
	return out, nil
}

func (r *Resolver) FindPerson(ctx context.Context, args struct{ Name string }) (*personResolver, error) {
	p, err := r.svc.FindPerson(ctx, args.Name)
	if err != nil {
		return nil, r.internal("findPerson", err)
	}
	return newPersonResolver(p), nil
}

type addPersonArgs struct {
	Name   string
	Phone  *string
	Street string
	City   string
}

func (r *Resolver) AddPerson(ctx context.Context, args addPersonArgs) (*personResolver, error) {
	p, err := r.svc.AddPerson(ctx, domain.AddPersonRequest{
		Name:   args.Name,
		Phone:  args.Phone,
		Street: args.Street,
		City:   args.City,
	})
	if err != nil {
		invalid := map[string]interface{}{
			"name":   args.Name,
			"street": args.Street,
			"city":   args.City,
		}
		if args.Phone != nil {
			invalid["phone"] = *args.Phone
		}
		return nil, r.mutationError("addPerson", err, args.Name, invalid)
	}
	return newPersonResolver(p), nil
}

type editNumberArgs struct {
	Name  string
	Phone string
}

func (r *Resolver) EditNumber(ctx context.Context, args editNumberArgs) (*personResolver, error) {
	p, err := r.svc.EditNumber(ctx, domain.EditNumberRequest{Name: args.Name, Phone: args.Phone})
	if err != nil {
		invalid := map[string]interface{}{"name": args.Name, "phone": args.Phone}
		return nil, r.mutationError("editNumber", err, args.Name, invalid)
	}
	return newPersonResolver(p), nil
}

type personResolver struct {
	p *domain.Person
}

func newPersonResolver(p *domain.Person) *personResolver {
	if p == nil {
		return nil
	}
	return &personResolver{p: p}
}

func (r *personResolver) ID() graphql.ID { return graphql.ID(r.p.ID) }
func (r *personResolver) Name() string   { return r.p.Name }

func (r *personResolver) Phone() *string {
	if !r.p.HasPhone() {
		return nil
	}
	phone := r.p.Phone
	return &phone
}

func (r *personResolver) Address() *addressResolver {
	return &addressResolver{a: r.p.Address()}
}

type addressResolver struct {
	a domain.Address
}

func (r *addressResolver) Street() string { return r.a.Street }
func (r *addressResolver) City() string   { return r.a.City }

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fathima-sithara/person-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPersonRepo struct {
	col *mongo.Collection
}

func NewMongoPersonRepo(db *mongo.Database, collection string) PersonRepository {
	return &mongoPersonRepo{col: db.Collection(collection)}
}

// EnsurePersonIndexes creates the unique indexes the store relies on for
// name uniqueness.
func EnsurePersonIndexes(ctx context.Context, db *mongo.Database, collection string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := db.Collection(collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("person_name_unique"),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("person_id_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("create person indexes: %w", err)
	}
	return nil
}

func phoneQuery(filter domain.PhoneFilter) bson.M {
	switch filter {
	case domain.PhoneYes:
		return bson.M{"phone": bson.M{"$nin": bson.A{nil, ""}}}
	case domain.PhoneNo:
		return bson.M{"phone": bson.M{"$in": bson.A{nil, ""}}}
	default:
		return bson.M{}
	}
}

func (r *mongoPersonRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *mongoPersonRepo) List(ctx context.Context, filter domain.PhoneFilter) ([]*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := r.col.Find(ctx, phoneQuery(filter))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*domain.Person{}
	for cur.Next(ctx) {
		var p domain.Person
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoPersonRepo) FindByName(ctx context.Context, name string) (*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var p domain.Person
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *mongoPersonRepo) Insert(ctx context.Context, p *domain.Person) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *mongoPersonRepo) UpdatePhone(ctx context.Context, name, phone string) (*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"phone": phone}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var p domain.Person
	if err := res.Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

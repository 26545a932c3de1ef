// Package graph exposes the person directory as a GraphQL schema.
package graph

import (
	"context"
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/fathima-sithara/person-service/internal/service"
)

//go:embed schema.graphql
var sdl string

// NewSchema parses the person schema and binds it to svc.
func NewSchema(svc *service.PersonService, logger *zap.Logger) (*graphql.Schema, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return graphql.ParseSchema(sdl, &Resolver{svc: svc, log: logger},
		graphql.Logger(panicLogger{log: logger}),
	)
}

type panicLogger struct {
	log *zap.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.log.Error("graphql resolver panic", zap.Any("panic", value), zap.Stack("stack"))
}

// Package graphql serves the feedback API as a GraphQL schema.
package graphql

import (
	_ "embed"
	"log/slog"

	"github.com/SAP-F-2025/feedback-service/internal/services"
	graphqlgo "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaString string

const maxQueryDepth = 8

// NewSchema parses the embedded schema against resolvers backed by the services.
// It panics if the schema and resolvers disagree.
func NewSchema(serviceManager services.ServiceManager, logger *slog.Logger) *graphqlgo.Schema {
	root := &Resolver{
		feedback: serviceManager.Feedback(),
		logger:   logger,
	}
	return graphqlgo.MustParseSchema(schemaString, root,
		graphqlgo.MaxDepth(maxQueryDepth),
	)
}

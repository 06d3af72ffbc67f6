package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphDriver is the narrow surface the core needs from the graph database:
// parameterized queries in, row mappings out. Constraint enforcement and
// persistence belong to the database.
type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}

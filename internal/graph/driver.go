package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// Statement is one parameterized Cypher statement.
type Statement struct {
	Query  string
	Params map[string]any
}

// Driver abstracts the property-graph database. ExecuteBatch runs all
// statements inside a single write transaction, which gives bundle writes
// their atomicity.
type Driver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]*db.Record, error)
	ExecuteBatch(ctx context.Context, stmts []Statement) error
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}

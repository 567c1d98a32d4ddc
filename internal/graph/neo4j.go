package graph

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// Neo4jDriver speaks Bolt to Neo4j or Memgraph.
type Neo4jDriver struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jDriver(uri, username, password string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	log.Printf("Connected to graph store at %s", uri)
	return &Neo4jDriver{driver: driver}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return result.Records, nil
}

// ExecuteBatch runs the statements in one managed write transaction.
func (d *Neo4jDriver) ExecuteBatch(ctx context.Context, stmts []Statement) error {
	session := d.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, stmt := range stmts {
			if _, err := tx.Run(ctx, stmt.Query, stmt.Params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX novel_id IF NOT EXISTS FOR (n:Novel) ON (n.id)",
		"CREATE INDEX chapter_key IF NOT EXISTS FOR (n:Chapter) ON (n.novel_id, n.index)",
		"CREATE INDEX character_key IF NOT EXISTS FOR (n:Character) ON (n.novel_id, n.name)",
		"CREATE INDEX event_key IF NOT EXISTS FOR (n:Event) ON (n.novel_id, n.event_id)",
		"CREATE INDEX location_key IF NOT EXISTS FOR (n:Location) ON (n.novel_id, n.name)",
		"CREATE INDEX emotion_key IF NOT EXISTS FOR (n:Emotion) ON (n.novel_id, n.chapter)",
		"CREATE INDEX state_key IF NOT EXISTS FOR (n:State) ON (n.novel_id, n.character)",
	}
	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			log.Printf("Warning: failed to create index '%s': %v", q, err)
		}
	}
	return nil
}

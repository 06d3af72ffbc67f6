package driver

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jDriver struct {
	Driver neo4j.DriverWithContext
}

// NewNeo4jDriver connects and verifies connectivity. An unreachable database
// is a fatal configuration error; callers are expected to abort startup.
func NewNeo4jDriver(uri, username, password string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, fmt.Errorf("graph database unreachable at %s: %w", uri, err)
	}

	log.Info("connected to Neo4j", "uri", uri)
	return &Neo4jDriver{Driver: driver}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// EnsureSchema creates the uniqueness constraints and the static amenity and
// stay vocabulary nodes. Safe to call repeatedly.
func (d *Neo4jDriver) EnsureSchema(ctx context.Context) error {
	for _, q := range schemaConstraints {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}

	staticNodes := []struct {
		query  string
		params map[string]interface{}
	}{
		{createAmenitiesQuery, map[string]interface{}{"amenities": Amenities}},
		{createStayDurationsQuery, map[string]interface{}{"durations": StayDurations}},
		{createStayTypesQuery, map[string]interface{}{"types": StayTypes}},
	}
	for _, s := range staticNodes {
		if _, err := d.ExecuteQuery(ctx, s.query, s.params); err != nil {
			return fmt.Errorf("failed to create static nodes: %w", err)
		}
	}

	return nil
}

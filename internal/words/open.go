package words

import (
	"context"
	"fmt"
)

// OpenOptions select and locate a Backend.
type OpenOptions struct {
	Driver     string // "sqlite" or "mongo"
	SQLitePath string
	MongoURI   string
	MongoDB    string
	MongoRetry RetryPolicy
}

// Open connects the configured backend and wraps it in a Catalogue.
func Open(ctx context.Context, o OpenOptions) (*Catalogue, error) {
	var (
		b   Backend
		err error
	)
	switch o.Driver {
	case "sqlite", "":
		b, err = OpenSQLite(ctx, o.SQLitePath)
	case "mongo":
		b, err = OpenMongo(ctx, o.MongoURI, o.MongoDB, o.MongoRetry)
	default:
		return nil, fmt.Errorf("unknown store driver %q", o.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s word store: %w", o.Driver, err)
	}
	return NewCatalogue(b), nil
}

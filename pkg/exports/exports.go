// Package exports keeps a history of written output files.
//
// Every time the CLI writes a drawing it appends a [Record]. The history
// answers "what did I export last?" (`pcoview exports last`) and lists
// recent exports.
//
// Two stores are provided: [FileStore] appends JSON lines to a local file,
// and [MongoStore] keeps records in a MongoDB collection so several
// machines can share one history.
package exports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmpty is returned by Last when no export has been recorded.
var ErrEmpty = errors.New("no exports recorded")

// Record describes one written file.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Path      string    `json:"path" bson:"path"`
	Source    string    `json:"source,omitempty" bson:"source,omitempty"`
	Format    string    `json:"format" bson:"format"`
	Points    int       `json:"points" bson:"points"`
	Edges     int       `json:"edges" bson:"edges"`
	Bytes     int       `json:"bytes" bson:"bytes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord stamps a record with a fresh ID and the current time.
func NewRecord(path, source, format string, points, edges, size int) Record {
	return Record{
		ID:        uuid.NewString(),
		Path:      path,
		Source:    source,
		Format:    format,
		Points:    points,
		Edges:     edges,
		Bytes:     size,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists export records.
type Store interface {
	// Add appends a record.
	Add(ctx context.Context, r Record) error

	// Last returns the most recent record, or ErrEmpty.
	Last(ctx context.Context) (Record, error)

	// List returns up to limit records, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close() error
}

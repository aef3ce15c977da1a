package inits

import (
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/previewbox/image_upload_previewer/routines"
)

var DB *memdb.MemDB

// Schema describes the in-memory store: one table of preview bindings and
// one of per-client sessions. Nothing survives a restart.
func Schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"binding": {
				Name: "binding",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:         "id",
						Unique:       true,
						Indexer:      &memdb.StringFieldIndex{Field: "Token"},
						AllowMissing: false,
					},
					"client": {
						Name:         "client",
						Unique:       false,
						Indexer:      &memdb.StringFieldIndex{Field: "Client"},
						AllowMissing: false,
					},
					"expiry": {
						Name:         "expiry",
						Unique:       false,
						Indexer:      &memdb.StringFieldIndex{Field: "Expiry"},
						AllowMissing: false,
					},
				},
			},
			"session": {
				Name: "session",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:         "id",
						Unique:       true,
						Indexer:      &memdb.StringFieldIndex{Field: "Client"},
						AllowMissing: false,
					},
				},
			},
		},
	}
}

func DBInit(sweepInterval time.Duration) {
	db, err := memdb.NewMemDB(Schema())
	if err != nil {
		panic(err)
	}

	go routines.StartCleanupRoutine(db, sweepInterval)
	DB = db
}

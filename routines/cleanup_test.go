package routines_test

import (
	"testing"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/previewbox/image_upload_previewer/inits"
	"github.com/previewbox/image_upload_previewer/models"
	"github.com/previewbox/image_upload_previewer/routines"
)

func seedBinding(t *testing.T, db *memdb.MemDB, token string, ttl time.Duration) {
	t.Helper()
	now := time.Now()
	txn := db.Txn(true)
	defer txn.Abort()
	err := txn.Insert("binding", &models.PreviewBinding{
		Token:       token,
		Client:      "10.0.0.1",
		ContentType: "image/png",
		Content:     []byte{1, 2, 3},
		Time:        now.Format(time.RFC1123),
		Expiry:      now.Add(ttl).Format(time.RFC1123),
	})
	if err != nil {
		t.Fatalf("seeding binding: %v", err)
	}
	txn.Commit()
}

func hasBinding(t *testing.T, db *memdb.MemDB, token string) bool {
	t.Helper()
	txn := db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First("binding", "id", token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	return raw != nil
}

func TestSweep(t *testing.T) {
	db, err := memdb.NewMemDB(inits.Schema())
	if err != nil {
		t.Fatalf("creating db: %v", err)
	}

	seedBinding(t, db, "stale", -time.Minute)
	seedBinding(t, db, "fresh", time.Hour)

	routines.Sweep(db)

	if hasBinding(t, db, "stale") {
		t.Error("expected expired binding to be swept")
	}
	if !hasBinding(t, db, "fresh") {
		t.Error("expected live binding to survive the sweep")
	}
}

func TestSweep_EmptyTable(t *testing.T) {
	db, err := memdb.NewMemDB(inits.Schema())
	if err != nil {
		t.Fatalf("creating db: %v", err)
	}
	routines.Sweep(db)
}

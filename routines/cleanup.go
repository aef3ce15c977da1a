package routines

import (
	"log"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/previewbox/image_upload_previewer/models"
)

// StartCleanupRoutine sweeps expired preview bindings on a fixed interval
// so repeated submissions cannot accumulate dead blobs.
func StartCleanupRoutine(db *memdb.MemDB, interval time.Duration) {
	Sweep(db)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		Sweep(db)
	}
}

// Sweep deletes every binding whose expiry has passed.
func Sweep(db *memdb.MemDB) {
	currentTime := time.Now()

	txn := db.Txn(true)
	defer txn.Abort()

	bindings, err := txn.Get("binding", "expiry")
	if err != nil {
		panic(err)
	}

	for obj := bindings.Next(); obj != nil; obj = bindings.Next() {
		binding := obj.(*models.PreviewBinding)
		expiryTime, err := time.Parse(time.RFC1123, binding.Expiry)
		if err != nil {
			continue
		}

		if expiryTime.Before(currentTime) {
			txn.Delete("binding", obj)
			log.Printf("Revoked expired preview: token=%s", binding.Token)
		}
	}

	txn.Commit()
}

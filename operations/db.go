package operations

import (
	"errors"
	"log"
	"time"

	"github.com/previewbox/image_upload_previewer/inits"
	"github.com/previewbox/image_upload_previewer/models"
)

var (
	// ErrSuperseded means a newer submission from the same client began
	// before this one's response arrived; the response is discarded.
	ErrSuperseded = errors.New("submission superseded by a newer upload")

	ErrBindingNotFound = errors.New("preview binding not found")
)

// BeginSubmission reserves the next submission sequence for a client.
// The sequence decides which in-flight upload owns the visible preview.
func BeginSubmission(client string) (uint64, error) {
	txn := inits.DB.Txn(true)
	defer txn.Abort()

	seq := uint64(1)
	raw, err := txn.First("session", "id", client)
	if err != nil {
		return 0, err
	}
	if raw != nil {
		seq = raw.(*models.Session).LatestSeq + 1
	}

	if err := txn.Insert("session", &models.Session{Client: client, LatestSeq: seq}); err != nil {
		return 0, err
	}

	txn.Commit()
	return seq, nil
}

// InsertBinding commits a binding for the client's submission seq. If a
// newer submission has begun since, the binding is dropped and
// ErrSuperseded returned. The client's previous binding is deleted in the
// same transaction, so at most one binding per client is ever live.
func InsertBinding(binding *models.PreviewBinding, seq uint64) error {
	txn := inits.DB.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("session", "id", binding.Client)
	if err != nil {
		return err
	}
	if raw == nil || raw.(*models.Session).LatestSeq != seq {
		return ErrSuperseded
	}

	old, err := txn.Get("binding", "client", binding.Client)
	if err != nil {
		return err
	}
	for obj := old.Next(); obj != nil; obj = old.Next() {
		if err := txn.Delete("binding", obj); err != nil {
			return err
		}
	}

	if err := txn.Insert("binding", binding); err != nil {
		return err
	}

	txn.Commit()

	log.Printf("Bound preview: client=%s token=%s bytes=%d", binding.Client, binding.Token, len(binding.Content))
	return nil
}

// GetBinding resolves a preview token. Expired bindings are treated as
// absent even before the cleanup routine sweeps them.
func GetBinding(token string) (*models.PreviewBinding, error) {
	txn := inits.DB.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("binding", "id", token)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrBindingNotFound
	}

	binding := raw.(*models.PreviewBinding)
	expiry, err := time.Parse(time.RFC1123, binding.Expiry)
	if err == nil && expiry.Before(time.Now()) {
		return nil, ErrBindingNotFound
	}
	return binding, nil
}

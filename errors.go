package idfkit

import (
	"errors"
	"fmt"

	"github.com/buildsim/idfkit/blobstore"
	"github.com/buildsim/idfkit/resolver"
	"github.com/buildsim/idfkit/schema"
)

var (
	// ErrNotFound is returned when a record type, field, or snapshot is not found.
	ErrNotFound = errors.New("not found")

	// ErrNoSnapshotStore is returned when a snapshot operation is attempted
	// without a configured snapshot store.
	ErrNoSnapshotStore = errors.New("no snapshot store configured")
)

// ErrSchemaRequired indicates a model was built without a schema source.
type ErrSchemaRequired struct {
	cause error
}

func (e *ErrSchemaRequired) Error() string {
	return "schema required: provide SchemaString, SchemaFile, or Schema"
}

func (e *ErrSchemaRequired) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	var tnf *schema.ErrTypeNotFound
	if errors.As(err, &tnf) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var fnf *resolver.ErrFieldNotFound
	if errors.As(err, &fnf) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}

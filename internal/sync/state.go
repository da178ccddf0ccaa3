package sync

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mosaic-market/metadata-sync/internal/logger"
)

// State is the lifecycle state of a synchronization operation. Transitions
// are strictly forward; a failed operation records the stage it failed in
// and never resumes.
type State string

const (
	StateIdle              State = "idle"
	StateSubmitting        State = "submitting"
	StateConfirmed         State = "confirmed"
	StateUploadingAssets   State = "uploading_assets"
	StateUploadingDocument State = "uploading_document"
	StateRecorded          State = "recorded"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Stages an operation can fail in. The stage names the unit of work that
// failed, so callers can tell a chain failure from a store failure.
const (
	StageSubmit          = "submit"
	StageResolveIdentity = "resolve-identity"
	StageUploadAssets    = "upload-assets"
	StageUploadDocument  = "upload-document"
	StageRecord          = "record"
)

// OperationError reports a failed synchronization operation. AssetRefs lists
// content references uploaded before the failure; uploads are never rolled
// back, so callers can reuse them on a retry.
type OperationError struct {
	OperationID string
	Stage       string
	Entity      string
	AssetRefs   []string
	Err         error
}

func (e *OperationError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("operation %s failed at %s for %s: %v", e.OperationID, e.Stage, e.Entity, e.Err)
	}
	return fmt.Sprintf("operation %s failed at %s: %v", e.OperationID, e.Stage, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// operation tracks one synchronization operation through its states
type operation struct {
	id        string
	name      string
	state     State
	entity    string
	assetRefs []string
}

func newOperation(id, name string) *operation {
	return &operation{id: id, name: name, state: StateIdle}
}

// to advances the operation to the next state
func (o *operation) to(next State) {
	logger.Debug("operation state change",
		zap.String("operation", o.name),
		zap.String("operationID", o.id),
		zap.String("from", string(o.state)),
		zap.String("to", string(next)))
	o.state = next
}

// addAssetRef records a successfully uploaded asset reference
func (o *operation) addAssetRef(ref string) {
	o.assetRefs = append(o.assetRefs, ref)
}

// fail marks the operation failed and wraps the cause with its stage
func (o *operation) fail(stage string, err error) *OperationError {
	o.to(StateFailed)
	logger.Error("operation failed",
		zap.String("operation", o.name),
		zap.String("operationID", o.id),
		zap.String("stage", stage),
		zap.String("entity", o.entity),
		zap.Error(err))
	return &OperationError{
		OperationID: o.id,
		Stage:       stage,
		Entity:      o.entity,
		AssetRefs:   o.assetRefs,
		Err:         err,
	}
}

package diagnostics

import (
	"bytes"
	"context"
	"fmt"

	"clarity-backend/internal/shared/storage/object"
)

// Archive copies finished reports to the object store.
type Archive struct {
	Store object.ObjectStore
}

// Save writes payload under reports/<client hash>/<result id>.json and
// returns the key. A nil archive stores nothing.
func (a *Archive) Save(ctx context.Context, clientID, resultID string, payload []byte) (string, error) {
	if a == nil || a.Store == nil {
		return "", nil
	}
	key, err := object.ReportKey(clientID, resultID)
	if err != nil {
		return "", fmt.Errorf("report key: %w", err)
	}
	if _, err := a.Store.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		return "", fmt.Errorf("archive report: %w", err)
	}
	return key, nil
}

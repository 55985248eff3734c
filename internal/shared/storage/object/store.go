package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"clarity-backend/internal/shared/util"
)

// ObjectStore writes and reads blobs by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

var (
	// ErrInvalidKey is returned for keys that escape the store root.
	ErrInvalidKey = errors.New("invalid storage key")
	ErrNotFound   = errors.New("object not found")
)

// ReportKey is the archive location of a report:
// reports/<owner segment>/<result id>.json. The owner segment is a hash of
// the client id, so keys never reveal who a report belongs to.
func ReportKey(clientID, resultID string) (string, error) {
	owner, err := util.OwnerSegment(clientID)
	if err != nil {
		return "", fmt.Errorf("%w: owner", ErrInvalidKey)
	}
	name, err := util.NameSegment(resultID)
	if err != nil {
		return "", fmt.Errorf("%w: name", ErrInvalidKey)
	}
	return path.Join("reports", owner, name+".json"), nil
}

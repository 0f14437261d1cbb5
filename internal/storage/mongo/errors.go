package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"intern_insider/internal/domain"
)

// Server error codes that mean the credential was refused.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
)

// classify converts a driver error into the domain taxonomy. Errors that are
// already typed pass through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrStorage) ||
		errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	if isConnectivity(err) {
		return &domain.ConnectionError{Op: op, Err: err}
	}
	return &domain.StorageError{Op: op, Err: err}
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var sse topology.ServerSelectionError
	if errors.As(err, &sse) {
		return true
	}
	var tce topology.ConnectionError
	if errors.As(err, &tce) {
		return true
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == codeUnauthorized || ce.Code == codeAuthenticationFailed) {
		return true
	}
	return false
}

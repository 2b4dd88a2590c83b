package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwellhq/engagement/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// translateMongoErr maps driver errors onto the shared taxonomy. Logic errors
// (ErrInvalidState, ErrNotFound) raised inside transaction callbacks pass
// through untouched so callers can distinguish them from store failures.
func translateMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrInvalidState) || errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrStoreUnavailable) || errors.Is(err, models.ErrConflictRetryExceeded) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.HasErrorLabel("TransientTransactionError") || cmdErr.HasErrorLabel("UnknownTransactionCommitResult") {
			return fmt.Errorf("%w: %v", models.ErrConflictRetryExceeded, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

// translatePgErr maps GORM errors onto the shared taxonomy.
func translatePgErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

// Package services holds the marketplace rules between the HTTP layer and
// the document store. Each operation issues its store calls sequentially
// and none of them run inside a transaction.
package services

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/pkg/apperr"
)

const (
	msgAlreadyOrdered = "Already ordered this product!"
	msgUserExists     = "User already exists"
	msgEmailRequired  = "Email is required"
	msgInvalidID      = "Invalid id"
)

// Outcome is the result of a create that may be skipped: exactly one of
// Inserted or Skipped is meaningful.
type Outcome struct {
	Inserted models.InsertResult
	Skipped  *models.SoftFailure
}

func applied(res models.InsertResult) Outcome { return Outcome{Inserted: res} }

func skipped(msg string) Outcome {
	sf := models.NotApplied(msg)
	return Outcome{Skipped: &sf}
}

// Body is what the API returns for the outcome.
func (o Outcome) Body() interface{} {
	if o.Skipped != nil {
		return o.Skipped
	}
	return o.Inserted
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(msgInvalidID)
	}
	return id, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(op + ": not found")
	}
	return apperr.Internal(op, err)
}

package models

// The write-result shapes below mirror the acknowledgement documents the
// API has always returned, so existing clients keep working.

type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// SoftFailure reports a write that was not applied but is not an error.
type SoftFailure struct {
	Acknowledged bool   `json:"acknowledged"`
	Message      string `json:"message"`
}

func NotApplied(msg string) SoftFailure { return SoftFailure{Message: msg} }

// VerifyResult reports the two writes of a seller verification.
type VerifyResult struct {
	UserUpdated     int64 `json:"userUpdated"`
	ProductsUpdated int64 `json:"productsUpdated"`
}

// PaymentIntent is returned to the client to confirm a card payment.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}

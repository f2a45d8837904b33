package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a second-hand listing. Verified is a snapshot of the seller's
// verified flag taken at creation, refreshed only by seller verification.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"           json:"_id,omitempty"`
	Name          string             `bson:"name,omitempty"          json:"name,omitempty"`
	Category      string             `bson:"category,omitempty"      json:"category,omitempty"`
	Image         string             `bson:"image,omitempty"         json:"image,omitempty"`
	Description   string             `bson:"description,omitempty"   json:"description,omitempty"`
	Condition     string             `bson:"condition,omitempty"     json:"condition,omitempty"`
	Location      string             `bson:"location,omitempty"      json:"location,omitempty"`
	ResalePrice   Amount             `bson:"resalePrice,omitempty"   json:"resalePrice,omitempty"`
	OriginalPrice Amount             `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	YearsOfUse    Amount             `bson:"yearsOfUse,omitempty"    json:"yearsOfUse,omitempty"`
	SellerName    string             `bson:"sellerName,omitempty"    json:"sellerName,omitempty"`
	SellerEmail   string             `bson:"sellerEmail"             json:"sellerEmail"             validate:"required"`
	Verified      bool               `bson:"verified"                json:"verified"`
	PostedAt      *time.Time         `bson:"postedAt,omitempty"      json:"postedAt,omitempty"`

	Extra bson.M `bson:",inline" json:"-"`
}

type productDoc Product

func (p *Product) UnmarshalJSON(data []byte) error {
	var a productDoc
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	a.Extra = extra
	*p = Product(a)
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(productDoc(p), p.Extra)
}

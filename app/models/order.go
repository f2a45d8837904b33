package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderPending = "Pending"
	OrderPaid    = "Paid"
)

// Order is a buyer's claim on a product. (BuyerEmail, ProductName) is unique.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"           json:"_id,omitempty"`
	BuyerName     string             `bson:"buyerName,omitempty"     json:"buyerName,omitempty"`
	BuyerEmail    string             `bson:"buyerEmail"              json:"buyerEmail"              validate:"required"`
	ProductID     string             `bson:"productId,omitempty"     json:"productId,omitempty"`
	ProductName   string             `bson:"productName"             json:"productName"             validate:"required"`
	Price         Amount             `bson:"price,omitempty"         json:"price,omitempty"`
	Phone         string             `bson:"phone,omitempty"         json:"phone,omitempty"`
	MeetLocation  string             `bson:"meetLocation,omitempty"  json:"meetLocation,omitempty"`
	Image         string             `bson:"image,omitempty"         json:"image,omitempty"`
	Status        string             `bson:"status"                  json:"status"`
	CreatedAt     time.Time          `bson:"createdAt"               json:"createdAt"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`

	Extra bson.M `bson:",inline" json:"-"`
}

type orderDoc Order

func (o *Order) UnmarshalJSON(data []byte) error {
	var a orderDoc
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	a.Extra = extra
	*o = Order(a)
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(orderDoc(o), o.Extra)
}

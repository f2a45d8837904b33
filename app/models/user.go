package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleAdmin = "admin"

// User is a marketplace account. Email is the natural key.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"         json:"_id,omitempty"`
	Name        string             `bson:"name,omitempty"        json:"name,omitempty"`
	Email       string             `bson:"email"                 json:"email"                 validate:"required"`
	Photo       string             `bson:"photo,omitempty"       json:"photo,omitempty"`
	AccountType string             `bson:"accountType,omitempty" json:"accountType,omitempty" validate:"nullable,in=buyer|seller"`
	Verified    bool               `bson:"verified"              json:"verified"`
	Role        string             `bson:"role,omitempty"        json:"role,omitempty"`

	Extra bson.M `bson:",inline" json:"-"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type userDoc User

func (u *User) UnmarshalJSON(data []byte) error {
	var a userDoc
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	a.Extra = extra
	*u = User(a)
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(userDoc(u), u.Extra)
}

package models

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// ErrInvalidID is returned by ParseID for anything that is not a 24-digit
// hex ObjectID.
var ErrInvalidID = errors.New("invalid id")

// ID is an opaque document identifier: the hex form of a MongoDB ObjectID.
// It is stored as an ObjectID in MongoDB and as a plain string column in
// SQL databases.
type ID string

// NewID returns a fresh identifier.
func NewID() ID {
	return ID(primitive.NewObjectID().Hex())
}

// ParseID validates s as an identifier.
func ParseID(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(oid.Hex()), nil
}

func (id ID) String() string { return string(id) }

// ObjectID converts id for use in MongoDB filters.
func (id ID) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(string(id))
}

// MarshalBSONValue stores well-formed ids as ObjectIDs so documents created
// by other clients and by this server share one representation.
func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if oid, err := id.ObjectID(); err == nil {
		return bson.MarshalValue(oid)
	}
	return bson.MarshalValue(string(id))
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	v := bsoncore.Value{Type: t, Data: data}
	switch t {
	case bsontype.ObjectID:
		*id = ID(v.ObjectID().Hex())
	case bsontype.String:
		*id = ID(v.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*id = ""
	default:
		return fmt.Errorf("models: cannot decode %s into ID", t)
	}
	return nil
}

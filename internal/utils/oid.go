package utils

import "go.mongodb.org/mongo-driver/v2/bson"

// Oid parses a hex ObjectID; an empty string is an error.
func Oid(hex string) (bson.ObjectID, error) {
	return bson.ObjectIDFromHex(hex)
}

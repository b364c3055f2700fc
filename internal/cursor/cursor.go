package cursor

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Cursor is the position of the last item of a page (published_at + _id).
type Cursor struct {
	At int64  `json:"at"`
	ID string `json:"id"`
}

// Encode is URL safe so it can travel in ?cursor=.
func Encode(t time.Time, id bson.ObjectID) string {
	b, _ := json.Marshal(Cursor{
		At: t.UnixMilli(),
		ID: id.Hex(),
	})
	return base64.RawURLEncoding.EncodeToString(b)
}

func Decode(s string) (time.Time, bson.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, bson.NilObjectID, err
	}

	var p Cursor
	if err := json.Unmarshal(raw, &p); err != nil {
		return time.Time{}, bson.NilObjectID, err
	}

	oid, err := bson.ObjectIDFromHex(p.ID)
	if err != nil {
		return time.Time{}, bson.NilObjectID, err
	}

	return time.UnixMilli(p.At).UTC(), oid, nil
}

// After builds the keyset filter for the page that follows (t, id) in
// descending order on field.
func After(field string, t time.Time, id bson.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{field: bson.M{"$lt": t}},
		{field: t, "_id": bson.M{"$lt": id}},
	}}
}

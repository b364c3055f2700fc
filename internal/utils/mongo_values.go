package utils

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ExtractTime reads a timestamp that may have been written as a BSON date
// or as an RFC 3339 string.
func ExtractTime(m bson.M, key string) (time.Time, bool) {
	v, ok := m[key]
	if !ok {
		return time.Time{}, false
	}
	switch tv := v.(type) {
	case time.Time:
		return tv, true
	case bson.DateTime:
		return tv.Time(), true
	case string:
		if t, err := time.Parse(time.RFC3339Nano, tv); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, tv); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractString reports ok=false when key is absent or null. Non-string
// scalars are formatted, since older documents stored counts as numbers.
func ExtractString(m bson.M, key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	switch tv := v.(type) {
	case string:
		return tv, true
	case int32, int64, float64, bool:
		return fmt.Sprint(tv), true
	case bson.DateTime:
		return tv.Time().UTC().Format("2006-01-02"), true
	}
	return "", false
}

// ExtractStrings reads an array of strings, skipping non-string members.
func ExtractStrings(m bson.M, key string) []string {
	arr, ok := m[key].(bson.A)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ExtractOID returns the zero id when key is missing or not an ObjectID.
func ExtractOID(m bson.M, key string) bson.ObjectID {
	if id, ok := m[key].(bson.ObjectID); ok {
		return id
	}
	return bson.NilObjectID
}

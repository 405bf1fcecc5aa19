package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time and work as
// both a DynamoDB partition key and a MongoDB _id.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

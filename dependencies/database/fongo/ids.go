package fongo

import (
	"fmt"
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDGenerator returns the _id of a document inserted without one.
type IDGenerator func() any

// ObjectIDs generates primitive.ObjectID values, as a mongod does.
func ObjectIDs() IDGenerator {
	return func() any {
		return primitive.NewObjectID()
	}
}

// UUIDs generates random uuid strings.
func UUIDs() IDGenerator {
	return func() any {
		return uuid.New().String()
	}
}

// SnowflakeIDs generates time ordered int64 ids, node must be in [0, 1023].
func SnowflakeIDs(node int64) (IDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return func() any {
		return n.Generate().Int64()
	}, nil
}

// hostNode the snowflake node number derived from the hostname.
func hostNode() int64 {
	host, err := os.Hostname()
	if err != nil {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	return int64(h.Sum32() % 1024)
}

// parseIDGenerator resolves the id query parameter of a fongo uri.
func parseIDGenerator(kind string) (IDGenerator, error) {
	switch kind {
	case "", "objectid":
		return ObjectIDs(), nil
	case "uuid":
		return UUIDs(), nil
	case "snowflake":
		return SnowflakeIDs(hostNode())
	default:
		return nil, fmt.Errorf("unknown id generator %q, use objectid, uuid or snowflake", kind)
	}
}

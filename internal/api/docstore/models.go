package docstore

import "github.com/tidwall/gjson"

const (
	CollectionOffers     = "offers"
	CollectionProperties = "properties"
)

// Decoded is the outcome of reading one nested record: either a valid
// value or the reason the record was skipped.
type Decoded[T any] struct {
	Value      T
	DocumentID string
	Key        string
	Reason     string
}

func (d Decoded[T]) Valid() bool {
	return d.Reason == ""
}

func valid[T any](documentID, key string, v T) Decoded[T] {
	return Decoded[T]{Value: v, DocumentID: documentID, Key: key}
}

func skipped[T any](documentID, key, reason string) Decoded[T] {
	return Decoded[T]{DocumentID: documentID, Key: key, Reason: reason}
}

// Document is one raw document of a collection. Fields holds the nested
// records keyed by small integer-like strings.
type Document struct {
	ID     string
	Fields gjson.Result
}

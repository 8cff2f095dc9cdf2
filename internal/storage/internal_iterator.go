package storage

// InternalIterator is an interface that allows us to iterate over the records
// of an InMemoryStore in key order. Not safe to use across mutations of the
// underlying store; gather what you need first, then mutate
type InternalIterator interface {
	// Returns true if there's another record available in the iterator
	HasNext() bool

	// Returns the next record in the iterator
	Next() *Record
}

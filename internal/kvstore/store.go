// Package kvstore provides the synchronous string key-value storage the
// record store persists into.
package kvstore

// Store is a synchronous key-value store. Get reports absence with
// ok=false and a nil error; errors are reserved for backend failures.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

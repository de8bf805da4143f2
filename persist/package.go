// Package persist implements stores that keep serialized trees between requests.
//
// Snapshots may be kept in memory, in encrypted files, in a badger database, in an SQL table or in an S3
// bucket. Any store can be wrapped to seal its contents with OpenPGP or to serialize writers per key.
package persist

//go:generate mockgen -destination mock_persist/store.go . Store

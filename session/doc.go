// Package session persists the logged-in user and bearer token between runs.
//
// A Store is a flat string key-value store with the keys "user" (the user
// record as JSON), "token" and "username". The Manager is the only type that
// reads or writes those keys; every mutation is one locked read-modify-write
// cycle on the store.
package session

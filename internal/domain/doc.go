// Package domain defines the fitness tracker entities and the resource services
// that enforce the role gate and ownership policy before touching storage.
//
// Every service call takes the authenticated actor explicitly. Mutations run in a
// single transaction together with the outbox record describing the change.
package domain

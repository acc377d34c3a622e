// Package store defines the persistence interfaces consumed by the
// service layer, together with the sentinel errors every implementation
// must return. Concrete implementations live under platform/postgres.
package store

// Package sqlite exposes the factory for the SQLite record store while
// keeping implementation details internal.
package sqlite

import (
	"github.com/myhead2001/Pornhwa/internal/sqlite"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

// NewStore creates a new SQLite store instance.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".pornhwa-db",
//	})
//	defer store.Detach()
func NewStore() types.Store {
	return sqlite.NewBackend()
}

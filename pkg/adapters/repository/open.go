// Package repository picks a storage backend from a DATABASE_URL.
package repository

import (
	"strings"

	"github.com/murat/gimly/pkg/adapters/repository/boltdb"
	"github.com/murat/gimly/pkg/adapters/repository/memory"
	"github.com/murat/gimly/pkg/adapters/repository/sqlite"
	"github.com/murat/gimly/pkg/ports"
)

const (
	memoryScheme = "memory:"
	boltScheme   = "bolt://"
)

// Open returns the backend for dbURL:
//
//	memory:           in-process map
//	bolt://<path>     embedded bbolt file
//	anything else     SQLite (modernc) or Turso for libsql:// and wss:// URLs
func Open(dbURL string) (ports.LinkRepository, error) {
	switch {
	case strings.HasPrefix(dbURL, memoryScheme):
		return memory.NewMemoryRepository(), nil
	case strings.HasPrefix(dbURL, boltScheme):
		return boltdb.NewBoltRepository(strings.TrimPrefix(dbURL, boltScheme))
	default:
		return sqlite.NewSQLiteRepository(dbURL)
	}
}

package pgsql

import (
	portsrepo "github.com/Voyago/voyago_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the PostgreSQL-backed repository set sharing a
// single connection pool.
func NewRepositoryProvider(db *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		ProfileRepo:    NewProfileRepository(db),
		PreferenceRepo: NewPreferenceRepository(db),
		APITokenRepo:   NewAPITokenRepository(db),
	}
}

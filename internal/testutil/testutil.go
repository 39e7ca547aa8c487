// Package testutil opens throwaway databases with the production schema and seeds fixtures.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"associa_backend/internal/config"
	"associa_backend/internal/database"
	"associa_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var dbCounter atomic.Int64

// NewTestDB returns an in-memory SQLite database with the schema applied.
// Each call gets its own database, closed when the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", dbCounter.Add(1))
	db, err := database.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.ApplySchema(ctx, db, config.DriverSQLite))
	return db
}

// CreateOrganization inserts an active organization and returns its id.
func CreateOrganization(t testing.TB, db *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO associacoes (nome, email, limite_socios, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, fmt.Sprintf("contato%d@%s.org", dbCounter.Add(1), "bairro"), models.DefaultMemberLimit, models.OrganizationActive,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateUser inserts a user whose password is the given plain text.
func CreateUser(t testing.TB, db *sql.DB, organizationID int64, username, password, role string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	var id int64
	err = db.QueryRow(
		`INSERT INTO users (associacao_id, username, password_hash, nome, role) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		organizationID, username, string(hash), "Usuário "+username, role,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateMember inserts a member with the given number and status, using the number as CPF.
func CreateMember(t testing.TB, db *sql.DB, organizationID int64, numero, nome, situacao string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO associados (associacao_id, numero, nome, cpf, situacao, data_entrada) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		organizationID, numero, nome, "000.000.000-"+numero, situacao, "2024-01-15",
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// SetSetting writes a configuration value.
func SetSetting(t testing.TB, db *sql.DB, organizationID int64, key, value string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO configuracoes (associacao_id, chave, valor) VALUES ($1, $2, $3)`, organizationID, key, value)
	require.NoError(t, err)
}

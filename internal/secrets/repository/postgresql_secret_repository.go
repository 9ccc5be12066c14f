package repository

import (
	"database/sql"
	"strconv"
)

const postgresUpsertSecret = `INSERT INTO secrets (secret_name, secret_version, encrypted_secret,
			  encrypted_data_key, encryption_context, authorized_entities, create_date,
			  last_data_key_rotation, deprecated)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (secret_name, secret_version) DO UPDATE SET
			  encrypted_secret = EXCLUDED.encrypted_secret,
			  encrypted_data_key = EXCLUDED.encrypted_data_key,
			  encryption_context = EXCLUDED.encryption_context,
			  authorized_entities = EXCLUDED.authorized_entities,
			  create_date = EXCLUDED.create_date,
			  last_data_key_rotation = EXCLUDED.last_data_key_rotation,
			  deprecated = EXCLUDED.deprecated`

// PostgreSQLSecretRepository implements the secret record store for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	sqlSecretRepository
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB, migrator SchemaMigrator) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{
		sqlSecretRepository: sqlSecretRepository{
			db:       db,
			migrator: migrator,
			dialect: sqlDialect{
				placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
				upsert:      postgresUpsertSecret,
			},
		},
	}
}

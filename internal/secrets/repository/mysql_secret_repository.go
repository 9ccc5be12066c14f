package repository

import (
	"database/sql"
)

const mysqlUpsertSecret = `INSERT INTO secrets (secret_name, secret_version, encrypted_secret,
			  encrypted_data_key, encryption_context, authorized_entities, create_date,
			  last_data_key_rotation, deprecated)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  encrypted_secret = VALUES(encrypted_secret),
			  encrypted_data_key = VALUES(encrypted_data_key),
			  encryption_context = VALUES(encryption_context),
			  authorized_entities = VALUES(authorized_entities),
			  create_date = VALUES(create_date),
			  last_data_key_rotation = VALUES(last_data_key_rotation),
			  deprecated = VALUES(deprecated)`

// MySQLSecretRepository implements the secret record store for MySQL databases.
type MySQLSecretRepository struct {
	sqlSecretRepository
}

// NewMySQLSecretRepository creates a new MySQL secret repository instance.
func NewMySQLSecretRepository(db *sql.DB, migrator SchemaMigrator) *MySQLSecretRepository {
	return &MySQLSecretRepository{
		sqlSecretRepository: sqlSecretRepository{
			db:       db,
			migrator: migrator,
			dialect: sqlDialect{
				placeholder: func(int) string { return "?" },
				upsert:      mysqlUpsertSecret,
			},
		},
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// sqlDialect holds the statement differences between SQL drivers.
type sqlDialect struct {
	placeholder func(n int) string
	upsert      string
}

// sqlSecretRepository implements the record store over database/sql. The table is
// owned by the embedded migrations, so capacity hints do not apply.
type sqlSecretRepository struct {
	db       *sql.DB
	migrator SchemaMigrator
	dialect  sqlDialect
}

// EnsureTable applies the migrations that create the secrets table.
func (r *sqlSecretRepository) EnsureTable(ctx context.Context, _, _ int64) error {
	if err := r.migrator.Up(ctx); err != nil {
		return storeError("ensure table", err)
	}
	return nil
}

// DropTable reverts the migrations, destroying every record.
func (r *sqlSecretRepository) DropTable(ctx context.Context) error {
	if err := r.migrator.Down(ctx); err != nil {
		return storeError("drop table", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *sqlSecretRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeError("ping database", err)
	}
	return nil
}

// Query returns the versions of name, or only the given version when it is non-zero.
func (r *sqlSecretRepository) Query(
	ctx context.Context,
	name string,
	version uint,
	fields ...string,
) ([]secretsDomain.Secret, error) {
	columns := projectFields(fields)

	query := fmt.Sprintf(
		"SELECT %s FROM secrets WHERE secret_name = %s",
		strings.Join(columns, ", "),
		r.dialect.placeholder(1),
	)
	args := []any{name}
	if version > 0 {
		query += " AND secret_version = " + r.dialect.placeholder(2)
		args = append(args, version)
	}
	query += " ORDER BY secret_version"

	return r.selectSecrets(ctx, "query secrets", query, columns, args...)
}

// Scan returns every record in the table.
func (r *sqlSecretRepository) Scan(ctx context.Context, fields ...string) ([]secretsDomain.Secret, error) {
	columns := projectFields(fields)
	query := fmt.Sprintf(
		"SELECT %s FROM secrets ORDER BY secret_name, secret_version",
		strings.Join(columns, ", "),
	)
	return r.selectSecrets(ctx, "scan secrets", query, columns)
}

// Put inserts the record or overwrites the stored one with the same key.
func (r *sqlSecretRepository) Put(ctx context.Context, secret secretsDomain.Secret) error {
	row, err := FromSecret(secret)
	if err != nil {
		return storeError("encode secret", err)
	}

	_, err = r.db.ExecContext(
		ctx,
		r.dialect.upsert,
		row.SecretName,
		row.SecretVersion,
		row.EncryptedSecret,
		row.EncryptedDataKey,
		row.EncryptionContext,
		row.AuthorizedEntities,
		row.CreateDate,
		row.LastDataKeyRotation,
		row.Deprecated,
	)
	if err != nil {
		return storeError("put secret", err)
	}
	return nil
}

// Delete removes the record with the key of secret. Missing records are not an error.
func (r *sqlSecretRepository) Delete(ctx context.Context, secret secretsDomain.Secret) error {
	query := fmt.Sprintf(
		"DELETE FROM secrets WHERE secret_name = %s AND secret_version = %s",
		r.dialect.placeholder(1),
		r.dialect.placeholder(2),
	)
	if _, err := r.db.ExecContext(ctx, query, secret.Name, secret.Version); err != nil {
		return storeError("delete secret", err)
	}
	return nil
}

func (r *sqlSecretRepository) selectSecrets(
	ctx context.Context,
	action string,
	query string,
	columns []string,
	args ...any,
) ([]secretsDomain.Secret, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(action, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var secrets []secretsDomain.Secret
	for rows.Next() {
		var row Row
		if err := rows.Scan(rowTargets(&row, columns)...); err != nil {
			return nil, storeError(action, err)
		}
		secret, err := row.ToSecret()
		if err != nil {
			return nil, storeError(action, err)
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(action, err)
	}

	return secrets, nil
}

package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLStore is a RevocationStore backed by SQLite (single replica) or
// PostgreSQL (shared across replicas). Expiry timestamps are stored as
// unix seconds so both backends behave identically.
type SQLStore struct {
	db     *sql.DB
	dbType DBType
}

var _ RevocationStore = (*SQLStore)(nil)

// NewSQLStore opens the database described by connStr and initializes the
// revocation schema. The backend is chosen from the connection string
// format.
func NewSQLStore(ctx context.Context, connStr string) (*SQLStore, error) {
	dbType, driver, dsn, err := parseConnectionString(connStr)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	configureConnectionPool(db, dbType)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLStore{db: db, dbType: dbType}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS revoked_sessions (
		jti TEXT PRIMARY KEY,
		expires_at BIGINT NOT NULL,
		revoked_at BIGINT NOT NULL
	);`
	if _, err := s.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_revoked_sessions_expires_at ON revoked_sessions(expires_at)`); err != nil {
		return fmt.Errorf("failed to create expiry index: %w", err)
	}

	return nil
}

func (s *SQLStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return errors.New("session ID is required")
	}

	query := fmt.Sprintf(`
	INSERT INTO revoked_sessions (jti, expires_at, revoked_at)
	VALUES (%s, %s, %s)
	ON CONFLICT (jti) DO NOTHING`,
		placeholder(s.dbType, 1), placeholder(s.dbType, 2), placeholder(s.dbType, 3))

	if _, err := s.db.ExecContext(ctx, query, jti, expiresAt.Unix(), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to record revocation: %w", err)
	}

	return nil
}

func (s *SQLStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := fmt.Sprintf(
		`SELECT 1 FROM revoked_sessions WHERE jti = %s AND expires_at > %s`,
		placeholder(s.dbType, 1), placeholder(s.dbType, 2))

	var one int
	err := s.db.QueryRowContext(ctx, query, jti, time.Now().Unix()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query revocation: %w", err)
	}

	return true, nil
}

func (s *SQLStore) PurgeExpired(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM revoked_sessions WHERE expires_at <= %s`, placeholder(s.dbType, 1))
	if _, err := s.db.ExecContext(ctx, query, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to purge expired revocations: %w", err)
	}

	return nil
}

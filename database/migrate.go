package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// recoverableErrors, yarım kalmış bir migration tekrar çalıştırıldığında
// güvenle atlanabilecek hata kalıpları.
var recoverableErrors = []string{
	"duplicate column name",
	"already exists",
}

// Migrate, migrations/ dizinindeki SQL dosyalarını sırayla çalıştırır.
// Dosya isimleri sıralıdır: 001_init.sql, 002_seed.sql, ...
//
// schema_migrations tablosu uygulanmış dosyaları takip eder; sonraki
// başlatmalarda sadece yeni dosyalar çalışır.
func (db *DB) Migrate(ctx context.Context, migrationsFS fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := db.execStatements(ctx, file, string(content)); err != nil {
			return err
		}

		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (filename) VALUES (?)", file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		db.log.Info("migration applied", zap.String("file", file))
	}

	return nil
}

func (db *DB) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate migration rows: %w", err)
	}
	return applied, nil
}

// execStatements, bir migration dosyasını statement-by-statement çalıştırır.
func (db *DB) execStatements(ctx context.Context, filename, content string) error {
	for i, stmt := range splitStatements(content) {
		if _, err := db.Conn.ExecContext(ctx, stmt); err != nil {
			if isRecoverable(err) {
				db.log.Warn("migration statement skipped",
					zap.String("file", filename),
					zap.Int("statement", i+1),
					zap.Error(err),
				)
				continue
			}
			return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
		}
	}
	return nil
}

func isRecoverable(err error) bool {
	msg := err.Error()
	for _, pattern := range recoverableErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// splitStatements, SQL metnini noktalı virgüllerden böler.
// Tek tırnaklı string literal'ler ve "--" satır yorumları dikkate alınır.
func splitStatements(sql string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if !inString && ch == '-' && i+1 < len(sql) && sql[i+1] == '-' {
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		}

		if ch == '\'' {
			if inString && i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteString("''")
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			if s := strings.TrimSpace(current.String()); s != "" {
				statements = append(statements, s)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		statements = append(statements, s)
	}
	return statements
}

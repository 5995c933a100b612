package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, hem *DB hem *Tx tarafından karşılanan interface.
//
// Repository'ler bu interface'i alır. Normal operasyonlarda *DB,
// transaction içinde *Tx geçilir.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx, *sql.Tx'i dialect bilgisiyle saran transaction handle'ı.
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, Rebind(t.dialect, query), args...)
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, Rebind(t.dialect, query), args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, Rebind(t.dialect, query), args...)
}

// WithTx, verilen fonksiyonu bir SQL transaction içinde çalıştırır.
//
//	fn nil dönerse → COMMIT
//	fn error dönerse → ROLLBACK
//	fn panic atarsa → ROLLBACK + panic tekrar fırlatılır
//
// fn içinde sadece verilen tx kullanılmalıdır. In-memory SQLite tek
// bağlantıyla çalıştığı için db'ye doğrudan erişim kilitlenir.
func WithTx(ctx context.Context, db *DB, fn func(tx TxQuerier) error) (err error) {
	sqlTx, err := db.Conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := sqlTx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(&Tx{tx: sqlTx, dialect: db.Dialect})
	return
}

// Package storage implements the persistence layer over SQLite. All
// rows are scoped to the owning user; queries never cross users.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finanzo/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	// Serialize writers; modernc sqlite has no cgo busy handler.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable; readiness checks use it.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

type User struct {
	ID             string
	Email          string
	HashedPassword []byte
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, email string, hashedPassword []byte) (User, error) {
	u := User{ID: uuid.NewString(), Email: email, HashedPassword: hashedPassword}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, hashed_password) VALUES (?, ?, ?)`,
		u.ID, u.Email, u.HashedPassword)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, hashed_password FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.HashedPassword)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, core.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// --- transactions ---

// CreateTransaction persists one record and assigns its id.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Record, error) {
	rec := core.Record{ID: uuid.NewString(), UserID: userID, Transaction: tx}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, date, description, amount_cents, category_id, type, establishment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, userID, tx.Date.String(), tx.Description, tx.Amount.Cents,
		tx.CategoryID, string(tx.Type), tx.Establishment)
	if err != nil {
		return core.Record{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"transaction_id", rec.ID,
		"amount_cents", tx.Amount.Cents,
		"category_id", tx.CategoryID)
	return rec, nil
}

// ListTransactions returns the user's records ordered by date descending,
// newest insertion first within the same date.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount_cents, category_id, type, establishment
		 FROM transactions WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows, userID)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, description, amount_cents, category_id, type, establishment
		 FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	rec, err := scanRecord(row, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, core.ErrNotFound
	}
	return rec, err
}

// DeleteTransaction removes a record permanently. Deletion is terminal;
// there is no soft-delete or undo.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, userID string) (core.Record, error) {
	var (
		rec     core.Record
		dateStr string
		txType  string
	)
	err := row.Scan(&rec.ID, &dateStr, &rec.Description, &rec.Amount.Cents,
		&rec.CategoryID, &txType, &rec.Establishment)
	if err != nil {
		return core.Record{}, err
	}
	rec.UserID = userID
	rec.Type = core.TransactionType(txType)
	rec.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Record{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	return rec, nil
}

// --- goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, target_cents, current_cents, icon)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Icon)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

// ListGoals returns the user's goals in creation order. "First goal"
// semantics elsewhere rely on this ordering.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, icon
		 FROM goals WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &g.Icon); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.UserID = userID
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	var g core.Goal
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_cents, current_cents, icon
		 FROM goals WHERE user_id = ? AND id = ?`, userID, id).
		Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &g.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	g.UserID = userID
	return g, nil
}

// FirstGoal returns the user's first goal in list order, or ErrNotFound
// when the user has none.
func (r *SQLiteRepository) FirstGoal(ctx context.Context, userID string) (core.Goal, error) {
	var g core.Goal
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_cents, current_cents, icon
		 FROM goals WHERE user_id = ? ORDER BY created_at, id LIMIT 1`, userID).
		Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &g.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("first goal: %w", err)
	}
	g.UserID = userID
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, userID, id string, upd core.GoalPatch) (core.Goal, error) {
	current, err := r.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	if upd.Name != nil {
		current.Name = *upd.Name
	}
	if upd.TargetCents != nil {
		current.TargetAmount.Cents = *upd.TargetCents
	}
	if upd.CurrentCents != nil {
		current.CurrentAmount.Cents = *upd.CurrentCents
	}
	if upd.Icon != nil {
		current.Icon = *upd.Icon
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ?, current_cents = ?, icon = ?
		 WHERE user_id = ? AND id = ?`,
		current.Name, current.TargetAmount.Cents, current.CurrentAmount.Cents, current.Icon,
		userID, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	return current, nil
}

// AddToGoal applies a contribution as an atomic increment at the storage
// layer, so simultaneous contributions (daily challenge plus a manual
// entry) cannot lose updates.
func (r *SQLiteRepository) AddToGoal(ctx context.Context, userID, id string, deltaCents int64) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = current_cents + ? WHERE user_id = ? AND id = ?`,
		deltaCents, userID, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("add to goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Goal{}, core.ErrNotFound
	}
	return r.GetGoal(ctx, userID, id)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- key-value store (daily challenge state) ---

func (r *SQLiteRepository) GetValue(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE user_id = ? AND key = ?`, userID, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get value %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) PutValue(ctx context.Context, userID, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_store (user_id, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		userID, key, value)
	if err != nil {
		return fmt.Errorf("put value %q: %w", key, err)
	}
	return nil
}

// --- achievements ---

// UnlockAchievement records a badge for a user. Returns true when the
// badge was newly unlocked, false when it was already held.
func (r *SQLiteRepository) UnlockAchievement(ctx context.Context, userID, badge string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO achievements (user_id, badge) VALUES (?, ?)`,
		userID, badge)
	if err != nil {
		return false, fmt.Errorf("unlock achievement: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *SQLiteRepository) ListAchievements(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT badge FROM achievements WHERE user_id = ? ORDER BY unlocked_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var badges []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

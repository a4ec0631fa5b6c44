package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/pantrykeep/receipt-scan/constants"
	"github.com/pantrykeep/receipt-scan/internal/parser"
)

// ScanRecord is one completed pipeline invocation with its items.
type ScanRecord struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Source    string        `json:"source"`
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	RawText   string        `json:"-"`
	Items     []parser.Item `json:"items"`
}

// Repository persists and lists scan records.
type Repository interface {
	SaveScan(ctx context.Context, rec ScanRecord) error
	ListScans(ctx context.Context, limit int) ([]ScanRecord, error)
}

// SQLRepository implements Repository over database/sql.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

func NewRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) *SQLRepository {
	if dialect == "" {
		dialect = DialectSQLite
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLRepository{db: db, dialect: dialect, logger: logger}
}

var reOrdinal = regexp.MustCompile(`\$\d+`)

// bind rewrites $N placeholders to ? for sqlite; pgx keeps them as-is.
func (r *SQLRepository) bind(query string) string {
	if r.dialect == DialectPostgres {
		return query
	}
	return reOrdinal.ReplaceAllString(query, "?")
}

func (r *SQLRepository) SaveScan(ctx context.Context, rec ScanRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	success := 0
	if rec.Success {
		success = 1
	}
	_, err = tx.ExecContext(ctx,
		r.bind(`INSERT INTO scans (id, created_at, source, success, message, raw_text) VALUES ($1, $2, $3, $4, $5, $6)`),
		rec.ID.String(), rec.CreatedAt.UTC().Format(time.RFC3339), rec.Source, success, rec.Message, rec.RawText,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for i, item := range rec.Items {
		var price sql.NullFloat64
		if item.Price != nil {
			price = sql.NullFloat64{Float64: *item.Price, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			r.bind(`INSERT INTO scan_items (scan_id, position, name, quantity, price, category, confidence) VALUES ($1, $2, $3, $4, $5, $6, $7)`),
			rec.ID.String(), i, item.Name, item.Quantity, price, string(item.Category), string(item.Confidence),
		)
		if err != nil {
			return fmt.Errorf("insert scan item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scan: %w", err)
	}
	r.logger.Info("history.scan.saved", "scan_id", rec.ID, "items", len(rec.Items))
	return nil
}

// ListScans returns recorded scans, newest first. A limit <= 0 means no
// limit; callers that need a cap pass one explicitly.
func (r *SQLRepository) ListScans(ctx context.Context, limit int) ([]ScanRecord, error) {
	query := `SELECT id, created_at, source, success, message, raw_text FROM scans ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, r.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var recs []ScanRecord
	for rows.Next() {
		var (
			id, createdAt, source, message, rawText string
			success                                 int
		)
		if err := rows.Scan(&id, &createdAt, &source, &success, &message, &rawText); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec := ScanRecord{Source: source, Success: success != 0, Message: message, RawText: rawText}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse scan id: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse scan timestamp: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}

	for i := range recs {
		items, err := r.listItems(ctx, recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].Items = items
	}
	return recs, nil
}

func (r *SQLRepository) listItems(ctx context.Context, scanID uuid.UUID) ([]parser.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		r.bind(`SELECT name, quantity, price, category, confidence FROM scan_items WHERE scan_id = $1 ORDER BY position`), scanID.String())
	if err != nil {
		return nil, fmt.Errorf("query scan items: %w", err)
	}
	defer rows.Close()

	var items []parser.Item
	for rows.Next() {
		var (
			item                 parser.Item
			price                sql.NullFloat64
			category, confidence string
		)
		if err := rows.Scan(&item.Name, &item.Quantity, &price, &category, &confidence); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		if price.Valid {
			v := price.Float64
			item.Price = &v
		}
		item.Category = constants.Category(category)
		item.Confidence = constants.Confidence(confidence)
		items = append(items, item)
	}
	return items, rows.Err()
}

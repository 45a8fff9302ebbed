package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a4ad/notifier/pkg/pg"
)

// PostgresStorage is the production Storage backed by a pgx pool. A partial
// unique index on idempotency_key makes Reserve race-safe: concurrent
// inserts with the same key collapse into one row and the losers read the
// winner back.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a storage over the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const insertQuery = `
INSERT INTO notifications
	(id, user_id, actor_id, target_id, target_type, type, data, channels, idempotency_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (s *PostgresStorage) Reserve(ctx context.Context, notif Notification) (Notification, bool, error) {
	if err := notif.Validate(); err != nil {
		return Notification{}, false, err
	}

	now := time.Now().UTC()
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = now
	}
	notif.UpdatedAt = now

	data, err := json.Marshal(notif.Data)
	if err != nil {
		return Notification{}, false, fmt.Errorf("marshal notification data: %w", err)
	}

	var key *string
	if notif.IdempotencyKey != "" {
		key = &notif.IdempotencyKey
	}

	_, err = s.pool.Exec(ctx, insertQuery,
		notif.ID, notif.UserID, nullable(notif.ActorID), nullable(notif.TargetID),
		nullable(notif.TargetType), notif.Type, data, channelStrings(notif.Channels),
		key, notif.CreatedAt, notif.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) && notif.IdempotencyKey != "" {
			existing, ferr := s.getByKey(ctx, notif.IdempotencyKey)
			if ferr != nil {
				return Notification{}, false, ferr
			}
			return *existing, false, nil
		}
		return Notification{}, false, fmt.Errorf("insert notification: %w", err)
	}

	return notif, true, nil
}

func (s *PostgresStorage) MarkSent(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET sent_at = $2, updated_at = now() WHERE id = $1 AND sent_at IS NULL`,
		id, at.UTC())
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is missing or sent_at was already written.
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check notification exists: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadySent
	}
	return nil
}

const selectColumns = `
id, user_id, COALESCE(actor_id, ''), COALESCE(target_id, ''), COALESCE(target_type, ''),
type, data, channels, is_read, sent_at, COALESCE(idempotency_key, ''), created_at, updated_at`

func (s *PostgresStorage) Get(ctx context.Context, userID, id string) (*Notification, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM notifications WHERE id = $1 AND user_id = $2`,
		id, userID)

	notif, err := scanNotification(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return notif, nil
}

func (s *PostgresStorage) getByKey(ctx context.Context, key string) (*Notification, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM notifications WHERE idempotency_key = $1`, key)

	notif, err := scanNotification(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notification by key: %w", err)
	}
	return notif, nil
}

func (s *PostgresStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT ` + selectColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}

	if opts.OnlyUnread {
		query += ` AND is_read = false`
	}
	if opts.Type != "" {
		args = append(args, opts.Type)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}

	args = append(args, limit, opts.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		notif, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, *notif)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *PostgresStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) MarkRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true, updated_at = now() WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true, updated_at = now() WHERE user_id = $1 AND is_read = false`,
		userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*Notification, error) {
	var (
		n        Notification
		data     []byte
		channels []string
	)
	if err := row.Scan(
		&n.ID, &n.UserID, &n.ActorID, &n.TargetID, &n.TargetType,
		&n.Type, &data, &channels, &n.IsRead, &n.SentAt, &n.IdempotencyKey,
		&n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("unmarshal notification data: %w", err)
		}
	}
	n.Channels = make([]Channel, 0, len(channels))
	for _, c := range channels {
		n.Channels = append(n.Channels, Channel(c))
	}
	return &n, nil
}

func channelStrings(channels []Channel) []string {
	out := make([]string, 0, len(channels))
	for _, c := range channels {
		out = append(out, string(c))
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

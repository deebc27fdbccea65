// Package journal persists the exact sequence of messages pushed into a
// program's buffer, so a session can be inspected afterwards or replayed
// into a fresh program — the moral equivalent of a time-travel log.
//
// A journal.Buffer wraps any buffer the loop already uses; recording is a
// pure decorator and the loop needs no changes:
//
//	store, _ := journal.NewSQLiteStore(db)
//	buf := journal.Wrap[myMsg](
//		elmish.NewBoundedBuffer[myMsg](elmish.DefaultCapacity),
//		store,
//		journal.GobEncode[myMsg](),
//	)
//	elmish.RunWithMessageBuffer(buf, struct{}{}, program)
//
// Messages are serialized with encoding/gob by default; interface-typed
// messages need their concrete types registered with gob.Register.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/xloggr/elmish"
	"github.com/xloggr/elmish/internal/codec"
)

// Recorder is the sink a Buffer appends serialized messages to.
type Recorder interface {
	Append(ctx context.Context, payload []byte) error
}

// Source yields previously recorded payloads in append order.
type Source interface {
	Messages(ctx context.Context) ([][]byte, error)
}

// SQLiteStore is an append-only message log on a SQLite database. The
// schema is created on construction. Tests and examples use the pure-Go
// modernc.org/sqlite driver; any database/sql driver with compatible SQL
// works.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore satisfies both sides of the journal.
var (
	_ Recorder = (*SQLiteStore)(nil)
	_ Source   = (*SQLiteStore)(nil)
)

// NewSQLiteStore initializes the messages table in db and returns a store.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}

// Append records one serialized message.
func (s *SQLiteStore) Append(ctx context.Context, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (at, payload) VALUES (?, ?)`,
		time.Now().UnixNano(), payload)
	return err
}

// Messages returns every recorded payload in append order.
func (s *SQLiteStore) Messages(ctx context.Context) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM messages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var p []byte
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, rows.Err()
}

// Clear deletes every recorded message.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages`)
	return err
}

// Len reports the number of recorded messages.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}

// Buffer records every message pushed through it before delegating to the
// wrapped buffer. Pop, PopContext, and Close pass straight through, so a
// Buffer can be handed to any of the run entry points in place of the
// inner buffer.
//
// A recording failure never withholds the message from the loop: the
// message is still delivered and the failure is reported through the
// buffer's error callback.
type Buffer[Msg any] struct {
	inner  elmish.AsyncMessageBuffer[Msg]
	rec    Recorder
	encode func(Msg) ([]byte, error)
	onErr  func(error)
}

var _ elmish.AsyncMessageBuffer[int] = (*Buffer[int])(nil)

// Wrap decorates inner so every pushed message is recorded through rec.
// Recording failures are logged via slog; use WrapWithErrorHandler to
// route them elsewhere.
func Wrap[Msg any](
	inner elmish.AsyncMessageBuffer[Msg],
	rec Recorder,
	encode func(Msg) ([]byte, error),
) *Buffer[Msg] {
	return WrapWithErrorHandler(inner, rec, encode, func(err error) {
		slog.Error("journal: unable to record message", slog.Any("error", err))
	})
}

// WrapWithErrorHandler is Wrap with an explicit recording-failure callback.
func WrapWithErrorHandler[Msg any](
	inner elmish.AsyncMessageBuffer[Msg],
	rec Recorder,
	encode func(Msg) ([]byte, error),
	onErr func(error),
) *Buffer[Msg] {
	return &Buffer[Msg]{inner: inner, rec: rec, encode: encode, onErr: onErr}
}

// Push records msg, then delegates to the inner buffer.
func (b *Buffer[Msg]) Push(msg Msg) error {
	if data, err := b.encode(msg); err != nil {
		b.onErr(fmt.Errorf("journal: encode message: %w", err))
	} else if err := b.rec.Append(context.Background(), data); err != nil {
		b.onErr(fmt.Errorf("journal: append message: %w", err))
	}
	return b.inner.Push(msg)
}

// Pop delegates to the inner buffer.
func (b *Buffer[Msg]) Pop() (Msg, bool) {
	return b.inner.Pop()
}

// PopContext delegates to the inner buffer.
func (b *Buffer[Msg]) PopContext(ctx context.Context) (Msg, error) {
	return b.inner.PopContext(ctx)
}

// Close delegates to the inner buffer.
func (b *Buffer[Msg]) Close() {
	b.inner.Close()
}

// Replay decodes every message recorded in src, in order, and hands each
// to dispatch. It stops at the first read or decode failure.
func Replay[Msg any](
	ctx context.Context,
	src Source,
	decode func([]byte) (Msg, error),
	dispatch elmish.Dispatch[Msg],
) error {
	payloads, err := src.Messages(ctx)
	if err != nil {
		return err
	}
	for i, data := range payloads {
		msg, err := decode(data)
		if err != nil {
			return fmt.Errorf("journal: decode message %d: %w", i, err)
		}
		dispatch(msg)
	}
	return nil
}

// GobEncode returns the default gob-based encoder for Msg.
func GobEncode[Msg any]() func(Msg) ([]byte, error) {
	return codec.Encode[Msg]
}

// GobDecode returns the default gob-based decoder for Msg.
func GobDecode[Msg any]() func([]byte) (Msg, error) {
	return codec.Decode[Msg]
}

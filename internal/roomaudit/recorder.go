package roomaudit

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

const (
	insertOpened = `INSERT INTO room_sessions (room_id, opened_at) VALUES ($1, $2)`
	markEmptied  = `UPDATE room_sessions SET closed_at = $2
	                WHERE room_id = $1 AND closed_at IS NULL`

	writeTimeout = 5 * time.Second
)

// Recorder persists room open/empty transitions to the room_sessions table.
// It implements the chat hub's RoomEvents. Writes run off the calling
// goroutine and failures are only logged, so a slow or down database never
// stalls a join or surfaces to clients. Message contents are never stored.
type Recorder struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

func (r *Recorder) RoomOpened(roomID string) {
	go r.exec("roomaudit.opened", insertOpened, roomID)
}

func (r *Recorder) RoomEmptied(roomID string) {
	go r.exec("roomaudit.emptied", markEmptied, roomID)
}

func (r *Recorder) exec(event, query, roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, roomID, r.now().UTC()); err != nil {
		zap.L().Warn(event, zap.String("room", roomID), zap.Error(err))
	}
}

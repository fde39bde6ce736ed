package roomid

import (
	"context"
	"math/rand"

	"go.uber.org/zap"
)

const (
	idLength = 16
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Store tracks which room ids are currently reserved.
type Store interface {
	Activate(ctx context.Context, roomID string) error
	Release(ctx context.Context, roomID string) error
	InUse(ctx context.Context, roomID string) (bool, error)
}

// Issuer generates and reserves opaque room identifiers against a Store. It
// also implements the chat hub's RoomEvents so ids are reserved while a room
// is live and recycled once it empties.
type Issuer struct {
	store Store
}

func NewIssuer(store Store) *Issuer { return &Issuer{store: store} }

// Generate returns a fresh id not currently reserved. The id is not reserved
// until the client activates it (or joins the room).
func (i *Issuer) Generate(ctx context.Context) (string, error) {
	for {
		id := randomID()
		used, err := i.store.InUse(ctx, id)
		if err != nil {
			return "", err
		}
		if !used {
			zap.L().Info("roomid.generated", zap.String("room", id))
			return id, nil
		}
	}
}

// Activate reserves a caller-chosen id. The core treats ids as opaque
// strings, so any non-empty value is accepted.
func (i *Issuer) Activate(ctx context.Context, roomID string) error {
	return i.store.Activate(ctx, roomID)
}

// RoomOpened reserves the id of a room created implicitly on first join,
// keeping the store consistent with live registry state.
func (i *Issuer) RoomOpened(roomID string) {
	if err := i.store.Activate(context.Background(), roomID); err != nil {
		zap.L().Warn("roomid.activate", zap.String("room", roomID), zap.Error(err))
	}
}

// RoomEmptied releases the id once its room has no members left.
func (i *Issuer) RoomEmptied(roomID string) {
	if err := i.store.Release(context.Background(), roomID); err != nil {
		zap.L().Warn("roomid.release", zap.String("room", roomID), zap.Error(err))
	}
}

func randomID() string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

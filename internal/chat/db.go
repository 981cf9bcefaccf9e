package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"chatbot-backend/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLite only supports one writer at a time, so we need a lock
// whenever we write to the database
var dbMutex sync.Mutex

// ErrSessionConflict is returned when a concurrent request updated the
// session between our read and write.
var ErrSessionConflict = errors.New("session was modified concurrently")

func GetSession(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (database.ChatSession, error) {
	var session database.ChatSession
	err := db.WithContext(ctx).First(&session, "id = ?", sessionID).Error
	return session, err
}

func GetTurns(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) ([]database.ChatTurn, error) {
	var turns []database.ChatTurn
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&turns).Error
	return turns, err
}

func ListSessions(ctx context.Context, db *gorm.DB, limit int) ([]database.ChatSession, error) {
	var sessions []database.ChatSession
	query := db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func FirstTurn(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (*database.ChatTurn, error) {
	var turn database.ChatTurn
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		First(&turn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// InsertSession persists a freshly created session together with its first
// turns in one transaction.
func InsertSession(ctx context.Context, db *gorm.DB, session *database.ChatSession, turns []database.ChatTurn) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(session).Error; err != nil {
			return err
		}
		for i := range turns {
			if err := txn.Create(&turns[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendExchange adds the new turns and writes the session's summary and
// updated_at, conditional on the version read before the exchange. A
// concurrent writer bumps the version first and the late writer gets
// ErrSessionConflict instead of silently losing a reply.
func AppendExchange(ctx context.Context, db *gorm.DB, session *database.ChatSession, turns []database.ChatTurn) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		res := txn.Model(&database.ChatSession{}).
			Where("id = ? AND version = ?", session.ID, session.Version).
			Updates(map[string]any{
				"summary":    session.Summary,
				"version":    session.Version + 1,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionConflict
		}

		for i := range turns {
			if err := txn.Create(&turns[i]).Error; err != nil {
				return err
			}
		}

		session.Version++
		return nil
	})
}

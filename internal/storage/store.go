package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DoyleJ11/lolnotes/internal/game"
)

var ErrInvalidRecord = errors.New("invalid stats record")

// Store is the persisted collection of end-of-game records.
type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB
	log   *zap.Logger
}

// FindLatestByUserID returns the most recent record in which userID appears on
// either side. Records with the same timestamp are ordered by id.
func (s *Store) FindLatestByUserID(ctx context.Context, userID int64) (game.EndOfGameStats, bool, error) {
	db := s.db.WithContext(ctx)

	withUser := db.Model(&playerRow{}).Select("record_id").Where("user_id = ?", userID)

	var row recordRow
	err := db.
		Where("id IN (?)", withUser).
		Order("time_stamp DESC").
		Order("id ASC").
		Preload("Players", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("side ASC").Order("position ASC")
		}).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.EndOfGameStats{}, false, nil
	}
	if err != nil {
		return game.EndOfGameStats{}, false, fmt.Errorf("find latest for user %d: %w", userID, err)
	}
	return fromRow(row), true, nil
}

// Save persists a record and its player entries in one transaction, assigning
// an id when the record has none. It returns the stored record.
func (s *Store) Save(ctx context.Context, r game.EndOfGameStats) (game.EndOfGameStats, error) {
	if r.TimeStamp.IsZero() {
		return game.EndOfGameStats{}, fmt.Errorf("%w: missing timestamp", ErrInvalidRecord)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	row := toRow(r)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return game.EndOfGameStats{}, fmt.Errorf("save record %s: %w", r.ID, err)
	}
	s.log.Debug("stats record saved",
		zap.String("record_id", r.ID), zap.Int64("game_id", r.GameID), zap.Int("players", len(row.Players)))
	return fromRow(row), nil
}

// Warm issues one cheap query so the first live lookup does not pay for
// connection setup and page cache misses.
func (s *Store) Warm(ctx context.Context) error {
	var row recordRow
	err := s.db.WithContext(ctx).Select("id").Limit(1).Find(&row).Error
	if err != nil {
		return fmt.Errorf("warm store: %w", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&recordRow{}).Count(&n).Error
	return n, err
}

func (s *Store) Close() error {
	return s.sqlDB.Close()
}

package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anikraj/bumble-clone/backend/internal/models"
)

// MatchRow is one row of the derived match view: the other user plus the
// moment the match completed.
type MatchRow struct {
	MatchID   string    `json:"match_id"`
	MatchedAt time.Time `json:"matched_at"`
}

// LikeRepository defines the interface for like/match data operations.
// A match is never stored; it is the symmetric condition over Like edges.
type LikeRepository interface {
	CreateLike(likerID, likeeID string) (created bool, err error)
	DeleteLike(likerID, likeeID string) error
	HasLiked(likerID, likeeID string) (bool, error)
	IsMatch(userA, userB string) (bool, error)
	GetLikerIDs(likeeID string) ([]string, error)
	GetMatches(userID string) ([]MatchRow, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts the directed edge. A duplicate ordered pair is a silent
// no-op: ON CONFLICT DO NOTHING on the composite key also de-duplicates two
// concurrent identical requests, so exactly one of them reports created.
func (r *PostgresLikeRepository) CreateLike(likerID, likeeID string) (bool, error) {
	like := models.Like{LikerID: likerID, LikeeID: likeeID}
	res := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liker_id"}, {Name: "likee_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLike removes the edge if present; absence is not an error
func (r *PostgresLikeRepository) DeleteLike(likerID, likeeID string) error {
	return r.db.
		Where("liker_id = ? AND likee_id = ?", likerID, likeeID).
		Delete(&models.Like{}).Error
}

// HasLiked checks whether the directed edge liker -> likee exists
func (r *PostgresLikeRepository) HasLiked(likerID, likeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("liker_id = ? AND likee_id = ?", likerID, likeeID).
		Count(&count).Error
	return count > 0, err
}

// IsMatch reports whether both directions of a like exist between the two
// users. Pure check, no side effects.
func (r *PostgresLikeRepository) IsMatch(userA, userB string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("(liker_id = ? AND likee_id = ?) OR (liker_id = ? AND likee_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count == 2, err
}

// GetLikerIDs returns the identifiers of all users who liked likeeID,
// order unspecified.
func (r *PostgresLikeRepository) GetLikerIDs(likeeID string) ([]string, error) {
	ids := []string{}
	err := r.db.Model(&models.Like{}).
		Where("likee_id = ?", likeeID).
		Pluck("liker_id", &ids).Error
	return ids, err
}

// GetMatches materializes the match view for one user: every counterpart with
// a like edge in both directions, matched at the later of the two timestamps.
func (r *PostgresLikeRepository) GetMatches(userID string) ([]MatchRow, error) {
	rows := []MatchRow{}
	err := r.db.Table("likes AS sent").
		Select(`sent.likee_id AS match_id,
			CASE WHEN sent.created_at > received.created_at
				THEN sent.created_at
				ELSE received.created_at
			END AS matched_at`).
		Joins("JOIN likes AS received ON received.liker_id = sent.likee_id AND received.likee_id = sent.liker_id").
		Where("sent.liker_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

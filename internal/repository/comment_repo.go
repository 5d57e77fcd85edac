package repository

import (
	"errors"

	"github.com/devlog/portfolio-backend/internal/common"
	"github.com/devlog/portfolio-backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository comment chain data access.
//
// Multi-row chain mutations run inside a single transaction owned by this
// layer; callers never see a partially linked chain.
type CommentRepository interface {
	// FindByID returns a single version row
	FindByID(id uint64) (*domain.Comment, error)

	// CountRootChains counts root chains (one tail row per chain)
	CountRootChains() (int64, error)

	// ListRootTails returns one page of root-chain tails, newest chain first
	ListRootTails(offset, limit int) ([]*domain.Comment, error)

	// ListReplyTails returns reply-chain tails for the given parent headers
	ListReplyTails(parentHeaderIDs []uint64) ([]*domain.Comment, error)

	// ListChain returns a chain's visible versions, ascending (tombstones excluded)
	ListChain(headerID uint64) ([]*domain.Comment, error)

	// CreateChain inserts version 1 and self-links header/tail
	CreateChain(row *domain.Comment) (uint64, error)

	// AppendVersion appends a new version (or tombstone) after target and
	// relinks the chain pointers
	AppendVersion(target *domain.Comment, next *domain.Comment) (uint64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// FindByID retrieves one version row by its surrogate id
func (r *commentRepository) FindByID(id uint64) (*domain.Comment, error) {
	var row domain.Comment
	err := r.db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// A chain's tail is the one row whose id equals its own tail_id; counting
// tails counts chains.
func (r *commentRepository) CountRootChains() (int64, error) {
	var total int64
	err := r.db.Model(&domain.Comment{}).
		Where("parent_header_id IS NULL").
		Where("id = tail_id").
		Count(&total).Error
	return total, err
}

// ListRootTails pages over root-chain tails ordered by the chain origin's
// creation time, newest chain first. The tail row itself may be younger than
// the origin, so the order key comes from a self-join on header_id.
func (r *commentRepository) ListRootTails(offset, limit int) ([]*domain.Comment, error) {
	var rows []*domain.Comment
	err := r.db.Table("comments AS c").
		Select("c.*").
		Joins("JOIN comments AS h ON h.id = c.header_id").
		Where("c.parent_header_id IS NULL").
		Where("c.id = c.tail_id").
		Order("h.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

// ListReplyTails fetches the reply-chain tails attached to the given root
// headers, ordered by parent origin time then by the reply's own origin time.
func (r *commentRepository) ListReplyTails(parentHeaderIDs []uint64) ([]*domain.Comment, error) {
	if len(parentHeaderIDs) == 0 {
		return nil, nil
	}

	var rows []*domain.Comment
	err := r.db.Table("comments AS c").
		Select("c.*").
		Joins("JOIN comments AS h ON h.id = c.header_id").
		Joins("JOIN comments AS p ON p.id = c.parent_header_id").
		Where("c.parent_header_id IN ?", parentHeaderIDs).
		Where("c.id = c.tail_id").
		Order("p.created_at ASC, h.created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ListChain returns the visible history of a chain in version order.
// Tombstone rows are excluded; earlier versions of a deleted chain remain.
func (r *commentRepository) ListChain(headerID uint64) ([]*domain.Comment, error) {
	var rows []*domain.Comment
	err := r.db.
		Where("header_id = ?", headerID).
		Where("is_deleted = ?", false).
		Order("version ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrChainNotFound
	}
	return rows, nil
}

// CreateChain inserts the first version of a new chain. The row id is not
// known before the insert, so the self-referential header/tail links are a
// second statement in the same transaction.
func (r *commentRepository) CreateChain(row *domain.Comment) (uint64, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	if err := tx.Create(row).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Model(&domain.Comment{}).
		Where("id = ?", row.ID).
		UpdateColumns(map[string]interface{}{
			"header_id": row.ID,
			"tail_id":   row.ID,
		}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	row.HeaderID = row.ID
	row.TailID = row.ID
	return row.ID, nil
}

// AppendVersion runs the whole edit/delete sequence in one transaction:
//
//  1. mark target superseded, guarded so only the live row can be marked;
//     zero rows affected means another writer got there first
//  2. insert the new version row
//  3. point the new row's tail_id at itself
//  4. back-link target's edited_comment_id to the new row
//  5. repair tail_id on every row of the chain
//
// The same path serves edits and deletes; a delete's next row is a tombstone.
func (r *commentRepository) AppendVersion(target *domain.Comment, next *domain.Comment) (uint64, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	res := tx.Model(&domain.Comment{}).
		Where("id = ?", target.ID).
		Where("edited_comment_id IS NULL").
		Where("is_deleted = ?", false).
		Update("is_edited", true)
	if res.Error != nil {
		tx.Rollback()
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race: the row was superseded (or tombstoned) after the
		// caller's precondition read.
		tx.Rollback()
		return 0, common.ErrCommentSuperseded
	}

	if err := tx.Create(next).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Model(&domain.Comment{}).
		Where("id = ?", next.ID).
		UpdateColumn("tail_id", next.ID).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Model(&domain.Comment{}).
		Where("id = ?", target.ID).
		Updates(map[string]interface{}{
			"edited_comment_id": next.ID,
			"tail_id":           next.ID,
		}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	// UpdateColumn: repairing the denormalized tail pointer must not bump
	// updated_at across the whole chain; only the superseded row's
	// timestamp moves.
	if err := tx.Model(&domain.Comment{}).
		Where("header_id = ?", target.HeaderID).
		UpdateColumn("tail_id", next.ID).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	next.TailID = next.ID
	return next.ID, nil
}

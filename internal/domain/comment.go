package domain

import "time"

// Comment is one immutable version row of a comment chain.
//
// A chain is the ordered set of rows sharing a HeaderID; version 1 is the
// header (its HeaderID points at itself), and TailID on every row points at
// the chain's current latest version. Editing or deleting never rewrites a
// row's content: it appends a new version (a tombstone carries NULL content)
// and relinks the pointers. The only post-insert mutations a row ever sees
// are the one-shot IsEdited/EditedCommentID flip when it is superseded and
// the TailID repair broadcast across its chain.
type Comment struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Content         *string   `gorm:"column:content;type:text" json:"content"`
	AuthorHandle    string    `gorm:"column:author_handle;type:varchar(16);index" json:"authorHandle"`
	SecretHash      string    `gorm:"column:secret_hash;type:varchar(100)" json:"-"`
	IsEdited        bool      `gorm:"column:is_edited;default:false" json:"isEdited"`
	IsDeleted       bool      `gorm:"column:is_deleted;default:false" json:"isDeleted"`
	Version         uint      `gorm:"column:version;default:1" json:"version"`
	ParentHeaderID  *uint64   `gorm:"column:parent_header_id;index" json:"parentHeaderId"`
	EditedCommentID *uint64   `gorm:"column:edited_comment_id" json:"editedCommentId"`
	HeaderID        uint64    `gorm:"column:header_id;index" json:"headerId"`
	TailID          uint64    `gorm:"column:tail_id" json:"tailId"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }

// IsLive reports whether this row is the chain's current mutable tip.
func (c *Comment) IsLive() bool {
	return c.EditedCommentID == nil && !c.IsDeleted
}

// CommentResponse is the outward shape of a single version row.
type CommentResponse struct {
	ID             uint64    `json:"id"`
	Content        *string   `json:"content"`
	AuthorHandle   string    `json:"authorHandle"`
	IsEdited       bool      `json:"isEdited"`
	IsDeleted      bool      `json:"isDeleted"`
	Version        uint      `json:"version"`
	ParentHeaderID *uint64   `json:"parentHeaderId"`
	HeaderID       uint64    `json:"headerId"`
	TailID         uint64    `json:"tailId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToResponse converts a row to its API shape (secret hash never leaves).
func (c *Comment) ToResponse() *CommentResponse {
	return &CommentResponse{
		ID:             c.ID,
		Content:        c.Content,
		AuthorHandle:   c.AuthorHandle,
		IsEdited:       c.IsEdited,
		IsDeleted:      c.IsDeleted,
		Version:        c.Version,
		ParentHeaderID: c.ParentHeaderID,
		HeaderID:       c.HeaderID,
		TailID:         c.TailID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ThreadResponse is a root-chain tail with its reply-chain tails grouped under it.
type ThreadResponse struct {
	*CommentResponse
	Children []*CommentResponse `json:"children"`
}

// CreateCommentRequest creates a new chain (root when ParentHeaderID is nil).
type CreateCommentRequest struct {
	ParentHeaderID *uint64 `json:"parentHeaderId"`
	Content        string  `json:"content" binding:"required"`
	UserPassword   string  `json:"userPassword" binding:"required"`
}

// UpdateCommentRequest appends a new version to the chain whose tip is the
// target row. NewHashedUserIP lets the presentation layer pass a pre-derived
// handle for the editor; when empty the handle is derived from the request IP.
type UpdateCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	UserPassword    string `json:"userPassword" binding:"required"`
	NewHashedUserIP string `json:"newHashedUserIP"`
}

// DeleteCommentRequest appends a tombstone version to the chain.
type DeleteCommentRequest struct {
	UserPassword    string `json:"userPassword" binding:"required"`
	NewHashedUserIP string `json:"newHashedUserIP"`
}

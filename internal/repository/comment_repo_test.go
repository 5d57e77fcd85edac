package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devlog/portfolio-backend/internal/common"
	"github.com/devlog/portfolio-backend/internal/domain"
)

// Use SQLite for tests (no external DB dependency)
func setupRepo(t *testing.T) (CommentRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Comment{}))

	return NewCommentRepository(db), db
}

func strPtr(s string) *string { return &s }

func newRow(content string, version uint, parent *uint64) *domain.Comment {
	return &domain.Comment{
		Content:        strPtr(content),
		AuthorHandle:   "ab12cd34",
		SecretHash:     "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Version:        version,
		ParentHeaderID: parent,
	}
}

// mustCreate starts a chain and returns the persisted origin row.
func mustCreate(t *testing.T, repo CommentRepository, content string, parent *uint64) *domain.Comment {
	t.Helper()
	row := newRow(content, 1, parent)
	id, err := repo.CreateChain(row)
	require.NoError(t, err)
	persisted, err := repo.FindByID(id)
	require.NoError(t, err)
	return persisted
}

// mustAppend appends the next version after target and returns it.
func mustAppend(t *testing.T, repo CommentRepository, target *domain.Comment, content string) *domain.Comment {
	t.Helper()
	next := newRow(content, target.Version+1, target.ParentHeaderID)
	next.HeaderID = target.HeaderID
	id, err := repo.AppendVersion(target, next)
	require.NoError(t, err)
	persisted, err := repo.FindByID(id)
	require.NoError(t, err)
	return persisted
}

func chainRows(t *testing.T, db *gorm.DB, headerID uint64) []*domain.Comment {
	t.Helper()
	var rows []*domain.Comment
	require.NoError(t, db.Where("header_id = ?", headerID).Order("version ASC").Find(&rows).Error)
	return rows
}

func TestCreateChainSelfLinks(t *testing.T) {
	repo, _ := setupRepo(t)

	row := mustCreate(t, repo, "hello", nil)

	assert.Equal(t, row.ID, row.HeaderID)
	assert.Equal(t, row.ID, row.TailID)
	assert.Equal(t, uint(1), row.Version)
	assert.Nil(t, row.EditedCommentID)
	assert.False(t, row.IsEdited)
}

func TestAppendVersionRelinksWholeChain(t *testing.T) {
	repo, db := setupRepo(t)

	v1 := mustCreate(t, repo, "hello", nil)
	v2 := mustAppend(t, repo, v1, "hello v2")
	v3 := mustAppend(t, repo, v2, "hello v3")

	rows := chainRows(t, db, v1.HeaderID)
	require.Len(t, rows, 3)

	// Every row of the header group points at the new tail.
	for _, row := range rows {
		assert.Equal(t, v3.ID, row.TailID, "version %d", row.Version)
	}

	// Versions are contiguous 1..N and exactly one row is un-superseded.
	live := 0
	for i, row := range rows {
		assert.Equal(t, uint(i+1), row.Version)
		if row.EditedCommentID == nil {
			live++
		}
	}
	assert.Equal(t, 1, live)

	// Superseded rows carry the forward link and the edit mark.
	v1After, err := repo.FindByID(v1.ID)
	require.NoError(t, err)
	assert.True(t, v1After.IsEdited)
	require.NotNil(t, v1After.EditedCommentID)
	assert.Equal(t, v2.ID, *v1After.EditedCommentID)
}

func TestAppendVersionRaceSecondWriterLoses(t *testing.T) {
	repo, db := setupRepo(t)

	v1 := mustCreate(t, repo, "hello", nil)

	// Two writers read the same tip before either commits.
	staleTip, err := repo.FindByID(v1.ID)
	require.NoError(t, err)

	mustAppend(t, repo, v1, "first writer")

	loser := newRow("second writer", staleTip.Version+1, nil)
	loser.HeaderID = staleTip.HeaderID
	_, err = repo.AppendVersion(staleTip, loser)
	assert.ErrorIs(t, err, common.ErrCommentSuperseded)

	// The losing transaction left nothing behind.
	rows := chainRows(t, db, v1.HeaderID)
	assert.Len(t, rows, 2)
}

func TestAppendVersionRejectsTombstonedTip(t *testing.T) {
	repo, db := setupRepo(t)

	v1 := mustCreate(t, repo, "hello", nil)

	tomb := &domain.Comment{
		IsDeleted:    true,
		AuthorHandle: v1.AuthorHandle,
		SecretHash:   v1.SecretHash,
		Version:      2,
		HeaderID:     v1.HeaderID,
	}
	tombID, err := repo.AppendVersion(v1, tomb)
	require.NoError(t, err)

	stale, err := repo.FindByID(tombID)
	require.NoError(t, err)
	next := newRow("after death", stale.Version+1, nil)
	next.HeaderID = stale.HeaderID
	_, err = repo.AppendVersion(stale, next)
	assert.ErrorIs(t, err, common.ErrCommentSuperseded)

	rows := chainRows(t, db, v1.HeaderID)
	assert.Len(t, rows, 2)
}

func TestListChainExcludesTombstone(t *testing.T) {
	repo, _ := setupRepo(t)

	v1 := mustCreate(t, repo, "hello", nil)
	v2 := mustAppend(t, repo, v1, "hello v2")

	tomb := &domain.Comment{
		IsDeleted:    true,
		AuthorHandle: v2.AuthorHandle,
		SecretHash:   v2.SecretHash,
		Version:      3,
		HeaderID:     v2.HeaderID,
	}
	_, err := repo.AppendVersion(v2, tomb)
	require.NoError(t, err)

	chain, err := repo.ListChain(v1.HeaderID)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "hello", *chain[0].Content)
	assert.Equal(t, "hello v2", *chain[1].Content)
	for _, row := range chain {
		assert.False(t, row.IsDeleted)
	}
}

func TestListChainUnknownHeader(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.ListChain(999)
	assert.True(t, errors.Is(err, common.ErrChainNotFound))
}

func TestRootTailsPageOverChains(t *testing.T) {
	repo, _ := setupRepo(t)

	older := mustCreate(t, repo, "older root", nil)
	time.Sleep(5 * time.Millisecond) // distinct origin timestamps
	newer := mustCreate(t, repo, "newer root", nil)

	// Editing the older chain must not reorder the page: ordering follows
	// the chain origin, not the tail row's own age.
	olderTail := mustAppend(t, repo, older, "older root v2")

	total, err := repo.CountRootChains()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	tails, err := repo.ListRootTails(0, 10)
	require.NoError(t, err)
	require.Len(t, tails, 2)
	assert.Equal(t, newer.ID, tails[0].ID)
	assert.Equal(t, olderTail.ID, tails[1].ID)
}

func TestReplyTailsGroupedUnderParents(t *testing.T) {
	repo, _ := setupRepo(t)

	root := mustCreate(t, repo, "root", nil)
	time.Sleep(5 * time.Millisecond)
	replyA := mustCreate(t, repo, "reply a", &root.HeaderID)
	time.Sleep(5 * time.Millisecond)
	replyB := mustCreate(t, repo, "reply b", &root.HeaderID)

	// Only the chain tail surfaces for an edited reply.
	replyATail := mustAppend(t, repo, replyA, "reply a v2")

	tails, err := repo.ListReplyTails([]uint64{root.HeaderID})
	require.NoError(t, err)
	require.Len(t, tails, 2)
	assert.Equal(t, replyATail.ID, tails[0].ID)
	assert.Equal(t, replyB.ID, tails[1].ID)

	// Replies never count as root chains.
	total, err := repo.CountRootChains()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

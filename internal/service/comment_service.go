package service

import (
	"strings"

	"github.com/devlog/portfolio-backend/internal/common"
	"github.com/devlog/portfolio-backend/internal/domain"
	"github.com/devlog/portfolio-backend/internal/repository"
	"github.com/devlog/portfolio-backend/pkg/hash"
)

// CommentService business logic for the versioned comment system.
//
// Every mutation appends a row to a version chain; nothing is updated in
// place and nothing is physically deleted.
type CommentService interface {
	// ListPage returns one page of root threads with grouped replies and the
	// total number of root chains
	ListPage(page, limit int) ([]*domain.ThreadResponse, int64, error)

	// Create starts a new chain and returns the new row id
	Create(req *domain.CreateCommentRequest, clientIP string) (uint64, error)

	// Update appends a new version after the live row targetID
	Update(targetID uint64, req *domain.UpdateCommentRequest, clientIP string) (uint64, error)

	// Delete appends a tombstone version after the live row targetID
	Delete(targetID uint64, req *domain.DeleteCommentRequest, clientIP string) (uint64, error)

	// History returns a chain's visible versions, oldest first
	History(anyIDInChain uint64) ([]*domain.CommentResponse, error)
}

type commentService struct {
	repo            repository.CommentRepository
	secrets         *hash.SecretHasher
	maxContentBytes int
}

// NewCommentService creates a new CommentService
func NewCommentService(repo repository.CommentRepository, secrets *hash.SecretHasher, maxContentBytes int) CommentService {
	return &commentService{repo: repo, secrets: secrets, maxContentBytes: maxContentBytes}
}

// ListPage assembles the two-level thread view. Pagination is over root
// chains only; a root with no replies still gets an empty children list.
func (s *commentService) ListPage(page, limit int) ([]*domain.ThreadResponse, int64, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.repo.CountRootChains()
	if err != nil {
		return nil, 0, err
	}

	roots, err := s.repo.ListRootTails((page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	headerIDs := make([]uint64, len(roots))
	for i, root := range roots {
		headerIDs[i] = root.HeaderID
	}

	replies, err := s.repo.ListReplyTails(headerIDs)
	if err != nil {
		return nil, 0, err
	}

	return assembleThreads(roots, replies), total, nil
}

// assembleThreads groups reply tails under their parent root chains,
// preserving the order of both inputs.
func assembleThreads(roots, replies []*domain.Comment) []*domain.ThreadResponse {
	byParent := make(map[uint64][]*domain.CommentResponse, len(roots))
	for _, reply := range replies {
		if reply.ParentHeaderID == nil {
			continue
		}
		parent := *reply.ParentHeaderID
		byParent[parent] = append(byParent[parent], reply.ToResponse())
	}

	threads := make([]*domain.ThreadResponse, len(roots))
	for i, root := range roots {
		children := byParent[root.HeaderID]
		if children == nil {
			children = make([]*domain.CommentResponse, 0)
		}
		threads[i] = &domain.ThreadResponse{
			CommentResponse: root.ToResponse(),
			Children:        children,
		}
	}
	return threads
}

func (s *commentService) validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return common.ErrInvalidInput
	}
	if s.maxContentBytes > 0 && len(content) > s.maxContentBytes {
		return common.ErrInvalidInput
	}
	return nil
}

// Create inserts version 1 of a new chain. When ParentHeaderID is set, it is
// taken as a raw chain id; the assembler simply never attaches replies whose
// parent does not exist, so no existence check runs here.
func (s *commentService) Create(req *domain.CreateCommentRequest, clientIP string) (uint64, error) {
	if err := s.validateContent(req.Content); err != nil {
		return 0, err
	}
	if req.UserPassword == "" {
		return 0, common.ErrInvalidInput
	}

	secretHash, err := s.secrets.Hash(req.UserPassword)
	if err != nil {
		return 0, err
	}

	content := req.Content
	row := &domain.Comment{
		Content:        &content,
		AuthorHandle:   hash.DeriveHandle(clientIP),
		SecretHash:     secretHash,
		Version:        1,
		ParentHeaderID: req.ParentHeaderID,
	}

	return s.repo.CreateChain(row)
}

// checkMutable runs the shared precondition ladder for edits and deletes:
// the target must exist, must not be a tombstone, must be the chain's
// current tip, and the password must match its stored hash.
func (s *commentService) checkMutable(targetID uint64, password string) (*domain.Comment, error) {
	target, err := s.repo.FindByID(targetID)
	if err != nil {
		return nil, err
	}
	if target.IsDeleted {
		return nil, common.ErrCommentDeleted
	}
	if target.EditedCommentID != nil {
		return nil, common.ErrCommentSuperseded
	}
	if !s.secrets.Verify(password, target.SecretHash) {
		return nil, common.ErrWrongPassword
	}
	return target, nil
}

// editorHandle picks the handle recorded on an appended version: the
// caller-supplied one when present, else one derived from the request IP.
func editorHandle(supplied, clientIP string) string {
	if supplied != "" {
		return supplied
	}
	return hash.DeriveHandle(clientIP)
}

func (s *commentService) Update(targetID uint64, req *domain.UpdateCommentRequest, clientIP string) (uint64, error) {
	if err := s.validateContent(req.Content); err != nil {
		return 0, err
	}
	if req.UserPassword == "" {
		return 0, common.ErrInvalidInput
	}

	target, err := s.checkMutable(targetID, req.UserPassword)
	if err != nil {
		return 0, err
	}

	content := req.Content
	next := &domain.Comment{
		Content:        &content,
		AuthorHandle:   editorHandle(req.NewHashedUserIP, clientIP),
		SecretHash:     target.SecretHash, // same password keeps governing the chain
		Version:        target.Version + 1,
		ParentHeaderID: target.ParentHeaderID,
		HeaderID:       target.HeaderID,
	}

	return s.repo.AppendVersion(target, next)
}

func (s *commentService) Delete(targetID uint64, req *domain.DeleteCommentRequest, clientIP string) (uint64, error) {
	if req.UserPassword == "" {
		return 0, common.ErrInvalidInput
	}

	target, err := s.checkMutable(targetID, req.UserPassword)
	if err != nil {
		return 0, err
	}

	tombstone := &domain.Comment{
		Content:        nil,
		IsDeleted:      true,
		AuthorHandle:   editorHandle(req.NewHashedUserIP, clientIP),
		SecretHash:     target.SecretHash,
		Version:        target.Version + 1,
		ParentHeaderID: target.ParentHeaderID,
		HeaderID:       target.HeaderID,
	}

	return s.repo.AppendVersion(target, tombstone)
}

// History resolves any row id in a chain to the full chain and returns its
// visible versions ascending. Querying different ids of the same chain
// yields the same list.
func (s *commentService) History(anyIDInChain uint64) ([]*domain.CommentResponse, error) {
	row, err := s.repo.FindByID(anyIDInChain)
	if err != nil {
		return nil, err
	}

	chain, err := s.repo.ListChain(row.HeaderID)
	if err != nil {
		return nil, err
	}

	history := make([]*domain.CommentResponse, len(chain))
	for i, version := range chain {
		history[i] = version.ToResponse()
	}
	return history, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
	"github.com/drivescope/drivescope-cli/internal/core/ports/driven"
	"github.com/drivescope/drivescope-cli/internal/logger"
)

// RetryConfig bounds the retry loop around each remote call.
type RetryConfig struct {
	// MaxAttempts is the total number of tries per call, including the
	// first one.
	MaxAttempts int
	// BaseDelay is the delay before the first retry; it doubles on each
	// subsequent retry up to MaxDelay.
	BaseDelay time.Duration
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
}

// DefaultRetryConfig retries each failing call twice with a short backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// WalkerConfig controls one traversal.
type WalkerConfig struct {
	// MaxDepth bounds how many folder levels below the root are
	// descended into. 0 means unlimited. Folders at the limit still
	// list their children; the children are just not expanded.
	MaxDepth int
	// Retry bounds the per-call retry loop.
	Retry RetryConfig
}

// Walker collects a Drive folder hierarchy with its permissions.
// The traversal is a single sequential pass driven by an explicit work
// queue, so arbitrarily deep trees cannot exhaust the call stack.
type Walker struct {
	drive driven.DriveLister
	cfg   WalkerConfig
}

// NewWalker creates a walker over the given DriveLister.
func NewWalker(drive driven.DriveLister, cfg WalkerConfig) *Walker {
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	return &Walker{drive: drive, cfg: cfg}
}

// queueEntry is one folder awaiting expansion.
type queueEntry struct {
	node  *domain.Node
	depth int
}

// Collect walks the tree rooted at rootID and returns it annotated with
// permissions. An unresolvable root is fatal (domain.ErrNotFound); any
// other failure marks the affected subtree as skipped and the walk
// continues. Collect never mutates remote state.
func (w *Walker) Collect(ctx context.Context, rootID string) (*domain.Tree, error) {
	rootItem, err := w.getItem(ctx, rootID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("root folder %s: %w", rootID, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Root exists but is unreadable: the tree is a single skipped
		// node so the report can record why it is empty.
		logger.Warn("root folder %s unreadable: %v", rootID, err)
		root := &domain.Node{Item: domain.Item{ID: rootID, Name: rootID}}
		root.Skipped = true
		root.SkipReason = err.Error()
		return &domain.Tree{Root: root}, nil
	}

	root := &domain.Node{Item: rootItem}
	tree := &domain.Tree{Root: root}

	w.annotate(ctx, root)
	if root.Skipped || !root.IsFolder() {
		return tree, ctx.Err()
	}

	queue := []queueEntry{{node: root, depth: 0}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := queue[0]
		queue = queue[1:]

		children, err := w.listChildren(ctx, entry.node.Item.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("skipping %s: %v", entry.node.Item.Name, err)
			entry.node.Skipped = true
			entry.node.SkipReason = err.Error()
			entry.node.Children = nil
			continue
		}

		for _, item := range children {
			child := &domain.Node{Item: item}
			entry.node.AddChild(child)

			w.annotate(ctx, child)
			if child.Skipped || !child.IsFolder() {
				continue
			}
			if w.cfg.MaxDepth > 0 && entry.depth+1 >= w.cfg.MaxDepth {
				child.Truncated = true
				continue
			}
			queue = append(queue, queueEntry{node: child, depth: entry.depth + 1})
		}
		entry.node.SortChildren()
		logger.Debug("listed %s: %d children", entry.node.Item.Name, len(children))
	}

	return tree, ctx.Err()
}

// annotate fetches and attaches an item's permissions. A permission
// lookup failure skips the node: an item whose ACL cannot be read has no
// business in a permission report as if it were fully audited.
func (w *Walker) annotate(ctx context.Context, node *domain.Node) {
	perms, err := w.listPermissions(ctx, node.Item.ID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("permissions of %s unreadable: %v", node.Item.Name, err)
		node.Skipped = true
		node.SkipReason = err.Error()
		return
	}
	domain.SortPermissions(perms)
	node.Permissions = perms
}

func (w *Walker) getItem(ctx context.Context, id string) (domain.Item, error) {
	var item domain.Item
	err := w.withRetry(ctx, func() error {
		var callErr error
		item, callErr = w.drive.GetItem(ctx, id)
		return callErr
	})
	return item, err
}

// listChildren drains the paginated children listing for one folder.
func (w *Walker) listChildren(ctx context.Context, folderID string) ([]domain.Item, error) {
	var all []domain.Item
	pageToken := ""
	for {
		var page []domain.Item
		var next string
		err := w.withRetry(ctx, func() error {
			var callErr error
			page, next, callErr = w.drive.ListChildren(ctx, folderID, pageToken)
			return callErr
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		pageToken = next
	}
}

func (w *Walker) listPermissions(ctx context.Context, id string) ([]domain.Permission, error) {
	var perms []domain.Permission
	err := w.withRetry(ctx, func() error {
		var callErr error
		perms, callErr = w.drive.ListPermissions(ctx, id)
		return callErr
	})
	return perms, err
}

// withRetry runs op, retrying rate-limited and transient failures with
// exponential backoff until MaxAttempts is reached. Other errors return
// immediately.
func (w *Walker) withRetry(ctx context.Context, op func() error) error {
	delay := w.cfg.Retry.BaseDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !domain.IsRetryable(err) || attempt >= w.cfg.Retry.MaxAttempts {
			return err
		}

		logger.Debug("retrying after %v (attempt %d/%d): %v",
			delay, attempt, w.cfg.Retry.MaxAttempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if w.cfg.Retry.MaxDelay > 0 && delay > w.cfg.Retry.MaxDelay {
			delay = w.cfg.Retry.MaxDelay
		}
	}
}

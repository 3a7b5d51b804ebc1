// Package session hosts a set of skill trees for long-running frontends.
//
// The progression engine is pure: every operation returns a new tree. A host
// that serves several trees (the HTTP server, the interactive browser) needs
// one place that owns the current value of each tree and applies transitions
// to it. [Manager] is that place. It keeps trees in memory by ID, tracks which
// tree is active, and serializes transitions under a mutex so that concurrent
// requests against the same tree never lose an update. Operations on one tree
// never affect another.
//
// # Usage
//
//	m := session.NewManager(logger)
//	if err := m.Add(tree); err != nil {
//	    return err
//	}
//	tree, err := m.Upgrade(ctx, tree.ID, "sword-mastery")
//	if errors.Is(err, progression.ErrPlayerLevel) {
//	    // rejected, tree is unchanged
//	}
//
// Every transition, accepted or rejected, is reported to
// [observability.Progression].
package session

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/observability"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// Manager is a concurrency-safe in-memory set of trees with one active tree.
// The zero value is not usable; create one with [NewManager].
type Manager struct {
	mu     sync.RWMutex
	trees  map[string]skilltree.Tree
	order  []string // insertion-order tree IDs
	active string

	Logger *log.Logger
}

// NewManager returns an empty manager. A nil logger discards output.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Manager{
		trees:  make(map[string]skilltree.Tree),
		Logger: logger,
	}
}

// Add validates t and stores a copy. The first tree added becomes active.
// Adding a second tree with the same ID is an INVALID_INPUT error.
func (m *Manager) Add(t skilltree.Tree) error {
	if err := errs.ValidateTreeID(t.ID); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.trees[t.ID]; exists {
		return errs.New(errs.ErrCodeInvalidInput, "tree %q already exists", t.ID)
	}
	m.trees[t.ID] = t.Clone()
	m.order = append(m.order, t.ID)
	if m.active == "" {
		m.active = t.ID
	}
	m.Logger.Debug("added tree", "tree", t.ID, "skills", len(t.Skills))
	return nil
}

// Put validates t and stores a copy, replacing any tree with the same ID.
// A replaced tree keeps its position and active status.
func (m *Manager) Put(t skilltree.Tree) error {
	if err := errs.ValidateTreeID(t.ID); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.trees[t.ID]; !exists {
		m.order = append(m.order, t.ID)
	}
	m.trees[t.ID] = t.Clone()
	if m.active == "" {
		m.active = t.ID
	}
	m.Logger.Debug("stored tree", "tree", t.ID, "skills", len(t.Skills))
	return nil
}

// Remove deletes the tree with the given ID. When the active tree is removed
// the first remaining tree becomes active.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trees[id]; !ok {
		return treeNotFound(id)
	}
	delete(m.trees, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	if m.active == id {
		m.active = ""
		if len(m.order) > 0 {
			m.active = m.order[0]
		}
	}
	return nil
}

// Get returns a copy of the tree with the given ID.
func (m *Manager) Get(id string) (skilltree.Tree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trees[id]
	if !ok {
		return skilltree.Tree{}, treeNotFound(id)
	}
	return t.Clone(), nil
}

// List returns copies of all trees in insertion order.
func (m *Manager) List() []skilltree.Tree {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]skilltree.Tree, len(m.order))
	for i, id := range m.order {
		out[i] = m.trees[id].Clone()
	}
	return out
}

// Len returns the number of trees.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Active returns a copy of the active tree. ok is false when the manager is
// empty.
func (m *Manager) Active() (t skilltree.Tree, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == "" {
		return skilltree.Tree{}, false
	}
	return m.trees[m.active].Clone(), true
}

// ActiveID returns the ID of the active tree, or "" when the manager is empty.
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// SetActive makes the tree with the given ID active.
func (m *Manager) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trees[id]; !ok {
		return treeNotFound(id)
	}
	m.active = id
	m.Logger.Debug("switched active tree", "tree", id)
	return nil
}

// Upgrade raises skillID in tree treeID by one level and returns the new
// tree. A rejected upgrade leaves the stored tree unchanged and returns it
// with the progression rejection error. An unknown skill is reported as
// SKILL_NOT_FOUND, still matching [progression.ErrUnknownSkill].
func (m *Manager) Upgrade(ctx context.Context, treeID, skillID string) (skilltree.Tree, error) {
	return m.apply(ctx, treeID, skillID, "upgrade", progression.TryUpgrade, observability.Progression().OnUpgrade)
}

// Downgrade lowers skillID in tree treeID by one level and refunds its cost.
// Rejections behave as in [Manager.Upgrade].
func (m *Manager) Downgrade(ctx context.Context, treeID, skillID string) (skilltree.Tree, error) {
	return m.apply(ctx, treeID, skillID, "downgrade", progression.TryDowngrade, observability.Progression().OnDowngrade)
}

func (m *Manager) apply(
	ctx context.Context,
	treeID, skillID, op string,
	step func(skilltree.Tree, string) (skilltree.Tree, error),
	hook func(ctx context.Context, treeID, skillID string, level int, err error),
) (skilltree.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trees[treeID]
	if !ok {
		err := treeNotFound(treeID)
		hook(ctx, treeID, skillID, 0, err)
		return skilltree.Tree{}, err
	}

	next, err := step(t, skillID)
	level := 0
	if s, ok := next.Skill(skillID); ok {
		level = s.Level
	}
	hook(ctx, treeID, skillID, level, err)

	if err != nil {
		if errors.Is(err, progression.ErrUnknownSkill) {
			err = errs.Wrap(errs.ErrCodeSkillNotFound, err, "skill %q not found in tree %q", skillID, treeID)
		}
		m.Logger.Debug("rejected "+op, "tree", treeID, "skill", skillID, "err", err)
		return t.Clone(), err
	}

	m.trees[treeID] = next
	m.Logger.Info(op, "tree", treeID, "skill", skillID, "level", level, "points", next.AvailablePoints)
	return next.Clone(), nil
}

func treeNotFound(id string) error {
	return errs.New(errs.ErrCodeTreeNotFound, "tree %q not found", id)
}

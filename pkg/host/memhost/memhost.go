// Package memhost is an in-memory host: a taxonomy/term registry, an
// assignment table, HMAC nonces, and a per item type metabox table. It backs
// tests, the CLI fixtures, and the demo server.
package memhost

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-taxradio/pkg/fieldgroups"
	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// Store holds every piece of host state behind a single lock.
type Store struct {
	mu sync.RWMutex

	taxonomies  map[string]taxonomy.Taxonomy
	terms       map[string][]taxonomy.Term
	assignments map[taxonomy.ItemID]map[string][]int64
	metaboxes   map[string][]host.Metabox
	nextTermID  int64
	fieldGroups []fieldgroups.Group

	nonces *Nonces
}

var (
	_ host.Host             = (*Store)(nil)
	_ host.AssignmentWriter = (*Store)(nil)
	_ host.NonceVerifier    = (*Store)(nil)
	_ host.MetaboxRegistrar = (*Store)(nil)

	_ fieldgroups.Registrar = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithNonceSecret sets the key used to sign nonces.
func WithNonceSecret(secret string) Option {
	return func(s *Store) {
		if strings.TrimSpace(secret) == "" {
			return
		}
		s.nonces = NewNonces([]byte(secret))
	}
}

// New constructs an empty store.
func New(options ...Option) *Store {
	s := &Store{
		taxonomies:  make(map[string]taxonomy.Taxonomy),
		terms:       make(map[string][]taxonomy.Term),
		assignments: make(map[taxonomy.ItemID]map[string][]int64),
		metaboxes:   make(map[string][]host.Metabox),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.nonces == nil {
		s.nonces = NewNonces([]byte("taxradio-memhost"))
	}
	return s
}

// RegisterTaxonomy adds or replaces a taxonomy and installs the host's
// built-in term picker for each object type.
func (s *Store) RegisterTaxonomy(tax taxonomy.Taxonomy) error {
	slug := strings.TrimSpace(tax.Slug)
	if slug == "" {
		return fmt.Errorf("memhost: taxonomy slug is required")
	}
	tax.Slug = slug
	tax.ObjectTypes = taxonomy.NormalizeTypes(tax.ObjectTypes...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.taxonomies[slug] = tax
	hierarchicalID, flatID := host.DefaultMetaboxIDs(slug)
	id := flatID
	if tax.Hierarchical {
		id = hierarchicalID
	}
	for _, itemType := range tax.ObjectTypes {
		s.removeMetaboxLocked(id, itemType, host.ContextSide)
		s.metaboxes[itemType] = append(s.metaboxes[itemType], host.Metabox{
			ID:       id,
			Title:    tax.PluralLabel(),
			ItemType: itemType,
			Context:  host.ContextSide,
			Priority: host.PriorityDefault,
		})
	}
	return nil
}

// AddTerm appends a term to its taxonomy. A zero ID is replaced with the next
// free identifier. The stored term is returned.
func (s *Store) AddTerm(term taxonomy.Term) (taxonomy.Term, error) {
	slug := strings.TrimSpace(term.Taxonomy)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taxonomies[slug]; !ok {
		return taxonomy.Term{}, taxonomy.NotFound(slug)
	}
	if term.ID == 0 {
		s.nextTermID++
		term.ID = s.nextTermID
	} else if term.ID > s.nextTermID {
		s.nextTermID = term.ID
	}
	for _, existing := range s.terms[slug] {
		if existing.ID == term.ID {
			return taxonomy.Term{}, fmt.Errorf("memhost: term %d already exists in %q", term.ID, slug)
		}
	}
	term.Taxonomy = slug
	if term.Slug == "" {
		term.Slug = slugify(term.Name)
	}
	s.terms[slug] = append(s.terms[slug], term)
	return term, nil
}

func (s *Store) Taxonomy(ctx context.Context, slug string) (taxonomy.Taxonomy, error) {
	if err := ctx.Err(); err != nil {
		return taxonomy.Taxonomy{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tax, ok := s.taxonomies[slug]
	if !ok {
		return taxonomy.Taxonomy{}, taxonomy.NotFound(slug)
	}
	tax.ObjectTypes = append([]string(nil), tax.ObjectTypes...)
	return tax, nil
}

// Taxonomies lists registered taxonomies sorted by slug.
func (s *Store) Taxonomies() []taxonomy.Taxonomy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]taxonomy.Taxonomy, 0, len(s.taxonomies))
	for _, tax := range s.taxonomies {
		out = append(out, tax)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

func (s *Store) Terms(ctx context.Context, slug string) ([]taxonomy.Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.taxonomies[slug]; !ok {
		return nil, taxonomy.NotFound(slug)
	}
	return append([]taxonomy.Term(nil), s.terms[slug]...), nil
}

func (s *Store) AssignedTerms(ctx context.Context, item taxonomy.ItemID, slug string) ([]taxonomy.Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.taxonomies[slug]; !ok {
		return nil, taxonomy.NotFound(slug)
	}
	ids := s.assignments[item][slug]
	if len(ids) == 0 {
		return nil, nil
	}
	byID := make(map[int64]taxonomy.Term, len(s.terms[slug]))
	for _, term := range s.terms[slug] {
		byID[term.ID] = term
	}
	out := make([]taxonomy.Term, 0, len(ids))
	for _, id := range ids {
		if term, ok := byID[id]; ok {
			out = append(out, term)
		}
	}
	return out, nil
}

func (s *Store) SetAssignedTerms(ctx context.Context, item taxonomy.ItemID, slug string, termIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taxonomies[slug]; !ok {
		return taxonomy.NotFound(slug)
	}
	known := make(map[int64]struct{}, len(s.terms[slug]))
	for _, term := range s.terms[slug] {
		known[term.ID] = struct{}{}
	}
	ids := make([]int64, 0, len(termIDs))
	for _, id := range termIDs {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("memhost: term %d does not belong to %q", id, slug)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		if byTax := s.assignments[item]; byTax != nil {
			delete(byTax, slug)
		}
		return nil
	}
	if s.assignments[item] == nil {
		s.assignments[item] = make(map[string][]int64)
	}
	s.assignments[item][slug] = ids
	return nil
}

func (s *Store) Nonce(ctx context.Context, action string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.nonces.Issue(action), nil
}

func (s *Store) VerifyNonce(_ context.Context, action, token string) bool {
	return s.nonces.Verify(action, token)
}

func (s *Store) RemoveMetabox(id, itemType, placement string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeMetaboxLocked(id, itemType, placement)
}

func (s *Store) AddMetabox(box host.Metabox) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeMetaboxLocked(box.ID, box.ItemType, box.Context)
	s.metaboxes[box.ItemType] = append(s.metaboxes[box.ItemType], box)
}

// Metaboxes returns the metaboxes registered for an item type in
// registration order.
func (s *Store) Metaboxes(itemType string) []host.Metabox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]host.Metabox(nil), s.metaboxes[itemType]...)
}

// Metabox finds a registered metabox by id.
func (s *Store) Metabox(itemType, id string) (host.Metabox, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, box := range s.metaboxes[itemType] {
		if box.ID == id {
			return box, true
		}
	}
	return host.Metabox{}, false
}

// RegisterFieldGroup records a field group for the editing screens.
func (s *Store) RegisterFieldGroup(ctx context.Context, group fieldgroups.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldGroups = append(s.fieldGroups, group)
	return nil
}

// FieldGroups returns the registered field groups in registration order.
func (s *Store) FieldGroups() []fieldgroups.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]fieldgroups.Group(nil), s.fieldGroups...)
}

func (s *Store) removeMetaboxLocked(id, itemType, placement string) {
	boxes := s.metaboxes[itemType]
	if len(boxes) == 0 {
		return
	}
	kept := boxes[:0]
	for _, box := range boxes {
		if box.ID == id && box.Context == placement {
			continue
		}
		kept = append(kept, box)
	}
	s.metaboxes[itemType] = kept
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Package resolver turns national ID entry into a bound client, creating the
// client inline when nothing matches.
package resolver

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/service"
	"go.uber.org/zap"
)

// ErrFormUnavailable is returned by OpenCreateForm outside the NoMatch phase.
var ErrFormUnavailable = errors.New("create form is only available when no client matches")

const (
	msgCompleteAllFields = "complete all fields"
	msgClientAdded       = "client added"
	msgCreateFailed      = "could not add client"
)

// Resolver owns the search state of one client search input. Methods are
// safe to call from several goroutines, but the state is meant to be driven
// by a single owner.
type Resolver struct {
	store    ClientStore
	notifier Notifier
	onSelect SelectionFunc
	log      *zap.Logger

	mu sync.Mutex
	// seq is the generation of the latest search or state reset. A search
	// result is applied only while its generation is still seq.
	seq     uint64
	settled uint64

	query      string
	candidates []*domain.Client
	selected   *domain.Client

	formOpen        bool
	draftFullName   string
	draftNationalID string

	// inflight counts running searches. idle is signalled on mu when it
	// drops to zero.
	inflight int
	idle     *sync.Cond
}

// New returns an idle resolver. notifier and onSelect may be nil.
func New(store ClientStore, notifier Notifier, onSelect SelectionFunc, log *zap.Logger) *Resolver {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if onSelect == nil {
		onSelect = func(*domain.Client) {}
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		store:    store,
		notifier: notifier,
		onSelect: onSelect,
		log:      log,
	}
	r.idle = sync.NewCond(&r.mu)
	return r
}

// SetQuery stores text as the current query and starts a search for it in
// the background. Editing away from a selected client's national ID drops the
// selection. ctx bounds the background search, so it must outlive the call.
func (r *Resolver) SetQuery(ctx context.Context, text string) {
	r.mu.Lock()
	r.query = text
	deselected := false
	if r.selected != nil && r.selected.NationalID != text {
		r.selected = nil
		deselected = true
	}
	r.seq++
	seq := r.seq
	if text == "" {
		r.candidates = nil
		r.settled = seq
	} else {
		r.inflight++
	}
	r.mu.Unlock()

	if deselected {
		r.onSelect(nil)
	}
	if text != "" {
		go r.search(ctx, seq, text)
	}
}

func (r *Resolver) search(ctx context.Context, seq uint64, term string) {
	clients, err := r.store.SearchClients(ctx, term)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.inflight--
	if r.inflight == 0 {
		r.idle.Broadcast()
	}

	if seq != r.seq {
		r.log.Debug("discarding stale search result",
			zap.String("term", term),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", r.seq),
		)
		return
	}

	r.settled = seq
	if err != nil {
		r.log.Error("client search failed", zap.String("term", term), zap.Error(err))
		r.candidates = nil
		return
	}
	r.candidates = clients
}

// Select binds client, sets the query to its national ID and drops the
// candidates. Searches still in flight are discarded. A nil client is ignored.
func (r *Resolver) Select(client *domain.Client) {
	if client == nil {
		return
	}

	r.mu.Lock()
	r.bindLocked(client)
	r.mu.Unlock()

	r.onSelect(client)
}

func (r *Resolver) bindLocked(client *domain.Client) {
	r.selected = client
	r.query = client.NationalID
	r.candidates = nil
	r.seq++
	r.settled = r.seq
}

// ClearSelection resets query, candidates and selection.
func (r *Resolver) ClearSelection() {
	r.mu.Lock()
	r.query = ""
	r.selected = nil
	r.candidates = nil
	r.seq++
	r.settled = r.seq
	r.mu.Unlock()

	r.onSelect(nil)
}

// OpenCreateForm opens the inline creation form. The national ID field starts
// out as the current query unless something was typed there before.
func (r *Resolver) OpenCreateForm() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.formOpen {
		return nil
	}
	if r.phaseLocked() != NoMatch {
		return ErrFormUnavailable
	}

	r.formOpen = true
	if r.draftNationalID == "" {
		r.draftNationalID = r.query
	}
	return nil
}

// CloseCreateForm hides the form and keeps what was typed into it.
func (r *Resolver) CloseCreateForm() {
	r.mu.Lock()
	r.formOpen = false
	r.mu.Unlock()
}

// SetDraft records the creation form's fields as currently typed.
func (r *Resolver) SetDraft(fullName, nationalID string) {
	r.mu.Lock()
	r.draftFullName = fullName
	r.draftNationalID = nationalID
	r.mu.Unlock()
}

// CreateClient stores a new client and selects it. Blank fields fail with a
// ValidationError before the store is touched. On any failure the form keeps
// the entered values and the operator is notified.
func (r *Resolver) CreateClient(ctx context.Context, fullName, nationalID string) (*domain.Client, error) {
	r.SetDraft(fullName, nationalID)

	var missing []string
	if strings.TrimSpace(fullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(nationalID) == "" {
		missing = append(missing, "national_id")
	}
	if len(missing) > 0 {
		err := service.NewValidationError(msgCompleteAllFields, missing...)
		r.notifier.Notify("Validation", msgCompleteAllFields, SeverityWarning)
		return nil, err
	}

	client, err := r.store.CreateClient(ctx, strings.TrimSpace(fullName), strings.TrimSpace(nationalID))
	if err != nil {
		return nil, r.createFailed(err)
	}

	r.mu.Lock()
	r.bindLocked(client)
	r.formOpen = false
	r.draftFullName = ""
	r.draftNationalID = ""
	r.mu.Unlock()

	r.onSelect(client)
	r.notifier.Notify("Success", msgClientAdded, SeveritySuccess)

	return client, nil
}

func (r *Resolver) createFailed(err error) error {
	var (
		validationErr *service.ValidationError
		duplicateErr  *service.DuplicateError
		storeErr      *service.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		r.notifier.Notify("Validation", validationErr.Error(), SeverityWarning)
		return err
	case errors.As(err, &duplicateErr):
		r.notifier.Notify("Duplicate client", duplicateErr.Error(), SeverityWarning)
		return err
	case !errors.As(err, &storeErr):
		err = &service.StoreError{Op: "create client", Err: err}
	}

	r.log.Error("client creation failed", zap.Error(err))
	r.notifier.Notify("Error", msgCreateFailed, SeverityWarning)
	return err
}

// Snapshot returns a copy of the current state.
func (r *Resolver) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	var candidates []*domain.Client
	if len(r.candidates) > 0 {
		candidates = make([]*domain.Client, len(r.candidates))
		copy(candidates, r.candidates)
	}

	return State{
		Phase:           r.phaseLocked(),
		Query:           r.query,
		Candidates:      candidates,
		Selected:        r.selected,
		FormOpen:        r.formOpen,
		DraftFullName:   r.draftFullName,
		DraftNationalID: r.draftNationalID,
	}
}

// Phase reports the current workflow phase.
func (r *Resolver) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phaseLocked()
}

func (r *Resolver) phaseLocked() Phase {
	switch {
	case r.formOpen:
		return Creating
	case r.selected != nil:
		return Selected
	case r.query == "":
		return Idle
	case r.settled != r.seq:
		return Searching
	case len(r.candidates) > 0:
		return Suggesting
	default:
		return NoMatch
	}
}

// Candidate returns the current candidate with the given id, if any.
func (r *Resolver) Candidate(id int64) (*domain.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Wait blocks until no search is running. Searches started by other
// goroutines while Wait blocks are waited for too.
func (r *Resolver) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.inflight > 0 {
		r.idle.Wait()
	}
}

package memstore

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/queries"
	"library-circulation/internal/usecase/shared"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{UseNumber: true, SortMapKeys: true}.Froze()

// Store keeps circulation state in process memory. Units of work run one at a time
// and see a private copy of what they change until they return without error.
// It backs STORAGE_DRIVER=memory and the unit tests.
type Store struct {
	mu       sync.Mutex
	titles   map[uuid.UUID]int
	requests map[uuid.UUID]*circulation.BorrowingRequest
	events   []shared.CirculationEvent
}

func New() *Store {
	return &Store{
		titles:   make(map[uuid.UUID]int),
		requests: make(map[uuid.UUID]*circulation.BorrowingRequest),
	}
}

// PutTitle registers a catalog title with its total copy count.
func (s *Store) PutTitle(id uuid.UUID, totalCopies int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles[id] = totalCopies
}

// PutRequest stores req as is, bypassing the state machine. Used to seed fixtures.
func (s *Store) PutRequest(req *circulation.BorrowingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID()] = req.Clone()
}

// Request returns a detached copy of the stored request.
func (s *Store) Request(id uuid.UUID) (*circulation.BorrowingRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, false
	}
	return req.Clone(), true
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errs.Mark(err, errs.ErrStorageTimeout)
	}

	tx := &memTx{store: s, staged: make(map[uuid.UUID]*circulation.BorrowingRequest)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for id, req := range tx.staged {
		s.requests[id] = req
	}
	s.events = append(s.events, tx.events...)
	return nil
}

type memTx struct {
	store  *Store
	staged map[uuid.UUID]*circulation.BorrowingRequest
	events []shared.CirculationEvent
}

func (t *memTx) BorrowRequests() shared.BorrowRequestRepository { return (*requestRepo)(t) }
func (t *memTx) Titles() shared.TitleRepository                 { return (*titleRepo)(t) }
func (t *memTx) Events() shared.EventRepository                 { return (*eventRepo)(t) }

func (t *memTx) lookup(id uuid.UUID) (*circulation.BorrowingRequest, bool) {
	if req, ok := t.staged[id]; ok {
		return req, true
	}
	req, ok := t.store.requests[id]
	return req, ok
}

// visible lists every request as this unit of work sees it.
func (t *memTx) visible() []*circulation.BorrowingRequest {
	out := make([]*circulation.BorrowingRequest, 0, len(t.store.requests)+len(t.staged))
	for id, req := range t.store.requests {
		if _, ok := t.staged[id]; !ok {
			out = append(out, req)
		}
	}
	for _, req := range t.staged {
		out = append(out, req)
	}
	return out
}

type requestRepo memTx

func (r *requestRepo) Create(_ context.Context, req *circulation.BorrowingRequest) error {
	tx := (*memTx)(r)
	if _, exists := tx.lookup(req.ID()); exists {
		return errs.Markf(errs.ErrStorageFailure, "borrow request %s already exists", req.ID())
	}
	tx.staged[req.ID()] = req.Clone()
	return nil
}

func (r *requestRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*circulation.BorrowingRequest, error) {
	req, ok := (*memTx)(r).lookup(id)
	if !ok {
		return nil, errs.Wrapf(errs.ErrRequestNotFound, "borrow request %s", id)
	}
	return req.Clone(), nil
}

func (r *requestRepo) Update(_ context.Context, req *circulation.BorrowingRequest, expected circulation.Status) error {
	tx := (*memTx)(r)
	current, ok := tx.lookup(req.ID())
	if !ok {
		return errs.Wrapf(errs.ErrRequestNotFound, "borrow request %s", req.ID())
	}
	if current.Status() != expected {
		return errs.Markf(errs.ErrInvalidTransition, "borrow request %s is no longer %s", req.ID(), expected)
	}
	tx.staged[req.ID()] = req.Clone()
	return nil
}

func (r *requestRepo) CountInFlight(_ context.Context, titleID uuid.UUID) (int, error) {
	n := 0
	for _, req := range (*memTx)(r).visible() {
		if req.TitleID() == titleID && req.IsInFlight() {
			n++
		}
	}
	return n, nil
}

func (r *requestRepo) ListPendingCreatedBefore(_ context.Context, cutoff time.Time, after *shared.PendingRef, limit int) ([]shared.PendingRef, error) {
	var refs []shared.PendingRef
	for _, req := range (*memTx)(r).visible() {
		if req.Status() != circulation.StatusPending || !req.CreatedAt().Before(cutoff) {
			continue
		}
		ref := shared.PendingRef{ID: req.ID(), CreatedAt: req.CreatedAt()}
		if after != nil && !ascAfter(ref, *after) {
			continue
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return ascAfter(refs[j], refs[i]) })
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// ascAfter reports whether a sorts after b by (created_at, id).
func ascAfter(a, b shared.PendingRef) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

type titleRepo memTx

func (r *titleRepo) LockTotalCopies(_ context.Context, titleID uuid.UUID) (int, error) {
	total, ok := r.store.titles[titleID]
	if !ok {
		return 0, errs.Wrapf(errs.ErrTitleNotFound, "title %s", titleID)
	}
	return total, nil
}

type eventRepo memTx

func (r *eventRepo) Append(_ context.Context, ev shared.CirculationEvent) error {
	r.events = append(r.events, ev)
	return nil
}

// Read side.

func (s *Store) FindRequestByID(_ context.Context, id uuid.UUID) (*queries.BorrowRequestView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, errs.Wrapf(errs.ErrRequestNotFound, "borrow request %s", id)
	}
	return queries.ToBorrowRequestView(req), nil
}

func (s *Store) ListByRequester(_ context.Context, requesterID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.BorrowRequestView, error) {
	return s.list(func(r *circulation.BorrowingRequest) bool { return r.RequesterID() == requesterID }, after, limit), nil
}

func (s *Store) ListByStatus(_ context.Context, status *circulation.Status, after *queries.Keyset, limit int) ([]*queries.BorrowRequestView, error) {
	return s.list(func(r *circulation.BorrowingRequest) bool { return status == nil || r.Status() == *status }, after, limit), nil
}

func (s *Store) list(match func(*circulation.BorrowingRequest) bool, after *queries.Keyset, limit int) []*queries.BorrowRequestView {
	s.mu.Lock()
	defer s.mu.Unlock()

	var views []*queries.BorrowRequestView
	for _, req := range s.requests {
		if !match(req) {
			continue
		}
		if after != nil && !descAfter(req.CreatedAt(), req.ID(), *after) {
			continue
		}
		views = append(views, queries.ToBorrowRequestView(req))
	}
	sort.Slice(views, func(i, j int) bool {
		return descAfter(views[j].CreatedAt, views[j].ID, queries.Keyset{CreatedAt: views[i].CreatedAt, ID: views[i].ID})
	})
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return views
}

// descAfter reports whether (createdAt, id) comes after k in created_at DESC, id DESC order.
func descAfter(createdAt time.Time, id uuid.UUID, k queries.Keyset) bool {
	if !createdAt.Equal(k.CreatedAt) {
		return createdAt.Before(k.CreatedAt)
	}
	return bytes.Compare(id[:], k.ID[:]) < 0
}

func (s *Store) ListEvents(_ context.Context, requestID uuid.UUID) ([]*queries.CirculationEventView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := []*queries.CirculationEventView{}
	for _, ev := range s.events {
		if ev.RequestID != requestID {
			continue
		}
		view, err := eventView(ev)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Store) StockCounts(_ context.Context, titleID uuid.UUID) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, ok := s.titles[titleID]
	if !ok {
		return 0, 0, errs.Wrapf(errs.ErrTitleNotFound, "title %s", titleID)
	}
	inFlight := 0
	for _, req := range s.requests {
		if req.TitleID() == titleID && req.IsInFlight() {
			inFlight++
		}
	}
	return total, inFlight, nil
}

// eventView round-trips the payload through JSON so both stores render history identically.
func eventView(ev shared.CirculationEvent) (*queries.CirculationEventView, error) {
	raw, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	view := &queries.CirculationEventView{
		ID:         ev.ID,
		RequestID:  ev.RequestID,
		Action:     ev.Action.String(),
		ToStatus:   ev.ToStatus.String(),
		ActorID:    ev.ActorID,
		ActorRole:  ev.ActorRole.String(),
		OccurredAt: ev.OccurredAt,
	}
	if ev.FromStatus != nil {
		from := ev.FromStatus.String()
		view.FromStatus = &from
	}
	if len(payload) > 0 {
		view.Payload = payload
	}
	return view, nil
}

package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/service"
	"wrenchway-api/pkg/clock"
	"wrenchway-api/pkg/jwt"
	"wrenchway-api/pkg/keylock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fakeStore is an in-memory database. Transactions are serialized and roll
// back by restoring a snapshot.
type fakeStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	bookings map[uuid.UUID]entity.Booking
	users    map[uuid.UUID]entity.User
	services map[uuid.UUID]entity.Service
	audits   []entity.AuditLog

	auditErr error
	// beforeUpdate runs before every versioned booking update.
	beforeUpdate func(id uuid.UUID)
	updateCalls  int
}

type fakeTxKey struct{}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[uuid.UUID]entity.Booking),
		users:    make(map[uuid.UUID]entity.User),
		services: make(map[uuid.UUID]entity.Service),
	}
}

type fakeSnapshot struct {
	bookings map[uuid.UUID]entity.Booking
	users    map[uuid.UUID]entity.User
	audits   []entity.AuditLog
}

func (s *fakeStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := fakeSnapshot{
		bookings: make(map[uuid.UUID]entity.Booking, len(s.bookings)),
		users:    make(map[uuid.UUID]entity.User, len(s.users)),
		audits:   append([]entity.AuditLog(nil), s.audits...),
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, fakeTxKey{}, true)); err != nil {
		s.mu.Lock()
		s.bookings, s.users, s.audits = snap.bookings, snap.users, snap.audits
		s.mu.Unlock()
		return err
	}
	return nil
}

// booking returns a copy of the stored row, or nil when it does not exist.
func (s *fakeStore) booking(id uuid.UUID) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	return &b
}

func (s *fakeStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.audits))
	for i, a := range s.audits {
		actions[i] = a.Action
	}
	return actions
}

func (s *fakeStore) putBooking(b entity.Booking) {
	s.mu.Lock()
	s.bookings[b.ID] = b
	s.mu.Unlock()
}

// fakeBookingRepo

type fakeBookingRepo struct{ s *fakeStore }

func (r fakeBookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[b.ID] = *b
	return nil
}

func (r fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r fakeBookingRepo) FindAll(ctx context.Context, f entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	r.s.mu.Lock()
	var matched []entity.Booking
	for _, b := range r.s.bookings {
		if f.CustomerID != nil && b.CustomerID != *f.CustomerID {
			continue
		}
		if f.TechnicianID != nil && !b.AssignedTo(*f.TechnicianID) {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		if f.DateFrom != nil && b.ScheduledDate.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && b.ScheduledDate.After(*f.DateTo) {
			continue
		}
		matched = append(matched, b)
	}
	r.s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if f.SortByScheduleAsc {
			if !matched[i].ScheduledDate.Equal(matched[j].ScheduledDate) {
				return matched[i].ScheduledDate.Before(matched[j].ScheduledDate)
			}
			return matched[i].ScheduledTime < matched[j].ScheduledTime
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []entity.Booking{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r fakeBookingRepo) FindActiveInWindow(ctx context.Context, from, to time.Time, slot string) ([]entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Booking
	for _, b := range r.s.bookings {
		if b.Status.IsActive() && b.ScheduledTime == slot && !b.ScheduledDate.Before(from) && !b.ScheduledDate.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r fakeBookingRepo) CountByTechnician(ctx context.Context, technicianID uuid.UUID, statuses ...entity.BookingStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookings {
		if !b.AssignedTo(technicianID) {
			continue
		}
		if len(statuses) == 0 {
			n++
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r fakeBookingRepo) UpdateWithVersion(ctx context.Context, b *entity.Booking, expected int64) (int64, error) {
	r.s.mu.Lock()
	hook := r.s.beforeUpdate
	r.s.updateCalls++
	r.s.mu.Unlock()
	if hook != nil {
		hook(b.ID)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.bookings[b.ID]
	if !ok || stored.Version != expected {
		return 0, nil
	}
	b.Version = expected + 1
	r.s.bookings[b.ID] = *b
	return 1, nil
}

// fakeUserRepo

type fakeUserRepo struct{ s *fakeStore }

func (r fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r fakeUserRepo) FindByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	r.s.mu.Lock()
	var out []entity.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	r.s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeUserRepo) LockByID(ctx context.Context, id uuid.UUID, exclusive bool) (*entity.User, error) {
	return r.FindByID(ctx, id)
}

func (r fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return 0, nil
	}
	delete(r.s.users, id)
	return 1, nil
}

// fakeServiceRepo

type fakeServiceRepo struct{ s *fakeStore }

func (r fakeServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (r fakeServiceRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Service
	for _, id := range ids {
		if svc, ok := r.s.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r fakeServiceRepo) FindAllActive(ctx context.Context) ([]entity.Service, error) {
	r.s.mu.Lock()
	var out []entity.Service
	for _, svc := range r.s.services {
		if svc.IsActive {
			out = append(out, svc)
		}
	}
	r.s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeAuditRepo

type fakeAuditRepo struct{ s *fakeStore }

func (r fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.auditErr != nil {
		return r.s.auditErr
	}
	log.ID = int64(len(r.s.audits) + 1)
	r.s.audits = append(r.s.audits, *log)
	return nil
}

// FindAll pages in insertion order; the real repository orders newest first.
func (r fakeAuditRepo) FindAll(ctx context.Context, filter entity.AuditLogFilter, limit, offset int) ([]entity.AuditLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []entity.AuditLog
	for i := range r.s.audits {
		if filter.Matches(&r.s.audits[i]) {
			matched = append(matched, r.s.audits[i])
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []entity.AuditLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r fakeAuditRepo) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.audits {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []service.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e service.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]struct{})}
}

func (s *fakeTokenStore) key(t jwt.TokenType, userID uuid.UUID, id string) string {
	return string(t) + ":" + userID.String() + ":" + id
}

func (s *fakeTokenStore) Save(ctx context.Context, t jwt.TokenType, userID uuid.UUID, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key(t, userID, id)] = struct{}{}
	return nil
}

func (s *fakeTokenStore) Exists(ctx context.Context, t jwt.TokenType, userID uuid.UUID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[s.key(t, userID, id)]
	return ok, nil
}

func (s *fakeTokenStore) Revoke(ctx context.Context, t jwt.TokenType, userID uuid.UUID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key(t, userID, id))
	return nil
}

// harness wires the use cases over one fakeStore.
type harness struct {
	store       *fakeStore
	clock       *clock.Fixed
	publisher   *recordingPublisher
	bookings    BookingUsecase
	assignments AssignmentUsecase
	technicians TechnicianUsecase

	bookingLocks *keylock.KeyedMutex
	slotLocks    *keylock.KeyedMutex

	service  entity.Service
	admin    entity.Actor
	customer entity.Actor
	tech1    entity.User
	tech2    entity.User
}

// today is the harness clock's date; bookings are scheduled on tomorrow.
var (
	testNow      = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	tomorrow     = "2024-05-02"
	tomorrowDate = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := discardLogger()
	store := newFakeStore()
	clk := clock.NewFixed(testNow)
	publisher := &recordingPublisher{}

	bookingLocks := keylock.New(log, time.Minute, time.Minute)
	slotLocks := keylock.New(log, time.Minute, time.Minute)
	t.Cleanup(bookingLocks.Stop)
	t.Cleanup(slotLocks.Stop)

	bookingRepo := fakeBookingRepo{store}
	userRepo := fakeUserRepo{store}
	serviceRepo := fakeServiceRepo{store}
	auditService := service.NewAuditService(log, fakeAuditRepo{store})

	assignments := NewAssignmentUsecase(log, store, bookingRepo, userRepo, serviceRepo, auditService,
		publisher, bookingLocks, slotLocks, clk, time.Second)
	bookings := NewBookingUsecase(log, store, bookingRepo, userRepo, serviceRepo, auditService,
		publisher, bookingLocks, slotLocks, clk, time.Second, 10)
	technicians := NewTechnicianUsecase(log, store, userRepo, bookingRepo, auditService, publisher, clk, time.Second)

	h := &harness{
		store:       store,
		clock:       clk,
		publisher:   publisher,
		bookings:    bookings,
		assignments: assignments,
		technicians: technicians,

		bookingLocks: bookingLocks,
		slotLocks:    slotLocks,

		service: entity.Service{
			ID:        uuid.New(),
			Name:      "AC Repair",
			Category:  "hvac",
			BasePrice: decimal.NewFromInt(100),
			IsActive:  true,
		},
		admin: entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin},
		tech1: entity.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", Role: entity.RoleTechnician},
		tech2: entity.User{ID: uuid.New(), Name: "Budi", Email: "budi@example.com", Role: entity.RoleTechnician},
	}

	customer := entity.User{ID: uuid.New(), Name: "Cust", Email: "cust@example.com", Role: entity.RoleCustomer}
	h.customer = customer.Actor()

	store.services[h.service.ID] = h.service
	store.users[customer.ID] = customer
	store.users[h.tech1.ID] = h.tech1
	store.users[h.tech2.ID] = h.tech2
	store.users[h.admin.ID] = entity.User{ID: h.admin.ID, Name: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin}

	return h
}

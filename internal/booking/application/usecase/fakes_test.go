package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
)

// fakeBookingRepo keeps bookings in a map and records status writes.
type fakeBookingRepo struct {
	bookings      map[string]*domain.Booking
	updateErr     error
	statusWrites  int
	deletedIDs    []string
	lastMechanicW string
}

func newFakeBookingRepo(bs ...*domain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
	for _, b := range bs {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) List(_ context.Context, limit int) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if len(out) == limit {
			break
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Booking, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	r.statusWrites++
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) UpdateMechanic(_ context.Context, id, mechanicID string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	r.lastMechanicW = mechanicID
	b.MechanicID = &mechanicID
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.bookings, id)
	r.deletedIDs = append(r.deletedIDs, id)
	return nil
}

type fakeUserRepo struct {
	users       map[string]*domain.User // keyed by ID
	tokenWrites map[string]string
}

func newFakeUserRepo(us ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}, tokenWrites: map[string]string{}}
	for _, u := range us {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateFCMToken(_ context.Context, id, token string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	r.tokenWrites[id] = token
	return nil
}

type fakeMechanicRepo struct {
	mechanics   map[string]*domain.Mechanic
	increments  map[string]int
	tokenWrites map[string]string
}

func newFakeMechanicRepo(ms ...*domain.Mechanic) *fakeMechanicRepo {
	r := &fakeMechanicRepo{
		mechanics:   map[string]*domain.Mechanic{},
		increments:  map[string]int{},
		tokenWrites: map[string]string{},
	}
	for _, m := range ms {
		r.mechanics[m.ID] = m
	}
	return r
}

func (r *fakeMechanicRepo) FindByID(_ context.Context, id string) (*domain.Mechanic, error) {
	m, ok := r.mechanics[id]
	if !ok {
		return nil, domain.ErrMechanicNotFound
	}
	return m, nil
}

func (r *fakeMechanicRepo) IncrementTotalBookings(_ context.Context, id string) error {
	if _, ok := r.mechanics[id]; !ok {
		return domain.ErrMechanicNotFound
	}
	r.increments[id]++
	return nil
}

func (r *fakeMechanicRepo) UpdateFCMToken(_ context.Context, id, token string) error {
	if _, ok := r.mechanics[id]; !ok {
		return domain.ErrMechanicNotFound
	}
	r.tokenWrites[id] = token
	return nil
}

type fakeAdminRepo struct {
	tokenWrites map[string]string
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{tokenWrites: map[string]string{}}
}

func (r *fakeAdminRepo) UpdateFCMToken(_ context.Context, id, token string) error {
	r.tokenWrites[id] = token
	return nil
}

type dispatched struct {
	target domain.Target
	n      domain.Notification
}

type fakeNotifier struct {
	dispatches []dispatched
	broadcasts []domain.Notification
}

func (f *fakeNotifier) Dispatch(_ context.Context, target domain.Target, n domain.Notification) {
	f.dispatches = append(f.dispatches, dispatched{target: target, n: n})
}

func (f *fakeNotifier) Broadcast(_ context.Context, _ model.ActorClass, n domain.Notification) {
	f.broadcasts = append(f.broadcasts, n)
}

type publishedEvent struct {
	eventType string
	ev        domain.BookingEvent
}

type fakePublisher struct {
	published []publishedEvent
	err       error
}

func (f *fakePublisher) PublishBookingEvent(_ context.Context, eventType string, ev domain.BookingEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedEvent{eventType: eventType, ev: ev})
	return nil
}

var errStorage = errors.New("storage unavailable")

func pendingBooking(id string) *domain.Booking {
	mechID := "mech-1"
	return &domain.Booking{
		ID: id,
		Customer: domain.Customer{
			Name:  "Ravi Kumar",
			Phone: "+919900112233",
			Email: "ravi@example.com",
		},
		Vehicle: domain.Vehicle{
			Make:  "Maruti",
			Model: "Swift",
			Year:  "2019",
			Plate: "KA01AB1234",
		},
		ServiceType: "general-service",
		MechanicID:  &mechID,
		ScheduledAt: time.Now().Add(24 * time.Hour).UTC(),
		Amount:      1499,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

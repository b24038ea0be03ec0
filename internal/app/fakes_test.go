package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"staybook/internal/domain"
)

// ---- fakes ----

type fakeCatalog struct {
	hotels map[int64]domain.Hotel
	rooms  map[int64]domain.Room

	summaries []domain.HotelSummary
	details   domain.HotelDetails
	typeStats []domain.RoomTypeStats
	city      domain.CitySummary
}

func (f *fakeCatalog) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %d", domain.ErrNotFound, id)
	}
	return h, nil
}

func (f *fakeCatalog) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("%w: room %d", domain.ErrNotFound, id)
	}
	return r, nil
}

func (f *fakeCatalog) ListRoomsByHotel(ctx context.Context, hotelID int64, flt domain.RoomFilters) ([]domain.Room, error) {
	var out []domain.Room
	for _, r := range f.rooms {
		if r.HotelID != hotelID {
			continue
		}
		if flt.Type != nil && r.Type != *flt.Type {
			continue
		}
		if flt.MaxPrice != nil && r.PricePerNight > *flt.MaxPrice {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCatalog) FindHotelsByCity(ctx context.Context, city string) ([]domain.HotelSummary, error) {
	return f.summaries, nil
}
func (f *fakeCatalog) FindHotelsByMinStars(ctx context.Context, minStars int) ([]domain.HotelSummary, error) {
	return f.summaries, nil
}
func (f *fakeCatalog) FindHotelsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.HotelSummary, error) {
	return f.summaries, nil
}
func (f *fakeCatalog) FindHotelByName(ctx context.Context, name string) (domain.HotelDetails, error) {
	return f.details, nil
}
func (f *fakeCatalog) RoomTypeSummary(ctx context.Context, hotelID *int64) ([]domain.RoomTypeStats, error) {
	return f.typeStats, nil
}
func (f *fakeCatalog) CitySummary(ctx context.Context, city string) (domain.CitySummary, error) {
	return f.city, nil
}

// fakeBookings keeps bookings in memory and enforces the no-overlap
// rule the same way the store does: a recount at insert time.
type fakeBookings struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]*domain.Booking
	catalog *fakeCatalog

	views  map[int64]domain.BookingView
	recent []domain.BookingView
}

func newFakeBookings(c *fakeCatalog) *fakeBookings {
	return &fakeBookings{nextID: 1, rows: map[int64]*domain.Booking{}, catalog: c}
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b domain.NewBooking) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.TotalAmount < 0 {
		return 0, fmt.Errorf("%w: negative amount", domain.ErrInvariant)
	}
	for _, r := range f.rows {
		if r.RoomID == b.RoomID && r.Status == domain.StatusConfirmed && r.Stay.Overlaps(b.Stay) {
			return 0, fmt.Errorf("%w: room %d already booked", domain.ErrConflict, b.RoomID)
		}
	}
	id := f.nextID
	f.nextID++
	f.rows[id] = &domain.Booking{
		ID: id, RoomID: b.RoomID,
		GuestName: b.GuestName, GuestEmail: b.GuestEmail, GuestPhone: b.GuestPhone,
		Stay: b.Stay, TotalAmount: b.TotalAmount,
		Status: domain.StatusConfirmed, CreatedAt: time.Now(),
	}
	if f.catalog != nil && b.Stay.ContainsDay(b.Today) {
		rm := f.catalog.rooms[b.RoomID]
		rm.Available = false
		f.catalog.rooms[b.RoomID] = rm
	}
	return id, nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return *r, nil
}

func (f *fakeBookings) GetConfirmedBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := f.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status != domain.StatusConfirmed {
		return domain.Booking{}, fmt.Errorf("%w: booking %d not confirmed", domain.ErrNotFound, id)
	}
	return b, nil
}

func (f *fakeBookings) transition(id int64, next domain.BookingStatus, today time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvariant, r.Status, next)
	}
	r.Status = next
	if f.catalog != nil && r.Stay.ContainsDay(today) {
		rm := f.catalog.rooms[r.RoomID]
		rm.Available = true
		f.catalog.rooms[r.RoomID] = rm
	}
	return nil
}

func (f *fakeBookings) CancelBooking(ctx context.Context, id int64, today time.Time) error {
	return f.transition(id, domain.StatusCancelled, today)
}

func (f *fakeBookings) CompleteBooking(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return f.transition(id, domain.StatusCompleted, today)
}

func (f *fakeBookings) CountOverlaps(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	probe := domain.Stay{CheckIn: checkIn, CheckOut: checkOut}
	n := 0
	for _, r := range f.rows {
		if r.RoomID == roomID && r.Status == domain.StatusConfirmed && r.Stay.Overlaps(probe) {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookings) SearchAvailableRooms(ctx context.Context, q domain.AvailabilityQuery) ([]domain.RoomWithHotel, error) {
	return nil, nil
}

func (f *fakeBookings) GetBookingView(ctx context.Context, id int64) (domain.BookingView, error) {
	if v, ok := f.views[id]; ok {
		return v, nil
	}
	b, err := f.GetBooking(ctx, id)
	if err != nil {
		return domain.BookingView{}, err
	}
	return domain.BookingView{Booking: b}, nil
}

func (f *fakeBookings) RecentBookings(ctx context.Context, limit int) ([]domain.BookingView, error) {
	if limit > len(f.recent) {
		limit = len(f.recent)
	}
	return f.recent[:limit], nil
}

// fakeCache round-trips through JSON so any value type works.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

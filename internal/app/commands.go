package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

// BookingService is the reservation lifecycle manager: it validates
// input, prices the stay, and drives the confirmed -> cancelled /
// completed transitions. The no-double-booking invariant itself is
// enforced by the store inside one transaction; the overlap check here
// is only a fast advisory reject.
type BookingService struct {
	catalog  domain.CatalogStore
	bookings domain.BookingStore
	cache    domain.Cache
	now      func() time.Time
}

func NewBookingService(c domain.CatalogStore, b domain.BookingStore, cache domain.Cache) *BookingService {
	return &BookingService{catalog: c, bookings: b, cache: cache, now: time.Now}
}

func (s *BookingService) today() time.Time { return dateOnly(s.now()) }

func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (int64, error) {
	// 1-2) reject bad input before touching the store
	if err := checkStruct(req); err != nil {
		observability.ObserveBooking("rejected")
		return 0, err
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		observability.ObserveBooking("rejected")
		return 0, err
	}
	today := s.today()
	if stay.CheckIn.Before(today) {
		observability.ObserveBooking("rejected")
		return 0, fmt.Errorf("%w: check_in is in the past", domain.ErrValidation)
	}

	// 3) room must exist under an active hotel
	room, err := s.catalog.GetRoom(ctx, req.RoomID)
	if err != nil {
		return 0, err
	}
	hotel, err := s.catalog.GetHotel(ctx, room.HotelID)
	if err != nil {
		return 0, err
	}
	if !hotel.Active {
		return 0, domain.ErrNotFound
	}

	// 4-5) advisory pre-check; the store repeats it under the row lock
	overlaps, err := s.bookings.CountOverlaps(ctx, room.ID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return 0, err
	}
	if overlaps > 0 {
		observability.ObserveBooking("conflict")
		return 0, fmt.Errorf("%w: room %d has %d overlapping booking(s)", domain.ErrConflict, room.ID, overlaps)
	}

	// 6) freeze the current price into the booking
	total := roundCents(float64(stay.Nights()) * room.PricePerNight)

	// 7-8) atomic insert + cached-flag recompute
	id, err := s.bookings.CreateBooking(ctx, domain.NewBooking{
		RoomID:      room.ID,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		GuestPhone:  req.GuestPhone,
		Stay:        stay,
		TotalAmount: total,
		Today:       today,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.ObserveBooking("conflict")
		}
		return 0, err
	}

	observability.ObserveBooking("created")
	log.Info().Int64("booking_id", id).Int64("room_id", room.ID).
		Str("check_in", req.CheckIn).Str("check_out", req.CheckOut).
		Float64("total", total).Msg("booking created")

	s.invalidateAfterWrite(ctx, hotel.City)
	return id, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id int64, reason string) error {
	if err := s.bookings.CancelBooking(ctx, id, s.today()); err != nil {
		return err
	}
	observability.ObserveBooking("cancelled")
	log.Info().Int64("booking_id", id).Str("reason", reason).Msg("booking cancelled")

	s.invalidateBookingCaches(ctx, id)
	return nil
}

func (s *BookingService) CompleteBooking(ctx context.Context, id int64) error {
	if err := s.bookings.CompleteBooking(ctx, id); err != nil {
		return err
	}
	observability.ObserveBooking("completed")
	log.Info().Int64("booking_id", id).Msg("booking completed")

	s.invalidateBookingCaches(ctx, id)
	return nil
}

// GetBookingDetails returns the booking joined with its room and hotel,
// whatever its status; cancelled rows stay retrievable for history.
func (s *BookingService) GetBookingDetails(ctx context.Context, id int64) (domain.BookingView, error) {
	return s.bookings.GetBookingView(ctx, id)
}

// invalidateAfterWrite evicts the query caches a booking write can
// stale: the hotel-list aggregates for the affected city and the
// recent-bookings lists.
func (s *BookingService) invalidateAfterWrite(ctx context.Context, city string) {
	if s.cache == nil {
		return
	}
	c := strings.ToLower(city)
	_ = s.cache.Del(ctx, "hotels:city:"+c)
	_ = s.cache.Del(ctx, "city:summary:"+c)
	for _, lim := range []int{10, 20, 50} {
		_ = s.cache.Del(ctx, fmt.Sprintf("bookings:recent:%d", lim))
	}
}

func (s *BookingService) invalidateBookingCaches(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	bv, err := s.bookings.GetBookingView(ctx, id)
	if err != nil {
		// eviction is best effort; the TTL bounds any staleness
		return
	}
	s.invalidateAfterWrite(ctx, bv.City)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

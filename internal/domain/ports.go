package domain

import (
	"context"
	"time"
)

// CatalogStore is the read-only view of hotels and rooms.
type CatalogStore interface {
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRoomsByHotel(ctx context.Context, hotelID int64, f RoomFilters) ([]Room, error)

	// Pattern searches are case-insensitive substring matches. Misses
	// return empty slices; FindHotelByName returns ErrNotFound and,
	// when several hotels match, the first by stars DESC, name, id.
	FindHotelsByCity(ctx context.Context, city string) ([]HotelSummary, error)
	FindHotelsByMinStars(ctx context.Context, minStars int) ([]HotelSummary, error)
	FindHotelsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]HotelSummary, error)
	FindHotelByName(ctx context.Context, name string) (HotelDetails, error)

	RoomTypeSummary(ctx context.Context, hotelID *int64) ([]RoomTypeStats, error)
	CitySummary(ctx context.Context, city string) (CitySummary, error)
}

// BookingStore is the durable record of reservations. The three
// mutations each run as a single serializable transaction that locks
// the room row, so the no-overlap invariant and the cached room flag
// are maintained atomically with the status change.
type BookingStore interface {
	// CreateBooking re-counts overlaps under the row lock and inserts
	// only when the count is zero; otherwise ErrConflict, no mutation.
	CreateBooking(ctx context.Context, b NewBooking) (int64, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	GetConfirmedBooking(ctx context.Context, id int64) (Booking, error)
	CancelBooking(ctx context.Context, id int64, today time.Time) error
	CompleteBooking(ctx context.Context, id int64) error

	// CountOverlaps counts confirmed bookings on the room whose stay
	// overlaps [checkIn, checkOut) under half-open semantics.
	CountOverlaps(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (int, error)

	SearchAvailableRooms(ctx context.Context, q AvailabilityQuery) ([]RoomWithHotel, error)
	GetBookingView(ctx context.Context, id int64) (BookingView, error)
	RecentBookings(ctx context.Context, limit int) ([]BookingView, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models & queries

type RoomFilters struct {
	Type     *RoomType
	MaxPrice *float64 // inclusive
}

type AvailabilityQuery struct {
	City     string
	CheckIn  time.Time
	CheckOut time.Time
	Type     *RoomType
	MaxPrice *float64
}

// HotelSummary is a hotel row plus the room aggregates the list
// queries compute. MinPrice/MaxPrice are filled only by the
// price-range search.
type HotelSummary struct {
	Hotel
	TotalRooms     int
	AvailableRooms int
	MinPrice       *float64
	MaxPrice       *float64
}

type HotelDetails struct {
	Hotel
	TotalRooms     int
	AvailableRooms int
	MinPrice       *float64
	MaxPrice       *float64
	TotalBookings  int
}

type RoomWithHotel struct {
	Room
	HotelName    string
	City         string
	HotelStars   int
	HotelAddress *string
}

type RoomTypeStats struct {
	Type      RoomType
	Count     int
	MinPrice  float64
	MaxPrice  float64
	AvgPrice  float64
	HotelName string
	City      string
}

type CitySummary struct {
	City           string
	HotelCount     int
	TotalRooms     int
	AvailableRooms int
	AvgStars       float64
	MinPrice       *float64
	MaxPrice       *float64
}

// BookingView is the read-only join of booking + room + hotel returned
// to callers; cancelled and completed bookings remain retrievable.
type BookingView struct {
	Booking
	RoomNumber    string
	RoomType      RoomType
	PricePerNight float64
	HotelID       int64
	HotelName     string
	City          string
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

// QueryService answers the read side: catalog searches, summaries and
// date-ranged availability. Catalog aggregates are cache-aside;
// availability answers are always computed from booking rows, never
// cached, because a stale answer there is a correctness bug rather
// than a freshness one.
type QueryService struct {
	catalog  domain.CatalogStore
	bookings domain.BookingStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(c domain.CatalogStore, b domain.BookingStore, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{catalog: c, bookings: b, cache: cache, cacheTTL: ttl}
}

// cached runs fill on a miss and stores the result under key.
func cached[T any](ctx context.Context, s *QueryService, key string, fill func() (T, error)) (T, error) {
	var out T
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	out, err := fill()
	if err != nil {
		return out, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return s.catalog.GetHotel(ctx, id)
}

func (s *QueryService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return s.catalog.GetRoom(ctx, id)
}

func (s *QueryService) SearchHotelsByCity(ctx context.Context, city string) ([]domain.HotelSummary, error) {
	if strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("%w: city must not be empty", domain.ErrValidation)
	}
	key := "hotels:city:" + strings.ToLower(city)
	return cached(ctx, s, key, func() ([]domain.HotelSummary, error) {
		return s.catalog.FindHotelsByCity(ctx, city)
	})
}

func (s *QueryService) SearchHotelsByMinStars(ctx context.Context, minStars int) ([]domain.HotelSummary, error) {
	if minStars < 1 || minStars > 5 {
		return nil, fmt.Errorf("%w: stars must be within 1..5", domain.ErrValidation)
	}
	key := fmt.Sprintf("hotels:stars:%d", minStars)
	return cached(ctx, s, key, func() ([]domain.HotelSummary, error) {
		return s.catalog.FindHotelsByMinStars(ctx, minStars)
	})
}

func (s *QueryService) SearchHotelsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.HotelSummary, error) {
	if minPrice < 0 || maxPrice < minPrice {
		return nil, fmt.Errorf("%w: bad price range [%.2f, %.2f]", domain.ErrValidation, minPrice, maxPrice)
	}
	key := fmt.Sprintf("hotels:price:%.2f:%.2f", minPrice, maxPrice)
	return cached(ctx, s, key, func() ([]domain.HotelSummary, error) {
		return s.catalog.FindHotelsByPriceRange(ctx, minPrice, maxPrice)
	})
}

func (s *QueryService) HotelDetailsByName(ctx context.Context, name string) (domain.HotelDetails, error) {
	if strings.TrimSpace(name) == "" {
		return domain.HotelDetails{}, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	key := "hotel:name:" + strings.ToLower(name)
	return cached(ctx, s, key, func() (domain.HotelDetails, error) {
		return s.catalog.FindHotelByName(ctx, name)
	})
}

func (s *QueryService) ListRooms(ctx context.Context, hotelID int64, f domain.RoomFilters) ([]domain.Room, error) {
	if f.MaxPrice != nil && *f.MaxPrice <= 0 {
		return nil, fmt.Errorf("%w: max price must be positive", domain.ErrValidation)
	}
	return s.catalog.ListRoomsByHotel(ctx, hotelID, f)
}

func (s *QueryService) RoomTypeSummary(ctx context.Context, hotelID *int64) ([]domain.RoomTypeStats, error) {
	key := "rooms:summary:all"
	if hotelID != nil {
		key = fmt.Sprintf("rooms:summary:%d", *hotelID)
	}
	return cached(ctx, s, key, func() ([]domain.RoomTypeStats, error) {
		return s.catalog.RoomTypeSummary(ctx, hotelID)
	})
}

func (s *QueryService) CitySummary(ctx context.Context, city string) (domain.CitySummary, error) {
	if strings.TrimSpace(city) == "" {
		return domain.CitySummary{}, fmt.Errorf("%w: city must not be empty", domain.ErrValidation)
	}
	key := "city:summary:" + strings.ToLower(city)
	return cached(ctx, s, key, func() (domain.CitySummary, error) {
		return s.catalog.CitySummary(ctx, city)
	})
}

// SearchAvailableRooms enumerates rooms in the city with no confirmed
// overlapping booking in [checkIn, checkOut), ordered by hotel stars
// descending then price ascending.
func (s *QueryService) SearchAvailableRooms(ctx context.Context, city, checkIn, checkOut string, roomType *string, maxPrice *float64) ([]domain.RoomWithHotel, error) {
	if strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("%w: city must not be empty", domain.ErrValidation)
	}
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	q := domain.AvailabilityQuery{City: city, CheckIn: stay.CheckIn, CheckOut: stay.CheckOut, MaxPrice: maxPrice}
	if roomType != nil {
		rt, ok := domain.ParseRoomType(*roomType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown room type %q", domain.ErrValidation, *roomType)
		}
		q.Type = &rt
	}
	if maxPrice != nil && *maxPrice <= 0 {
		return nil, fmt.Errorf("%w: max price must be positive", domain.ErrValidation)
	}
	return s.bookings.SearchAvailableRooms(ctx, q)
}

// IsRoomAvailable is true iff the room exists, its hotel is active and
// no confirmed booking overlaps the range. It is exactly the negation
// of CountOverlaps > 0 for existing rooms.
func (s *QueryService) IsRoomAvailable(ctx context.Context, roomID int64, checkIn, checkOut string) (bool, error) {
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	room, err := s.catalog.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	hotel, err := s.catalog.GetHotel(ctx, room.HotelID)
	if err != nil {
		return false, err
	}
	if !hotel.Active {
		return false, domain.ErrNotFound
	}
	n, err := s.bookings.CountOverlaps(ctx, roomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return false, err
	}
	free := n == 0
	if free {
		observability.ObserveAvailability("free")
	} else {
		observability.ObserveAvailability("busy")
	}
	return free, nil
}

func (s *QueryService) RecentBookings(ctx context.Context, limit int) ([]domain.BookingView, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 200 {
		return nil, fmt.Errorf("%w: limit must be at most 200", domain.ErrValidation)
	}
	key := fmt.Sprintf("bookings:recent:%d", limit)
	return cached(ctx, s, key, func() ([]domain.BookingView, error) {
		return s.bookings.RecentBookings(ctx, limit)
	})
}

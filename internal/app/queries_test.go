package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/internal/app"
	"staybook/internal/domain"
)

// day returns today+offset formatted as a wire date.
func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(domain.DateLayout)
}

func newQueryFixture() (*fakeCatalog, *fakeBookings, *fakeCache, *app.QueryService) {
	cat := &fakeCatalog{
		hotels: map[int64]domain.Hotel{
			1: {ID: 1, Name: "Harbor View", City: "Miami", Stars: 4, Active: true},
			2: {ID: 2, Name: "Shut Down Inn", City: "Miami", Stars: 2, Active: false},
		},
		rooms: map[int64]domain.Room{
			10: {ID: 10, HotelID: 1, Number: "101", Capacity: 2, PricePerNight: 150, Type: domain.RoomDouble, Available: true},
			11: {ID: 11, HotelID: 2, Number: "201", Capacity: 2, PricePerNight: 80, Type: domain.RoomSingle, Available: true},
		},
	}
	bk := newFakeBookings(cat)
	cache := &fakeCache{}
	q := app.NewQueryService(cat, bk, cache, 10*time.Minute)
	return cat, bk, cache, q
}

func TestSearchHotelsByCity_CacheMissThenHit(t *testing.T) {
	cat, _, _, q := newQueryFixture()
	cat.summaries = []domain.HotelSummary{
		{Hotel: domain.Hotel{ID: 1, Name: "Harbor View", City: "Miami", Stars: 4}, TotalRooms: 12, AvailableRooms: 7},
	}

	out, err := q.SearchHotelsByCity(context.Background(), "Miami")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Harbor View" || out[0].TotalRooms != 12 {
		t.Fatalf("unexpected summaries: %+v", out)
	}

	// mutate the store so a second read can only come from the cache
	cat.summaries[0].Name = "SHOULD NOT SEE THIS"

	out2, err := q.SearchHotelsByCity(context.Background(), "Miami")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out2[0].Name != "Harbor View" {
		t.Fatalf("expected cached name, got %s", out2[0].Name)
	}
}

func TestSearchHotels_Validation(t *testing.T) {
	_, _, _, q := newQueryFixture()
	ctx := context.Background()

	if _, err := q.SearchHotelsByCity(ctx, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank city: want ErrValidation, got %v", err)
	}
	if _, err := q.SearchHotelsByMinStars(ctx, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("stars 0: want ErrValidation, got %v", err)
	}
	if _, err := q.SearchHotelsByMinStars(ctx, 6); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("stars 6: want ErrValidation, got %v", err)
	}
	if _, err := q.SearchHotelsByPriceRange(ctx, 200, 100); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("inverted range: want ErrValidation, got %v", err)
	}
	if _, err := q.SearchHotelsByPriceRange(ctx, -1, 100); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative min: want ErrValidation, got %v", err)
	}
}

func TestListRooms_Filters(t *testing.T) {
	_, _, _, q := newQueryFixture()

	rt := domain.RoomDouble
	out, err := q.ListRooms(context.Background(), 1, domain.RoomFilters{Type: &rt})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].ID != 10 {
		t.Fatalf("unexpected rooms: %+v", out)
	}

	// inclusive price cap keeps the 150 double, a lower one drops it
	out, err = q.ListRooms(context.Background(), 1, domain.RoomFilters{MaxPrice: ptr(150.0)})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].ID != 10 {
		t.Fatalf("capped at 150: unexpected rooms: %+v", out)
	}
	out, err = q.ListRooms(context.Background(), 1, domain.RoomFilters{MaxPrice: ptr(100.0)})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("capped at 100: want no rooms, got %+v", out)
	}

	if _, err := q.ListRooms(context.Background(), 1, domain.RoomFilters{MaxPrice: ptr(0.0)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("zero max price: want ErrValidation, got %v", err)
	}
}

func TestIsRoomAvailable(t *testing.T) {
	_, bk, _, q := newQueryFixture()
	ctx := context.Background()

	free, err := q.IsRoomAvailable(ctx, 10, day(1), day(4))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !free {
		t.Fatal("expected free room with no bookings")
	}

	stay, _ := app.ParseDate(day(2))
	end, _ := app.ParseDate(day(5))
	if _, err := bk.CreateBooking(ctx, domain.NewBooking{
		RoomID: 10, GuestName: "g", GuestEmail: "g@x.com", GuestPhone: "+1 555 000 1111",
		Stay: domain.Stay{CheckIn: stay, CheckOut: end}, TotalAmount: 450,
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	free, err = q.IsRoomAvailable(ctx, 10, day(1), day(4))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if free {
		t.Fatal("expected busy room on overlapping range")
	}

	// back-to-back range after checkout is free again
	free, err = q.IsRoomAvailable(ctx, 10, day(5), day(7))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !free {
		t.Fatal("expected free room on back-to-back range")
	}

	// room under an inactive hotel is invisible
	if _, err := q.IsRoomAvailable(ctx, 11, day(1), day(4)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive hotel: want ErrNotFound, got %v", err)
	}

	// degenerate range is a caller error
	if _, err := q.IsRoomAvailable(ctx, 10, day(1), day(1)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("equal dates: want ErrValidation, got %v", err)
	}
}

func TestSearchAvailableRooms_Validation(t *testing.T) {
	_, _, _, q := newQueryFixture()
	ctx := context.Background()

	if _, err := q.SearchAvailableRooms(ctx, "", day(1), day(3), nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank city: want ErrValidation, got %v", err)
	}
	if _, err := q.SearchAvailableRooms(ctx, "Miami", day(3), day(1), nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("inverted dates: want ErrValidation, got %v", err)
	}
	if _, err := q.SearchAvailableRooms(ctx, "Miami", "2026-13-40", day(3), nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("garbage date: want ErrValidation, got %v", err)
	}
	if _, err := q.SearchAvailableRooms(ctx, "Miami", day(1), day(3), ptr("penthouse"), nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown type: want ErrValidation, got %v", err)
	}
}

func TestRecentBookings_Limits(t *testing.T) {
	_, bk, _, q := newQueryFixture()
	bk.recent = []domain.BookingView{
		{Booking: domain.Booking{ID: 3}}, {Booking: domain.Booking{ID: 2}}, {Booking: domain.Booking{ID: 1}},
	}

	out, err := q.RecentBookings(context.Background(), 2)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 2 || out[0].ID != 3 {
		t.Fatalf("unexpected recent: %+v", out)
	}

	if _, err := q.RecentBookings(context.Background(), 500); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("limit 500: want ErrValidation, got %v", err)
	}
}

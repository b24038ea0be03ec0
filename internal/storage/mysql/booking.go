package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"staybook/internal/domain"
)

// Booking mutations run under a serializable transaction that first
// locks the room row. The service-level overlap check is advisory;
// the recount inside the transaction is the final arbiter, so two
// concurrent callers can never both pass it (the classic
// check-then-act race is closed here, not in the caller).

const dateLayout = domain.DateLayout

func dateArg(t time.Time) string { return t.Format(dateLayout) }

func (r *Repo) CreateBooking(ctx context.Context, b domain.NewBooking) (int64, error) {
	if b.TotalAmount < 0 {
		return 0, fmt.Errorf("%w: negative total amount %.2f", domain.ErrInvariant, b.TotalAmount)
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, mapErr(err)
	}
	defer tx.Rollback()

	var (
		roomID      int64
		price       float64
		hotelActive bool
	)
	if err := tx.QueryRowContext(ctx, lockRoomSQL, b.RoomID).Scan(&roomID, &price, &hotelActive); err != nil {
		return 0, mapErr(err)
	}
	if !hotelActive {
		return 0, domain.ErrNotFound
	}

	var overlaps int
	if err := tx.QueryRowContext(ctx, countOverlapsSQL,
		b.RoomID, dateArg(b.Stay.CheckOut), dateArg(b.Stay.CheckIn)).Scan(&overlaps); err != nil {
		return 0, mapErr(err)
	}
	if overlaps > 0 {
		return 0, fmt.Errorf("%w: room %d already booked in range", domain.ErrConflict, b.RoomID)
	}

	res, err := tx.ExecContext(ctx, insertBookingSQL,
		b.RoomID, b.GuestName, b.GuestEmail, b.GuestPhone,
		dateArg(b.Stay.CheckIn), dateArg(b.Stay.CheckOut), b.TotalAmount)
	if err != nil {
		return 0, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapErr(err)
	}

	// The cached flag only tracks "free right now"; flip it when the
	// new stay spans today.
	if b.Stay.ContainsDay(b.Today) {
		if _, err := tx.ExecContext(ctx, setRoomAvailableSQL, false, b.RoomID); err != nil {
			return 0, mapErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func scanBooking(scan func(dest ...any) error) (domain.Booking, error) {
	var (
		bk     domain.Booking
		status string
	)
	if err := scan(&bk.ID, &bk.RoomID, &bk.GuestName, &bk.GuestEmail, &bk.GuestPhone,
		&bk.Stay.CheckIn, &bk.Stay.CheckOut, &bk.TotalAmount, &status, &bk.CreatedAt); err != nil {
		return domain.Booking{}, err
	}
	bk.Status = domain.BookingStatus(status)
	return bk, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	bk, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id).Scan)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	return bk, nil
}

func (r *Repo) GetConfirmedBooking(ctx context.Context, id int64) (domain.Booking, error) {
	bk, err := scanBooking(r.db.QueryRowContext(ctx, getConfirmedBookingSQL, id).Scan)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	return bk, nil
}

// transition moves a confirmed booking to a terminal status, releasing
// the cached room flag when the stay spans today.
func (r *Repo) transition(ctx context.Context, id int64, next domain.BookingStatus, today time.Time) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	bk, err := scanBooking(tx.QueryRowContext(ctx, lockConfirmedBookingSQL, id).Scan)
	if err != nil {
		// absent or already terminal both read as "no confirmed row"
		return mapErr(err)
	}
	if !bk.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: booking %d is %s", domain.ErrInvariant, id, bk.Status)
	}

	if _, err := tx.ExecContext(ctx, setBookingStatusSQL, string(next), id); err != nil {
		return mapErr(err)
	}

	if bk.Stay.ContainsDay(today) {
		if _, err := tx.ExecContext(ctx, setRoomAvailableSQL, true, bk.RoomID); err != nil {
			return mapErr(err)
		}
	}

	return mapErr(tx.Commit())
}

func (r *Repo) CancelBooking(ctx context.Context, id int64, today time.Time) error {
	return r.transition(ctx, id, domain.StatusCancelled, today)
}

func (r *Repo) CompleteBooking(ctx context.Context, id int64) error {
	// completion also frees the room for "right now" queries; the clock
	// truncates to the calendar date so ContainsDay matches the stay's
	// midnight bounds at any time of day
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return r.transition(ctx, id, domain.StatusCompleted, today)
}

func (r *Repo) CountOverlaps(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countOverlapsSQL,
		roomID, dateArg(checkOut), dateArg(checkIn)).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (r *Repo) SearchAvailableRooms(ctx context.Context, q domain.AvailabilityQuery) ([]domain.RoomWithHotel, error) {
	sqlStr := searchAvailableRoomsPrefix
	args := []any{likePattern(q.City), dateArg(q.CheckOut), dateArg(q.CheckIn)}
	if q.Type != nil {
		sqlStr += "  AND r.room_type = ?\n"
		args = append(args, string(*q.Type))
	}
	if q.MaxPrice != nil {
		sqlStr += "  AND r.price_per_night <= ?\n"
		args = append(args, *q.MaxPrice)
	}
	sqlStr += searchAvailableRoomsSuffix

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]domain.RoomWithHotel, 0)
	for rows.Next() {
		var (
			rw                domain.RoomWithHotel
			roomType          string
			amenities, images []byte
			address           sql.NullString
		)
		if err := rows.Scan(&rw.ID, &rw.HotelID, &rw.Number, &rw.Capacity, &rw.PricePerNight,
			&roomType, &rw.Available, &amenities, &images,
			&rw.HotelName, &rw.City, &rw.HotelStars, &address); err != nil {
			return nil, mapErr(err)
		}
		rw.Type = domain.RoomType(roomType)
		rw.Amenities = jsonList(amenities)
		rw.Images = jsonList(images)
		rw.HotelAddress = nullStr(address)
		out = append(out, rw)
	}
	return out, mapErr(rows.Err())
}

func scanBookingView(scan func(dest ...any) error) (domain.BookingView, error) {
	var (
		bv       domain.BookingView
		status   string
		roomType string
	)
	if err := scan(&bv.ID, &bv.RoomID, &bv.GuestName, &bv.GuestEmail, &bv.GuestPhone,
		&bv.Stay.CheckIn, &bv.Stay.CheckOut, &bv.TotalAmount, &status, &bv.CreatedAt,
		&bv.RoomNumber, &roomType, &bv.PricePerNight,
		&bv.HotelID, &bv.HotelName, &bv.City); err != nil {
		return domain.BookingView{}, err
	}
	bv.Status = domain.BookingStatus(status)
	bv.RoomType = domain.RoomType(roomType)
	return bv, nil
}

func (r *Repo) GetBookingView(ctx context.Context, id int64) (domain.BookingView, error) {
	bv, err := scanBookingView(r.db.QueryRowContext(ctx, bookingViewSQL, id).Scan)
	if err != nil {
		return domain.BookingView{}, mapErr(err)
	}
	return bv, nil
}

func (r *Repo) RecentBookings(ctx context.Context, limit int) ([]domain.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, recentBookingsSQL, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]domain.BookingView, 0)
	for rows.Next() {
		bv, err := scanBookingView(rows.Scan)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, bv)
	}
	return out, mapErr(rows.Err())
}

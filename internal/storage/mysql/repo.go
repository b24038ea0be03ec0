package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"staybook/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// DB exposes the underlying handle for callers that need raw access
// (seeder, tests).
func (r *Repo) DB() *sql.DB { return r.db }

// mapErr folds driver failures into the domain taxonomy. Anything not
// recognized passes through unchanged.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062: // duplicate key
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		case 1205, 1213: // lock wait timeout, deadlock
			return fmt.Errorf("%w: %v", domain.ErrTransient, err)
		case 3819, 4025: // CHECK constraint violated
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}
	return err
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullF64(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func jsonList(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(b, &out)
	return out
}

func mustJSON(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// scanHotelSummary matches the SELECT list shared by the city/stars
// searches: full hotel row + room counters, optionally price bounds.
func scanHotelSummary(rows *sql.Rows, withPrices bool) (domain.HotelSummary, error) {
	var (
		hs                       domain.HotelSummary
		address, desc, ph, email sql.NullString
		lat, lon                 sql.NullFloat64
		amenities                []byte
		minPrice, maxPrice       sql.NullFloat64
	)
	dest := []any{
		&hs.ID, &hs.Name, &hs.City, &address, &hs.Stars, &desc, &ph, &email,
		&lat, &lon, &amenities, &hs.Active,
		&hs.TotalRooms, &hs.AvailableRooms,
	}
	if withPrices {
		dest = append(dest, &minPrice, &maxPrice)
	}
	if err := rows.Scan(dest...); err != nil {
		return domain.HotelSummary{}, err
	}
	hs.Address = nullStr(address)
	hs.Description = nullStr(desc)
	hs.Phone = nullStr(ph)
	hs.Email = nullStr(email)
	hs.Lat = nullF64(lat)
	hs.Lon = nullF64(lon)
	hs.Amenities = jsonList(amenities)
	hs.MinPrice = nullF64(minPrice)
	hs.MaxPrice = nullF64(maxPrice)
	return hs, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, id)

	var (
		h                        domain.Hotel
		address, desc, ph, email sql.NullString
		lat, lon                 sql.NullFloat64
		amenities                []byte
	)
	if err := row.Scan(&h.ID, &h.Name, &h.City, &address, &h.Stars, &desc, &ph, &email,
		&lat, &lon, &amenities, &h.Active); err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	h.Address = nullStr(address)
	h.Description = nullStr(desc)
	h.Phone = nullStr(ph)
	h.Email = nullStr(email)
	h.Lat = nullF64(lat)
	h.Lon = nullF64(lon)
	h.Amenities = jsonList(amenities)
	return h, nil
}

func scanRoom(scan func(dest ...any) error) (domain.Room, error) {
	var (
		rm                domain.Room
		roomType          string
		amenities, images []byte
	)
	if err := scan(&rm.ID, &rm.HotelID, &rm.Number, &rm.Capacity, &rm.PricePerNight,
		&roomType, &rm.Available, &amenities, &images); err != nil {
		return domain.Room{}, err
	}
	rm.Type = domain.RoomType(roomType)
	rm.Amenities = jsonList(amenities)
	rm.Images = jsonList(images)
	return rm, nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	row := r.db.QueryRowContext(ctx, getRoomSQL, id)
	rm, err := scanRoom(row.Scan)
	if err != nil {
		return domain.Room{}, mapErr(err)
	}
	return rm, nil
}

func (r *Repo) ListRoomsByHotel(ctx context.Context, hotelID int64, f domain.RoomFilters) ([]domain.Room, error) {
	q := listRoomsByHotelPrefix
	args := []any{hotelID}
	if f.Type != nil {
		q += " AND room_type = ?"
		args = append(args, string(*f.Type))
	}
	if f.MaxPrice != nil {
		q += " AND price_per_night <= ?"
		args = append(args, *f.MaxPrice)
	}
	q += " ORDER BY price_per_night ASC, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]domain.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, rm)
	}
	return out, mapErr(rows.Err())
}

func (r *Repo) queryHotelSummaries(ctx context.Context, q string, withPrices bool, args ...any) ([]domain.HotelSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]domain.HotelSummary, 0)
	for rows.Next() {
		hs, err := scanHotelSummary(rows, withPrices)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, hs)
	}
	return out, mapErr(rows.Err())
}

func (r *Repo) FindHotelsByCity(ctx context.Context, city string) ([]domain.HotelSummary, error) {
	return r.queryHotelSummaries(ctx, findHotelsByCitySQL, false, likePattern(city))
}

func (r *Repo) FindHotelsByMinStars(ctx context.Context, minStars int) ([]domain.HotelSummary, error) {
	return r.queryHotelSummaries(ctx, findHotelsByMinStarsSQL, false, minStars)
}

func (r *Repo) FindHotelsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.HotelSummary, error) {
	return r.queryHotelSummaries(ctx, findHotelsByPriceRangeSQL, true, minPrice, maxPrice)
}

func (r *Repo) FindHotelByName(ctx context.Context, name string) (domain.HotelDetails, error) {
	row := r.db.QueryRowContext(ctx, findHotelByNameSQL, likePattern(name))

	var (
		hd                       domain.HotelDetails
		address, desc, ph, email sql.NullString
		lat, lon                 sql.NullFloat64
		amenities                []byte
		minPrice, maxPrice       sql.NullFloat64
	)
	if err := row.Scan(&hd.ID, &hd.Name, &hd.City, &address, &hd.Stars, &desc, &ph, &email,
		&lat, &lon, &amenities, &hd.Active,
		&hd.TotalRooms, &hd.AvailableRooms, &minPrice, &maxPrice, &hd.TotalBookings); err != nil {
		return domain.HotelDetails{}, mapErr(err)
	}
	hd.Address = nullStr(address)
	hd.Description = nullStr(desc)
	hd.Phone = nullStr(ph)
	hd.Email = nullStr(email)
	hd.Lat = nullF64(lat)
	hd.Lon = nullF64(lon)
	hd.Amenities = jsonList(amenities)
	hd.MinPrice = nullF64(minPrice)
	hd.MaxPrice = nullF64(maxPrice)
	return hd, nil
}

func (r *Repo) RoomTypeSummary(ctx context.Context, hotelID *int64) ([]domain.RoomTypeStats, error) {
	q := roomTypeSummaryPrefix
	var args []any
	if hotelID != nil {
		q += " AND r.hotel_id = ?"
		args = append(args, *hotelID)
	}
	q += roomTypeSummarySuffix

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]domain.RoomTypeStats, 0)
	for rows.Next() {
		var (
			st       domain.RoomTypeStats
			roomType string
		)
		if err := rows.Scan(&roomType, &st.Count, &st.MinPrice, &st.MaxPrice, &st.AvgPrice,
			&st.HotelName, &st.City); err != nil {
			return nil, mapErr(err)
		}
		st.Type = domain.RoomType(roomType)
		out = append(out, st)
	}
	return out, mapErr(rows.Err())
}

func (r *Repo) CitySummary(ctx context.Context, city string) (domain.CitySummary, error) {
	row := r.db.QueryRowContext(ctx, citySummarySQL, likePattern(city))

	var (
		cs                 domain.CitySummary
		avgStars           sql.NullFloat64
		minPrice, maxPrice sql.NullFloat64
	)
	if err := row.Scan(&cs.City, &cs.HotelCount, &cs.TotalRooms, &cs.AvailableRooms,
		&avgStars, &minPrice, &maxPrice); err != nil {
		return domain.CitySummary{}, mapErr(err)
	}
	if avgStars.Valid {
		cs.AvgStars = avgStars.Float64
	}
	cs.MinPrice = nullF64(minPrice)
	cs.MaxPrice = nullF64(maxPrice)
	return cs, nil
}

// likePattern wraps user input for substring LIKE matching, escaping
// the wildcards so they match literally.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

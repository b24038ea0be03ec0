package mysql

import (
	"context"

	"staybook/internal/domain"
)

// Write paths used only by cmd/seeder; the engine itself never creates
// catalog rows.

func (r *Repo) InsertHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.City, h.Address, h.Stars, h.Description, h.Phone, h.Email,
		h.Lat, h.Lon, mustJSON(h.Amenities))
	if err != nil {
		return 0, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func (r *Repo) InsertRoom(ctx context.Context, rm domain.Room) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, rm.Number, rm.Capacity, rm.PricePerNight, string(rm.Type),
		mustJSON(rm.Images), mustJSON(rm.Amenities))
	if err != nil {
		return 0, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

package httpserver

import (
	"staybook/internal/domain"
)

type hotelDTO struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Address     *string  `json:"address,omitempty"`
	Stars       int      `json:"stars"`
	Description *string  `json:"description,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Lat         *float64 `json:"latitude,omitempty"`
	Lon         *float64 `json:"longitude,omitempty"`
	Amenities   []string `json:"amenities"`
	Active      bool     `json:"is_active"`
}

type hotelSummaryDTO struct {
	hotelDTO
	TotalRooms     int      `json:"total_rooms"`
	AvailableRooms int      `json:"available_rooms"`
	MinPrice       *float64 `json:"min_price,omitempty"`
	MaxPrice       *float64 `json:"max_price,omitempty"`
}

type hotelDetailsDTO struct {
	hotelSummaryDTO
	TotalBookings int `json:"total_bookings"`
}

type roomDTO struct {
	ID            int64    `json:"id"`
	HotelID       int64    `json:"hotel_id"`
	Number        string   `json:"room_number"`
	Capacity      int      `json:"capacity"`
	PricePerNight float64  `json:"price_per_night"`
	Type          string   `json:"room_type"`
	Available     bool     `json:"is_available"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
}

type roomWithHotelDTO struct {
	roomDTO
	HotelName    string  `json:"hotel_name"`
	City         string  `json:"city"`
	HotelStars   int     `json:"hotel_stars"`
	HotelAddress *string `json:"hotel_address,omitempty"`
}

type roomTypeStatsDTO struct {
	Type      string  `json:"room_type"`
	Count     int     `json:"count"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	AvgPrice  float64 `json:"avg_price"`
	HotelName string  `json:"hotel_name,omitempty"`
	City      string  `json:"city,omitempty"`
}

type citySummaryDTO struct {
	City           string   `json:"city"`
	HotelCount     int      `json:"hotel_count"`
	TotalRooms     int      `json:"total_rooms"`
	AvailableRooms int      `json:"available_rooms"`
	AvgStars       float64  `json:"avg_stars"`
	MinPrice       *float64 `json:"min_price,omitempty"`
	MaxPrice       *float64 `json:"max_price,omitempty"`
}

type bookingViewDTO struct {
	ID            int64   `json:"id"`
	RoomID        int64   `json:"room_id"`
	GuestName     string  `json:"guest_name"`
	GuestEmail    string  `json:"guest_email"`
	GuestPhone    string  `json:"guest_phone"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	RoomNumber    string  `json:"room_number"`
	RoomType      string  `json:"room_type"`
	PricePerNight float64 `json:"price_per_night"`
	HotelID       int64   `json:"hotel_id"`
	HotelName     string  `json:"hotel_name"`
	City          string  `json:"city"`
}

type availabilityDTO struct {
	RoomID    int64  `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Available bool   `json:"available"`
}

type createBookingResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func toHotelDTO(h domain.Hotel) hotelDTO {
	return hotelDTO{
		ID: h.ID, Name: h.Name, City: h.City, Address: h.Address,
		Stars: h.Stars, Description: h.Description, Phone: h.Phone,
		Email: h.Email, Lat: h.Lat, Lon: h.Lon,
		Amenities: emptyIfNil(h.Amenities), Active: h.Active,
	}
}

func toHotelSummaryDTO(s domain.HotelSummary) hotelSummaryDTO {
	return hotelSummaryDTO{
		hotelDTO:       toHotelDTO(s.Hotel),
		TotalRooms:     s.TotalRooms,
		AvailableRooms: s.AvailableRooms,
		MinPrice:       s.MinPrice,
		MaxPrice:       s.MaxPrice,
	}
}

func toHotelSummaryDTOs(in []domain.HotelSummary) []hotelSummaryDTO {
	out := make([]hotelSummaryDTO, 0, len(in))
	for _, s := range in {
		out = append(out, toHotelSummaryDTO(s))
	}
	return out
}

func toHotelDetailsDTO(d domain.HotelDetails) hotelDetailsDTO {
	return hotelDetailsDTO{
		hotelSummaryDTO: toHotelSummaryDTO(domain.HotelSummary{
			Hotel: d.Hotel, TotalRooms: d.TotalRooms, AvailableRooms: d.AvailableRooms,
			MinPrice: d.MinPrice, MaxPrice: d.MaxPrice,
		}),
		TotalBookings: d.TotalBookings,
	}
}

func toRoomDTO(r domain.Room) roomDTO {
	return roomDTO{
		ID: r.ID, HotelID: r.HotelID, Number: r.Number, Capacity: r.Capacity,
		PricePerNight: r.PricePerNight, Type: string(r.Type), Available: r.Available,
		Amenities: emptyIfNil(r.Amenities), Images: emptyIfNil(r.Images),
	}
}

func toRoomDTOs(in []domain.Room) []roomDTO {
	out := make([]roomDTO, 0, len(in))
	for _, r := range in {
		out = append(out, toRoomDTO(r))
	}
	return out
}

func toRoomWithHotelDTOs(in []domain.RoomWithHotel) []roomWithHotelDTO {
	out := make([]roomWithHotelDTO, 0, len(in))
	for _, r := range in {
		out = append(out, roomWithHotelDTO{
			roomDTO:      toRoomDTO(r.Room),
			HotelName:    r.HotelName,
			City:         r.City,
			HotelStars:   r.HotelStars,
			HotelAddress: r.HotelAddress,
		})
	}
	return out
}

func toRoomTypeStatsDTOs(in []domain.RoomTypeStats) []roomTypeStatsDTO {
	out := make([]roomTypeStatsDTO, 0, len(in))
	for _, s := range in {
		out = append(out, roomTypeStatsDTO{
			Type: string(s.Type), Count: s.Count,
			MinPrice: s.MinPrice, MaxPrice: s.MaxPrice, AvgPrice: s.AvgPrice,
			HotelName: s.HotelName, City: s.City,
		})
	}
	return out
}

func toCitySummaryDTO(s domain.CitySummary) citySummaryDTO {
	return citySummaryDTO{
		City: s.City, HotelCount: s.HotelCount, TotalRooms: s.TotalRooms,
		AvailableRooms: s.AvailableRooms, AvgStars: s.AvgStars,
		MinPrice: s.MinPrice, MaxPrice: s.MaxPrice,
	}
}

func toBookingViewDTO(b domain.BookingView) bookingViewDTO {
	return bookingViewDTO{
		ID: b.ID, RoomID: b.RoomID,
		GuestName: b.GuestName, GuestEmail: b.GuestEmail, GuestPhone: b.GuestPhone,
		CheckIn:  b.Stay.CheckIn.Format(domain.DateLayout),
		CheckOut: b.Stay.CheckOut.Format(domain.DateLayout),
		Nights:   b.Stay.Nights(), TotalAmount: b.TotalAmount,
		Status: string(b.Status), CreatedAt: b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		RoomNumber: b.RoomNumber, RoomType: string(b.RoomType), PricePerNight: b.PricePerNight,
		HotelID: b.HotelID, HotelName: b.HotelName, City: b.City,
	}
}

func toBookingViewDTOs(in []domain.BookingView) []bookingViewDTO {
	out := make([]bookingViewDTO, 0, len(in))
	for _, b := range in {
		out = append(out, toBookingViewDTO(b))
	}
	return out
}

// emptyIfNil keeps list fields as [] rather than null on the wire.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package domain

// RoomType is the closed set of room categories.
type RoomType string

const (
	RoomSingle       RoomType = "single"
	RoomDouble       RoomType = "double"
	RoomSuite        RoomType = "suite"
	RoomDeluxe       RoomType = "deluxe"
	RoomPresidential RoomType = "presidential"
)

// ParseRoomType returns the matching RoomType, or false for anything
// outside the closed set.
func ParseRoomType(s string) (RoomType, bool) {
	switch RoomType(s) {
	case RoomSingle, RoomDouble, RoomSuite, RoomDeluxe, RoomPresidential:
		return RoomType(s), true
	}
	return "", false
}

type Hotel struct {
	ID          int64
	Name        string
	City        string
	Address     *string
	Stars       int // 1..5
	Description *string
	Phone       *string
	Email       *string
	Lat, Lon    *float64
	Amenities   []string
	Active      bool
}

type Room struct {
	ID            int64
	HotelID       int64
	Number        string // unique within the hotel
	Capacity      int    // 1..10
	PricePerNight float64
	Type          RoomType
	// Available is the cached "free right now" hint. It is never
	// authoritative for date-ranged availability; CountOverlaps is.
	Available bool
	Amenities []string
	Images    []string
}

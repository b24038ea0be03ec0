package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/app"
	"staybook/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	B *app.BookingService

	// Booking commands are rate limited per client IP.
	BookingRPS   float64
	BookingBurst int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/hotels", h.searchHotels)
	s.mux.Get("/v1/hotels/by-name/{name}", h.getHotelByName)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/summary", h.roomTypeSummary)
	s.mux.Get("/v1/rooms/{id}/availability", h.roomAvailability)
	s.mux.Get("/v1/cities/{city}/summary", h.citySummary)
	s.mux.Get("/v1/availability", h.searchAvailability)
	s.mux.Get("/v1/bookings/recent", h.recentBookings)
	s.mux.Get("/v1/bookings/{id}", h.getBooking)

	rps, burst := h.BookingRPS, h.BookingBurst
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	s.mux.Group(func(g chi.Router) {
		g.Use(RateLimit(rps, burst))
		g.Post("/v1/bookings", h.createBooking)
		g.Post("/v1/bookings/{id}/cancel", h.cancelBooking)
		g.Post("/v1/bookings/{id}/complete", h.completeBooking)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvariant):
		writeProblem(w, http.StatusConflict, "Illegal Transition", err.Error())
	case errors.Is(err, domain.ErrTransient):
		writeProblem(w, http.StatusServiceUnavailable, "Temporarily Unavailable", "please retry")
	default:
		log.Error().Err(err).Msg("unhandled request error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeWithETag serves v with a weak ETag, answering 304 to a matching
// If-None-Match.
func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ---- catalog reads ----

// searchHotels dispatches on which query parameters are present:
// ?city=, ?min_stars=, or ?min_price=&max_price=.
func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("city") != "":
		out, err := h.Q.SearchHotelsByCity(r.Context(), q.Get("city"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHotelSummaryDTOs(out))
	case q.Get("min_stars") != "":
		stars, err := strconv.Atoi(q.Get("min_stars"))
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid min_stars", "min_stars must be an integer")
			return
		}
		out, err := h.Q.SearchHotelsByMinStars(r.Context(), stars)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHotelSummaryDTOs(out))
	case q.Get("min_price") != "" || q.Get("max_price") != "":
		min, err1 := strconv.ParseFloat(q.Get("min_price"), 64)
		max, err2 := strconv.ParseFloat(q.Get("max_price"), 64)
		if err1 != nil || err2 != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid price range", "min_price and max_price must both be numbers")
			return
		}
		out, err := h.Q.SearchHotelsByPriceRange(r.Context(), min, max)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHotelSummaryDTOs(out))
	default:
		writeProblem(w, http.StatusBadRequest, "Missing filter", "provide city, min_stars, or min_price+max_price")
	}
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	hotel, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeWithETag(w, r, toHotelDTO(hotel))
}

func (h *Handlers) getHotelByName(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.HotelDetailsByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeWithETag(w, r, toHotelDetailsDTO(out))
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var f domain.RoomFilters
	q := r.URL.Query()
	if t := q.Get("room_type"); t != "" {
		rt, ok := domain.ParseRoomType(t)
		if !ok {
			writeProblem(w, http.StatusBadRequest, "Invalid room_type", "unknown room type "+t)
			return
		}
		f.Type = &rt
	}
	if mp := q.Get("max_price"); mp != "" {
		v, err := strconv.ParseFloat(mp, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid max_price", "max_price must be a number")
			return
		}
		f.MaxPrice = &v
	}
	out, err := h.Q.ListRooms(r.Context(), id, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTOs(out))
}

func (h *Handlers) roomTypeSummary(w http.ResponseWriter, r *http.Request) {
	var hotelID *int64
	if hs := r.URL.Query().Get("hotel_id"); hs != "" {
		id, err := strconv.ParseInt(hs, 10, 64)
		if err != nil || id <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid hotel_id", "hotel_id must be a positive number")
			return
		}
		hotelID = &id
	}
	out, err := h.Q.RoomTypeSummary(r.Context(), hotelID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomTypeStatsDTOs(out))
}

func (h *Handlers) citySummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.CitySummary(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCitySummaryDTO(out))
}

// ---- availability reads ----

func (h *Handlers) searchAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var roomType *string
	if t := q.Get("room_type"); t != "" {
		roomType = &t
	}
	var maxPrice *float64
	if mp := q.Get("max_price"); mp != "" {
		v, err := strconv.ParseFloat(mp, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid max_price", "max_price must be a number")
			return
		}
		maxPrice = &v
	}
	out, err := h.Q.SearchAvailableRooms(r.Context(), q.Get("city"), q.Get("check_in"), q.Get("check_out"), roomType, maxPrice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomWithHotelDTOs(out))
}

func (h *Handlers) roomAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	q := r.URL.Query()
	free, err := h.Q.IsRoomAvailable(r.Context(), id, q.Get("check_in"), q.Get("check_out"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityDTO{
		RoomID: id, CheckIn: q.Get("check_in"), CheckOut: q.Get("check_out"), Available: free,
	})
}

// ---- booking reads ----

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	out, err := h.B.GetBookingDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingViewDTO(out))
}

func (h *Handlers) recentBookings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer")
			return
		}
		limit = l
	}
	out, err := h.Q.RecentBookings(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingViewDTOs(out))
}

// ---- booking commands ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req app.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	id, err := h.B.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createBookingResponse{ID: id, Status: string(domain.StatusConfirmed)})
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	// body is optional; a missing or empty one just means no reason given
	_ = json.NewDecoder(r.Body).Decode(&body)
	if err := h.B.CancelBooking(r.Context(), id, body.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusCancelled)})
}

func (h *Handlers) completeBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	if err := h.B.CompleteBooking(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusCompleted)})
}

package mysql

// -----------------------------------------------------------------------------
// CATALOG READS
// -----------------------------------------------------------------------------

const getHotelSQL = `
SELECT id, name, city, address, stars, description, phone, email, lat, lon, amenities, is_active
FROM hotels
WHERE id = ?
`

const getRoomSQL = `
SELECT id, hotel_id, room_number, capacity, price_per_night, room_type, is_available, amenities, image_urls
FROM hotel_rooms
WHERE id = ?
`

// City/stars searches share the aggregate shape of the original tool
// queries: hotel row + total and currently-available room counts.
const findHotelsByCitySQL = `
SELECT h.id, h.name, h.city, h.address, h.stars, h.description, h.phone, h.email,
       h.lat, h.lon, h.amenities, h.is_active,
       COUNT(r.id)                                          AS total_rooms,
       COUNT(CASE WHEN r.is_available THEN 1 END)           AS available_rooms
FROM hotels h
LEFT JOIN hotel_rooms r ON r.hotel_id = h.id
WHERE LOWER(h.city) LIKE LOWER(?) AND h.is_active = TRUE
GROUP BY h.id
ORDER BY h.stars DESC, h.name, h.id
`

const findHotelsByMinStarsSQL = `
SELECT h.id, h.name, h.city, h.address, h.stars, h.description, h.phone, h.email,
       h.lat, h.lon, h.amenities, h.is_active,
       COUNT(r.id)                                          AS total_rooms,
       COUNT(CASE WHEN r.is_available THEN 1 END)           AS available_rooms
FROM hotels h
LEFT JOIN hotel_rooms r ON r.hotel_id = h.id
WHERE h.stars >= ? AND h.is_active = TRUE
GROUP BY h.id
ORDER BY h.stars DESC, h.name, h.id
`

const findHotelsByPriceRangeSQL = `
SELECT h.id, h.name, h.city, h.address, h.stars, h.description, h.phone, h.email,
       h.lat, h.lon, h.amenities, h.is_active,
       COUNT(r.id)                                          AS total_rooms,
       COUNT(CASE WHEN r.is_available THEN 1 END)           AS available_rooms,
       MIN(r.price_per_night)                               AS min_price,
       MAX(r.price_per_night)                               AS max_price
FROM hotels h
JOIN hotel_rooms r ON r.hotel_id = h.id
WHERE r.price_per_night BETWEEN ? AND ?
  AND r.is_available = TRUE AND h.is_active = TRUE
GROUP BY h.id
ORDER BY h.stars DESC, h.name, h.id
`

// Several hotels can match a name pattern; the stable order makes
// "first match" deterministic.
const findHotelByNameSQL = `
SELECT h.id, h.name, h.city, h.address, h.stars, h.description, h.phone, h.email,
       h.lat, h.lon, h.amenities, h.is_active,
       COUNT(DISTINCT r.id)                                 AS total_rooms,
       COUNT(DISTINCT CASE WHEN r.is_available THEN r.id END) AS available_rooms,
       MIN(r.price_per_night)                               AS min_price,
       MAX(r.price_per_night)                               AS max_price,
       COUNT(b.id)                                          AS total_bookings
FROM hotels h
LEFT JOIN hotel_rooms r ON r.hotel_id = h.id
LEFT JOIN bookings b ON b.room_id = r.id
WHERE LOWER(h.name) LIKE LOWER(?) AND h.is_active = TRUE
GROUP BY h.id
ORDER BY h.stars DESC, h.name, h.id
LIMIT 1
`

const listRoomsByHotelPrefix = `
SELECT id, hotel_id, room_number, capacity, price_per_night, room_type, is_available, amenities, image_urls
FROM hotel_rooms
WHERE hotel_id = ?
`

const roomTypeSummaryPrefix = `
SELECT r.room_type,
       COUNT(*)               AS available_count,
       MIN(r.price_per_night) AS min_price,
       MAX(r.price_per_night) AS max_price,
       AVG(r.price_per_night) AS avg_price,
       h.name                 AS hotel_name,
       h.city
FROM hotel_rooms r
JOIN hotels h ON h.id = r.hotel_id
WHERE r.is_available = TRUE AND h.is_active = TRUE
`

const roomTypeSummarySuffix = `
GROUP BY r.room_type, h.name, h.city
ORDER BY avg_price ASC
`

const citySummarySQL = `
SELECT h.city,
       COUNT(DISTINCT h.id)                        AS hotel_count,
       COUNT(r.id)                                 AS total_rooms,
       COUNT(CASE WHEN r.is_available THEN 1 END)  AS available_rooms,
       AVG(h.stars)                                AS avg_stars,
       MIN(r.price_per_night)                      AS min_price,
       MAX(r.price_per_night)                      AS max_price
FROM hotels h
LEFT JOIN hotel_rooms r ON r.hotel_id = h.id
WHERE LOWER(h.city) LIKE LOWER(?) AND h.is_active = TRUE
GROUP BY h.city
LIMIT 1
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

// countOverlapsSQL is the two-clause half-open interval test:
// [a,b) and [c,d) overlap iff a < d AND c < b.
// Params: roomID, checkOut, checkIn.
const countOverlapsSQL = `
SELECT COUNT(*)
FROM bookings
WHERE room_id = ? AND status = 'confirmed'
  AND check_in < ? AND ? < check_out
`

// lockRoomSQL pins the room row for the duration of a booking
// transaction so that concurrent overlap checks serialize on it.
const lockRoomSQL = `
SELECT r.id, r.price_per_night, h.is_active
FROM hotel_rooms r
JOIN hotels h ON h.id = r.hotel_id
WHERE r.id = ?
FOR UPDATE
`

const insertBookingSQL = `
INSERT INTO bookings (room_id, guest_name, guest_email, guest_phone, check_in, check_out, total_amount, status)
VALUES (?, ?, ?, ?, ?, ?, ?, 'confirmed')
`

const getBookingSQL = `
SELECT id, room_id, guest_name, guest_email, guest_phone, check_in, check_out, total_amount, status, created_at
FROM bookings
WHERE id = ?
`

const getConfirmedBookingSQL = getBookingSQL + `AND status = 'confirmed'
`

// lockConfirmedBookingSQL loads a confirmed booking for a status
// transition, holding its row until the transaction ends.
const lockConfirmedBookingSQL = getConfirmedBookingSQL + `FOR UPDATE
`

const setBookingStatusSQL = `
UPDATE bookings SET status = ? WHERE id = ?
`

const setRoomAvailableSQL = `
UPDATE hotel_rooms SET is_available = ? WHERE id = ?
`

const searchAvailableRoomsPrefix = `
SELECT r.id, r.hotel_id, r.room_number, r.capacity, r.price_per_night, r.room_type,
       r.is_available, r.amenities, r.image_urls,
       h.name, h.city, h.stars, h.address
FROM hotel_rooms r
JOIN hotels h ON h.id = r.hotel_id
WHERE h.is_active = TRUE
  AND LOWER(h.city) LIKE LOWER(?)
  AND NOT EXISTS (
        SELECT 1 FROM bookings b
        WHERE b.room_id = r.id AND b.status = 'confirmed'
          AND b.check_in < ? AND ? < b.check_out
  )
`

const searchAvailableRoomsSuffix = `
ORDER BY h.stars DESC, r.price_per_night ASC, r.id
`

const bookingViewSQL = `
SELECT b.id, b.room_id, b.guest_name, b.guest_email, b.guest_phone,
       b.check_in, b.check_out, b.total_amount, b.status, b.created_at,
       r.room_number, r.room_type, r.price_per_night,
       h.id, h.name, h.city
FROM bookings b
JOIN hotel_rooms r ON r.id = b.room_id
JOIN hotels h ON h.id = r.hotel_id
WHERE b.id = ?
`

const recentBookingsSQL = `
SELECT b.id, b.room_id, b.guest_name, b.guest_email, b.guest_phone,
       b.check_in, b.check_out, b.total_amount, b.status, b.created_at,
       r.room_number, r.room_type, r.price_per_night,
       h.id, h.name, h.city
FROM bookings b
JOIN hotel_rooms r ON r.id = b.room_id
JOIN hotels h ON h.id = r.hotel_id
WHERE h.is_active = TRUE
ORDER BY b.created_at DESC, b.id DESC
LIMIT ?
`

// -----------------------------------------------------------------------------
// SEEDING (cmd/seeder)
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels (name, city, address, stars, description, phone, email, lat, lon, amenities, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
`

const insertRoomSQL = `
INSERT INTO hotel_rooms (hotel_id, room_number, capacity, price_per_night, room_type, is_available, image_urls, amenities)
VALUES (?, ?, ?, ?, ?, TRUE, ?, ?)
`

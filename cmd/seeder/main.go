package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

// seedHotel is one hotel with its rooms, written as a unit by a worker.
type seedHotel struct {
	hotel domain.Hotel
	rooms []domain.Room
}

var cities = []string{"Miami", "New York", "Chicago", "Denver", "Seattle"}

var roomTypes = []struct {
	t     domain.RoomType
	price float64
	cap   int
}{
	{domain.RoomSingle, 90, 1},
	{domain.RoomDouble, 140, 2},
	{domain.RoomSuite, 250, 4},
	{domain.RoomDeluxe, 320, 4},
	{domain.RoomPresidential, 600, 6},
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	// fixed seed keeps the generated catalog reproducible across runs
	rng := rand.New(rand.NewSource(42))
	plan := buildPlan(rng)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	roomIDs := make(chan int64, 256)
	for _, sh := range plan {
		sh := sh

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(int64(1))

			hotelID, err := repo.InsertHotel(ctx, sh.hotel)
			if err != nil {
				log.Warn().Str("hotel", sh.hotel.Name).Err(err).Msg("seed hotel failed")
				return
			}
			for _, rm := range sh.rooms {
				rm.HotelID = hotelID
				rid, err := repo.InsertRoom(ctx, rm)
				if err != nil {
					log.Warn().Str("room", rm.Number).Err(err).Msg("seed room failed")
					continue
				}
				roomIDs <- rid
			}
			log.Info().Int64("id", hotelID).Str("hotel", sh.hotel.Name).Msg("seed ok")
		}()
	}

	go func() { wg.Wait(); close(roomIDs) }()

	var ids []int64
	for id := range roomIDs {
		ids = append(ids, id)
	}

	seedBookings(ctx, repo, rng, ids)
	log.Info().Int("hotels", len(plan)).Int("rooms", len(ids)).Msg("seeding completed")
}

func buildPlan(rng *rand.Rand) []seedHotel {
	var plan []seedHotel
	for _, city := range cities {
		for i := 1; i <= 3; i++ {
			name := fmt.Sprintf("%s Grand Hotel %d", city, i)
			addr := fmt.Sprintf("%d Main Street, %s", 100+rng.Intn(900), city)
			desc := fmt.Sprintf("A comfortable stay in the heart of %s.", city)
			sh := seedHotel{hotel: domain.Hotel{
				Name:        name,
				City:        city,
				Address:     &addr,
				Stars:       2 + rng.Intn(4),
				Description: &desc,
				Amenities:   []string{"wifi", "parking", "gym"},
				Active:      true,
			}}
			for f := 1; f <= 2; f++ {
				for n, rt := range roomTypes {
					sh.rooms = append(sh.rooms, domain.Room{
						Number:        fmt.Sprintf("%d0%d", f, n+1),
						Capacity:      rt.cap,
						PricePerNight: rt.price + float64(rng.Intn(40)),
						Type:          rt.t,
						Amenities:     []string{"tv", "minibar"},
						Images:        []string{},
					})
				}
			}
			plan = append(plan, sh)
		}
	}
	return plan
}

// seedBookings creates a spread of confirmed stays: some starting in the
// future, some spanning today so the cached room flag flips, and a few
// cancelled afterwards to exercise the lifecycle.
func seedBookings(ctx context.Context, repo *mysqlrepo.Repo, rng *rand.Rand, roomIDs []int64) {
	if len(roomIDs) == 0 {
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)

	guests := []struct{ name, email, phone string }{
		{"Alice Moore", "alice@example.com", "+1 305 555 0101"},
		{"Bruno Keller", "bruno@example.com", "+1 212 555 0144"},
		{"Chen Wei", "chen@example.com", "+1 312 555 0190"},
		{"Dana Flint", "dana@example.com", "+1 720 555 0113"},
	}

	var created []int64
	for i := 0; i < 40 && i < len(roomIDs); i++ {
		roomID := roomIDs[rng.Intn(len(roomIDs))]
		g := guests[rng.Intn(len(guests))]

		// offset -2..+13 lets some stays straddle today
		start := today.AddDate(0, 0, rng.Intn(16)-2)
		nights := 1 + rng.Intn(5)
		stay := domain.Stay{CheckIn: start, CheckOut: start.AddDate(0, 0, nights)}

		room, err := repo.GetRoom(ctx, roomID)
		if err != nil {
			continue
		}
		id, err := repo.CreateBooking(ctx, domain.NewBooking{
			RoomID:      roomID,
			GuestName:   g.name,
			GuestEmail:  g.email,
			GuestPhone:  g.phone,
			Stay:        stay,
			TotalAmount: float64(nights) * room.PricePerNight,
			Today:       today,
		})
		if err != nil {
			// overlap on a room already booked in this loop is expected
			log.Debug().Int64("room_id", roomID).Err(err).Msg("seed booking skipped")
			continue
		}
		created = append(created, id)
	}

	// cancel roughly one in five to leave lifecycle history behind
	for _, id := range created {
		if rng.Intn(5) == 0 {
			if err := repo.CancelBooking(ctx, id, today); err != nil {
				log.Warn().Int64("booking_id", id).Err(err).Msg("seed cancel failed")
			}
		}
	}
	log.Info().Int("bookings", len(created)).Msg("seed bookings done")
}

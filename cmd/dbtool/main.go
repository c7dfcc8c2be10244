package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/schollz/progressbar/v3"

	"tiffin-route-service/internal/adapters/cache"
	"tiffin-route-service/internal/adapters/geocoding"
	"tiffin-route-service/internal/adapters/repositories"
	"tiffin-route-service/internal/config"
	"tiffin-route-service/internal/platform/db"
	"tiffin-route-service/internal/platform/obs"
)

const geocodeBatchSize = 10

var (
	seedPath    = flag.String("seed", "", "seed file to load (defaults to SEED_PATH)")
	skipSeed    = flag.Bool("skip-seed", false, "only initialise the schema")
	skipGeocode = flag.Bool("skip-geocode", false, "do not geocode addresses without coordinates")
)

func newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		obs.Logger().WithError(err).Fatal("load config")
	}
	obs.SetLogger(obs.NewLogger(cfg.LogLevel, os.Stderr))
	log := obs.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer conn.Close()

	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.WithError(err).Fatal("schema initialization failed")
	}
	log.Info("Schema ready.")

	if !*skipSeed {
		path := cfg.SeedPath
		if *seedPath != "" {
			path = *seedPath
		}

		f, err := repositories.LoadSeedFile(path)
		if err != nil {
			log.WithError(err).Fatal("read seed file")
		}

		bar := newBar(f.Records(), "seeding")
		if err := repositories.Seed(ctx, conn, f, func() { _ = bar.Add(1) }); err != nil {
			log.WithError(err).Fatal("seeding failed")
		}
		log.WithField("path", path).WithField("rows", f.Records()).Info("Seeding complete.")
	}

	if *skipGeocode {
		return
	}
	if !cfg.GeocodingEnabled() {
		log.Info("ORS_API_KEY not set, skipping geocoding")
		return
	}

	geocoder, err := geocoding.NewORSGeocoder(cfg.ORSAPIKey,
		geocoding.WithCountry(cfg.ORSCountry),
		geocoding.WithCache(cache.NewSQLGeocodeCache(conn)),
	)
	if err != nil {
		log.WithError(err).Fatal("create geocoder")
	}

	orders := repositories.NewSQLOrderRepository(conn)
	addresses, err := orders.ListUnlocatedAddresses(ctx)
	if err != nil {
		log.WithError(err).Fatal("list unlocated addresses")
	}
	if len(addresses) == 0 {
		log.Info("Every address is located.")
		return
	}

	bar := newBar(len(addresses), "geocoding")
	resolved := 0
	for start := 0; start < len(addresses); start += geocodeBatchSize {
		end := min(start+geocodeBatchSize, len(addresses))
		batch := addresses[start:end]

		coords, err := geocoder.Geocode(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				log.WithError(err).Fatal("geocoding interrupted")
			}
			log.WithError(err).WithField("resolved", len(coords)).Warn("some addresses failed to geocode")
		}
		if err := orders.SaveAddressCoordinates(ctx, coords); err != nil {
			log.WithError(err).Fatal("save coordinates")
		}
		resolved += len(coords)
		_ = bar.Add(len(batch))
	}

	log.WithField("resolved", resolved).
		WithField("unresolved", len(addresses)-resolved).
		Info("Geocoding complete.")
}

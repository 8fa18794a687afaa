package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"transport-editor/internal/config"
	"transport-editor/internal/customdata"
	"transport-editor/internal/logging"
	"transport-editor/internal/models"
	"transport-editor/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const defaultSender = "0x0000000000000000000000000000000000000000"

type PlaceRecord struct {
	Address  string
	Locality string
	Region   string
	Country  string
	Lat      float64
	Lon      float64
}

type ProductRecord struct {
	ID         string
	CustomData string
}

func main() {
	placesFile := flag.String("places", "", "Path to a places CSV file (address,locality,region,country,latitude,longitude)")
	table := flag.String("table", "", "Places table to import into (default from config)")
	productsFile := flag.String("products", "", "Path to a products CSV file (id,custom_data_json)")
	sender := flag.String("sender", defaultSender, "Identity recorded on seeded product versions")
	flag.Parse()

	if *placesFile == "" && *productsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --places or --products flag is required")
		flag.Usage()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if *table == "" {
		*table = cfg.PlacesTable
	}

	ctx := context.Background()

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer pool.Close()

	// Ensure tables exist
	if err := repository.EnsureSchema(ctx, pool, *table); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	if *placesFile != "" {
		log.Info().Str("file", *placesFile).Str("table", *table).Msg("importing places")

		records, err := parsePlaces(*placesFile)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot parse places")
		}

		n, err := insertPlaces(ctx, pool, *table, records)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot insert places")
		}

		if n > 0 {
			if err := verifyImport(ctx, pool, *table); err != nil {
				log.Fatal().Err(err).Msg("cannot verify import")
			}
		}
		log.Info().Int64("records", n).Msg("places imported")
	}

	if *productsFile != "" {
		log.Info().Str("file", *productsFile).Msg("importing products")

		records, err := parseProducts(*productsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot parse products")
		}

		registry := repository.NewRegistryRepository(pool)
		created := 0
		for _, r := range records {
			ok, err := registry.CreateProduct(ctx, r.ID, r.CustomData, *sender)
			if err != nil {
				log.Fatal().Err(err).Str("product_id", r.ID).Msg("cannot create product")
			}
			if !ok {
				log.Warn().Str("product_id", r.ID).Msg("product already exists, skipped")
				continue
			}
			created++
		}
		log.Info().Int("records", len(records)).Int("created", created).Msg("products imported")
	}
}

func openCSV(filePath string) (*os.File, *csv.Reader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	if _, err := reader.Read(); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	return file, reader, nil
}

func parsePlaces(filePath string) ([]PlaceRecord, error) {
	file, reader, err := openCSV(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []PlaceRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) < 6 {
			return nil, fmt.Errorf("invalid record length: %d, expected at least 6 columns", len(record))
		}

		lat, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", record[4])
		}

		lon, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", record[5])
		}

		if !(models.Coordinates{Latitude: lat, Longitude: lon}).Valid() {
			return nil, fmt.Errorf("coordinates out of range: %s,%s", record[4], record[5])
		}

		records = append(records, PlaceRecord{
			Address:  record[0],
			Locality: record[1],
			Region:   record[2],
			Country:  record[3],
			Lat:      lat,
			Lon:      lon,
		})
	}

	return records, nil
}

func parseProducts(filePath string) ([]ProductRecord, error) {
	file, reader, err := openCSV(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []ProductRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) < 2 || record[0] == "" {
			return nil, fmt.Errorf("invalid product record: %v", record)
		}

		// Reject documents the editor could not open later.
		if _, err := customdata.Load(record[1]); err != nil {
			return nil, fmt.Errorf("product %s: %w", record[0], err)
		}

		records = append(records, ProductRecord{ID: record[0], CustomData: record[1]})
	}

	return records, nil
}

func insertPlaces(ctx context.Context, pool *pgxpool.Pool, table string, records []PlaceRecord) (int64, error) {
	// Use CopyFrom for bulk insert
	return pool.CopyFrom(
		ctx,
		pgx.Identifier{table},
		[]string{"address", "locality", "region", "country", "geom"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			geom := fmt.Sprintf("SRID=4326;POINT(%s %s)", // PostGIS format: lon lat
				strconv.FormatFloat(r.Lon, 'f', -1, 64), strconv.FormatFloat(r.Lat, 'f', -1, 64))
			return []interface{}{r.Address, r.Locality, r.Region, r.Country, geom}, nil
		}),
	)
}

func verifyImport(ctx context.Context, pool *pgxpool.Pool, table string) error {
	// Check a sample geom
	var geom string
	query := fmt.Sprintf("SELECT ST_AsText(geom) FROM %s LIMIT 1", pgx.Identifier{table}.Sanitize())
	if err := pool.QueryRow(ctx, query).Scan(&geom); err != nil {
		return fmt.Errorf("failed to check geom: %w", err)
	}

	log.Debug().Str("geom", geom).Msg("sample geom")
	return nil
}

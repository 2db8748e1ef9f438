package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flightSchema = `
CREATE TABLE IF NOT EXISTS flights (
	id                TEXT PRIMARY KEY,
	position          BIGINT NOT NULL,
	airline           TEXT NOT NULL,
	origin            TEXT NOT NULL,
	origin_code       TEXT NOT NULL,
	destination       TEXT NOT NULL,
	destination_code  TEXT NOT NULL,
	departure_date    TEXT NOT NULL,
	departure_time    TEXT NOT NULL,
	arrival_time      TEXT NOT NULL DEFAULT '',
	duration          TEXT NOT NULL DEFAULT '',
	class             TEXT NOT NULL,
	stops             INT NOT NULL DEFAULT 0,
	base_price        DOUBLE PRECISION NOT NULL,
	total_seats       INT NOT NULL,
	passengers_booked INT NOT NULL DEFAULT 0 CHECK (passengers_booked >= 0),
	discount_percent  DOUBLE PRECISION NOT NULL DEFAULT 0,
	discount_label    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS flights_position_idx ON flights (position);
`

const flightColumns = `id, airline, origin, origin_code, destination, destination_code,
	departure_date, departure_time, arrival_time, duration, class, stops,
	base_price, total_seats, passengers_booked, discount_percent, discount_label`

// PostgresFlightRepository stores the catalog in PostgreSQL. Occupancy is
// changed with a conditional UPDATE so it never exceeds capacity.
type PostgresFlightRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFlightRepository(pool *pgxpool.Pool) *PostgresFlightRepository {
	return &PostgresFlightRepository{pool: pool}
}

// Migrate creates the flights table if needed
func (r *PostgresFlightRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, flightSchema); err != nil {
		return fmt.Errorf("failed to migrate flights: %w", err)
	}
	return nil
}

// Seed inserts flights when the table is empty and reports how many were written
func (r *PostgresFlightRepository) Seed(ctx context.Context, flights []*models.Flight) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM flights`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count flights: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	rows := make([][]any, len(flights))
	for i, f := range flights {
		rows[i] = []any{
			f.ID, int64(i), f.Airline, f.Origin, f.OriginCode, f.Destination, f.DestinationCode,
			f.DepartureDate, f.DepartureTime, f.ArrivalTime, f.Duration, string(f.Class), f.Stops,
			f.BasePrice, f.TotalSeats, f.PassengersBooked, f.DiscountPercent, f.DiscountLabel,
		}
	}
	n, err := r.pool.CopyFrom(ctx, pgx.Identifier{"flights"}, []string{
		"id", "position", "airline", "origin", "origin_code", "destination", "destination_code",
		"departure_date", "departure_time", "arrival_time", "duration", "class", "stops",
		"base_price", "total_seats", "passengers_booked", "discount_percent", "discount_label",
	}, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to seed flights: %w", err)
	}
	return int(n), nil
}

func (r *PostgresFlightRepository) List(ctx context.Context) ([]*models.Flight, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	flights := make([]*models.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PostgresFlightRepository) Get(ctx context.Context, id string) (*models.Flight, error) {
	f, err := scanFlight(r.pool.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	return f, nil
}

// Prepend inserts f ahead of every existing flight
func (r *PostgresFlightRepository) Prepend(ctx context.Context, f *models.Flight) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO flights (id, position, airline, origin, origin_code, destination, destination_code,
			departure_date, departure_time, arrival_time, duration, class, stops,
			base_price, total_seats, passengers_booked, discount_percent, discount_label)
		VALUES ($1, (SELECT COALESCE(MIN(position), 0) - 1 FROM flights), $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, f.ID, f.Airline, f.Origin, f.OriginCode, f.Destination, f.DestinationCode,
		f.DepartureDate, f.DepartureTime, f.ArrivalTime, f.Duration, string(f.Class), f.Stops,
		f.BasePrice, f.TotalSeats, f.PassengersBooked, f.DiscountPercent, f.DiscountLabel)
	if err != nil {
		return fmt.Errorf("failed to insert flight: %w", err)
	}
	return nil
}

func (r *PostgresFlightRepository) ReserveUnits(ctx context.Context, id string, units int) (*models.Flight, error) {
	if units <= 0 {
		return nil, models.NewValidationError("passengers", "must be positive")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	f, err := scanFlight(tx.QueryRow(ctx, `
		UPDATE flights
		SET passengers_booked = passengers_booked + $2
		WHERE id = $1 AND passengers_booked + $2 <= total_seats
		RETURNING `+flightColumns, id, units))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check flight: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("flight %s: %w", id, models.ErrSoldOut)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reserve units: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}
	return f, nil
}

func (r *PostgresFlightRepository) ReleaseUnits(ctx context.Context, id string, units int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE flights SET passengers_booked = GREATEST(passengers_booked - $2, 0) WHERE id = $1
	`, id, units)
	if err != nil {
		return fmt.Errorf("failed to release units: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func scanFlight(row pgx.Row) (*models.Flight, error) {
	var f models.Flight
	var class string
	err := row.Scan(
		&f.ID, &f.Airline, &f.Origin, &f.OriginCode, &f.Destination, &f.DestinationCode,
		&f.DepartureDate, &f.DepartureTime, &f.ArrivalTime, &f.Duration, &class, &f.Stops,
		&f.BasePrice, &f.TotalSeats, &f.PassengersBooked, &f.DiscountPercent, &f.DiscountLabel,
	)
	if err != nil {
		return nil, err
	}
	f.Class = models.FlightClass(class)
	return &f, nil
}

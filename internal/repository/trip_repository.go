package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wayfarer/internal/models"
)

type tripRepository struct {
	db *sqlx.DB
}

func NewTripRepository(db *sqlx.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	if trip.TripID == "" {
		trip.TripID = uuid.New().String()
	}

	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	query := `
		INSERT INTO trips (trip_id, owner_id, title, destination, start_date, end_date, notes, created_at, updated_at)
		VALUES (:trip_id, :owner_id, :title, :destination, :start_date, :end_date, :notes, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, trip)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}

	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, tripID string) (*models.Trip, error) {
	var trip models.Trip

	err := r.db.GetContext(ctx, &trip, `SELECT * FROM trips WHERE trip_id = $1`, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get trip by id: %w", err)
	}

	return &trip, nil
}

func (r *tripRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	trips := []*models.Trip{}

	query := `
		SELECT * FROM trips
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &trips, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}

	return trips, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *models.Trip) error {
	trip.UpdatedAt = time.Now()

	query := `
		UPDATE trips
		SET title = :title, destination = :destination, start_date = :start_date,
		    end_date = :end_date, notes = :notes, updated_at = :updated_at
		WHERE trip_id = :trip_id
	`

	result, err := r.db.NamedExecContext(ctx, query, trip)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("trip %s: %w", trip.TripID, models.ErrNotFound)
	}

	return nil
}

func (r *tripRepository) Delete(ctx context.Context, tripID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE trip_id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
	}

	return nil
}

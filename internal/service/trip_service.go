package service

import (
	"context"
	"fmt"
	"time"

	"wayfarer/internal/models"
	"wayfarer/internal/repository"
)

type TripRequest struct {
	Title       string     `json:"title"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Notes       string     `json:"notes"`
}

type TripService interface {
	CreateTrip(ctx context.Context, ownerID string, req TripRequest) (*models.Trip, error)
	GetTrip(ctx context.Context, tripID, actorID string) (*models.Trip, error)
	ListTrips(ctx context.Context, ownerID string) ([]*models.Trip, error)
	UpdateTrip(ctx context.Context, tripID, actorID string, req TripRequest) (*models.Trip, error)
	DeleteTrip(ctx context.Context, tripID, actorID string) error
}

type tripService struct {
	tripRepo repository.TripRepository
}

func NewTripService(tripRepo repository.TripRepository) TripService {
	return &tripService{tripRepo: tripRepo}
}

func (s *tripService) CreateTrip(ctx context.Context, ownerID string, req TripRequest) (*models.Trip, error) {
	trip := &models.Trip{
		OwnerID:     ownerID,
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID, actorID string) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.OwnerID != actorID {
		return nil, fmt.Errorf("trip %s: %w", tripID, models.ErrForbidden)
	}

	return trip, nil
}

func (s *tripService) ListTrips(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	return s.tripRepo.ListByOwner(ctx, ownerID)
}

func (s *tripService) UpdateTrip(ctx context.Context, tripID, actorID string, req TripRequest) (*models.Trip, error) {
	trip, err := s.GetTrip(ctx, tripID, actorID)
	if err != nil {
		return nil, err
	}

	trip.Title = req.Title
	trip.Destination = req.Destination
	trip.StartDate = req.StartDate
	trip.EndDate = req.EndDate
	trip.Notes = req.Notes

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

func (s *tripService) DeleteTrip(ctx context.Context, tripID, actorID string) error {
	if _, err := s.GetTrip(ctx, tripID, actorID); err != nil {
		return err
	}

	return s.tripRepo.Delete(ctx, tripID)
}

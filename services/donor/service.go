// File: services/donor/service.go
package donor

import (
	"context"
	"fmt"
	"time"

	donationRepo "bloodlink/database/repository/donation"
	donorRepo "bloodlink/database/repository/donor"
	"bloodlink/models"
	"bloodlink/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 72 * time.Hour

// DonorService handles donor registration, authentication and profile access.
type DonorService interface {
	Register(ctx context.Context, reg models.DonorRegistration) (*models.Donor, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.Donor, string, error)
	GetByAuthID(ctx context.Context, authUserID string) (*models.Donor, error)
	UpdateFCMToken(ctx context.Context, authUserID, token string) error
	MyDonations(ctx context.Context, authUserID string) ([]models.ScheduledDonation, error)
}

// DefaultDonorService is the production implementation.
type DefaultDonorService struct {
	Repo         donorRepo.DonorRepository
	DonationRepo donationRepo.DonationRepository
}

// Register creates the donor profile and returns it with a signed token.
func (s *DefaultDonorService) Register(ctx context.Context, reg models.DonorRegistration) (*models.Donor, string, error) {
	if existing, _ := s.Repo.GetByEmail(ctx, reg.Email); existing != nil {
		return nil, "", fmt.Errorf("a donor with email %s already exists", reg.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	donor := &models.Donor{
		ID:           uuid.New().String(),
		AuthUserID:   uuid.New().String(),
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		PhoneNumber:  reg.PhoneNumber,
		BloodGroup:   reg.BloodGroup,
	}
	if reg.Latitude != 0 || reg.Longitude != 0 {
		donor.LocationGeo = models.NewGeoPoint(reg.Latitude, reg.Longitude)
	}
	if err := s.Repo.Create(ctx, donor); err != nil {
		return nil, "", fmt.Errorf("failed to create donor: %w", err)
	}

	token, err := utils.GenerateToken(donor.AuthUserID, "donor", tokenLifetime)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return donor, token, nil
}

// Authenticate verifies credentials and returns the donor with a fresh token.
func (s *DefaultDonorService) Authenticate(ctx context.Context, email, password string) (*models.Donor, string, error) {
	donor, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(donor.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	token, err := utils.GenerateToken(donor.AuthUserID, "donor", tokenLifetime)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return donor, token, nil
}

func (s *DefaultDonorService) GetByAuthID(ctx context.Context, authUserID string) (*models.Donor, error) {
	return s.Repo.GetByAuthID(ctx, authUserID)
}

func (s *DefaultDonorService) UpdateFCMToken(ctx context.Context, authUserID, token string) error {
	donor, err := s.Repo.GetByAuthID(ctx, authUserID)
	if err != nil {
		return err
	}
	return s.Repo.UpdateFCMToken(ctx, donor.ID, token)
}

// MyDonations lists the donor's donations across both facility kinds.
func (s *DefaultDonorService) MyDonations(ctx context.Context, authUserID string) ([]models.ScheduledDonation, error) {
	donor, err := s.Repo.GetByAuthID(ctx, authUserID)
	if err != nil {
		return nil, err
	}
	return s.DonationRepo.ListByDonor(ctx, donor.ID)
}

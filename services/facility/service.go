// File: services/facility/service.go
package facility

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	facilityRepo "bloodlink/database/repository/facility"
	slotRepo "bloodlink/database/repository/slot"
	"bloodlink/models"
	"bloodlink/services/storage"
	"bloodlink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 72 * time.Hour

// SlotSetup is one weekly slot definition in a facility's schedule.
type SlotSetup struct {
	Weekday  time.Weekday `json:"weekday" binding:"min=0,max=6"`
	Start    int          `json:"start" binding:"required,min=0,max=1439"`
	End      int          `json:"end" binding:"required,min=1,max=1440"`
	Capacity int          `json:"capacity" binding:"required,min=1"`
}

// FacilityService handles facility registration, verification and slot setup.
type FacilityService interface {
	Register(ctx context.Context, reg models.FacilityRegistration) (*models.Facility, string, error)
	Authenticate(ctx context.Context, kind, email, password string) (*models.Facility, string, error)
	UploadLicense(ctx context.Context, kind, facilityID string, file multipart.File) (string, error)
	SetVerified(ctx context.Context, kind, facilityID string, verified bool) error
	SetupSlots(ctx context.Context, kind, facilityID string, setups []SlotSetup) ([]string, error)
	DeleteSlot(ctx context.Context, kind, facilityID, slotID string) error
}

// DefaultFacilityService is the production implementation.
type DefaultFacilityService struct {
	Repo       facilityRepo.FacilityRepository
	SlotRepo   slotRepo.SlotRepository
	StorageSvc storage.StorageService
}

// Register creates the facility record. Facilities start unverified and stay
// invisible to donors until an admin flips the flag.
func (s *DefaultFacilityService) Register(ctx context.Context, reg models.FacilityRegistration) (*models.Facility, string, error) {
	if existing, _ := s.Repo.GetByEmail(ctx, reg.Kind, reg.Email); existing != nil {
		return nil, "", fmt.Errorf("a facility with email %s already exists", reg.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	f := &models.Facility{
		ID:             uuid.New().String(),
		Kind:           reg.Kind,
		Name:           reg.Name,
		Email:          reg.Email,
		PasswordHash:   string(hash),
		Address:        reg.Address,
		City:           reg.City,
		PhoneNumber:    reg.PhoneNumber,
		OperatingHours: reg.OperatingHours,
		LicenseNumber:  reg.LicenseNumber,
		LocationGeo:    models.NewGeoPoint(reg.Latitude, reg.Longitude),
		Verified:       false,
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		return nil, "", fmt.Errorf("failed to create facility: %w", err)
	}

	token, err := utils.GenerateToken(f.ID, "facility", tokenLifetime)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return f, token, nil
}

// Authenticate verifies credentials and returns the facility with a token.
func (s *DefaultFacilityService) Authenticate(ctx context.Context, kind, email, password string) (*models.Facility, string, error) {
	f, err := s.Repo.GetByEmail(ctx, kind, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(f.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	token, err := utils.GenerateToken(f.ID, "facility", tokenLifetime)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return f, token, nil
}

// UploadLicense stores the license document and records its ID on the
// facility.
func (s *DefaultFacilityService) UploadLicense(ctx context.Context, kind, facilityID string, file multipart.File) (string, error) {
	f, err := s.Repo.GetByID(ctx, kind, facilityID)
	if err != nil {
		return "", fmt.Errorf("facility not found: %w", err)
	}

	docID, err := s.StorageSvc.UploadDocument(ctx, file, "licenses/"+kind)
	if err != nil {
		return "", err
	}
	if f.LicenseDocID != "" {
		if err := s.StorageSvc.DeleteDocument(ctx, f.LicenseDocID); err != nil {
			utils.GetLogger().Warn("Failed to delete replaced license document",
				zap.String("publicId", f.LicenseDocID), zap.Error(err))
		}
	}

	f.LicenseDocID = docID
	if err := s.Repo.Update(ctx, f); err != nil {
		return "", fmt.Errorf("failed to record license document: %w", err)
	}
	return docID, nil
}

func (s *DefaultFacilityService) SetVerified(ctx context.Context, kind, facilityID string, verified bool) error {
	return s.Repo.SetVerified(ctx, kind, facilityID, verified)
}

// SetupSlots replaces nothing: it appends the given weekly slot definitions.
func (s *DefaultFacilityService) SetupSlots(ctx context.Context, kind, facilityID string, setups []SlotSetup) ([]string, error) {
	if _, err := s.Repo.GetByID(ctx, kind, facilityID); err != nil {
		return nil, fmt.Errorf("facility not found: %w", err)
	}

	slots := make([]models.DonationSlot, 0, len(setups))
	for _, setup := range setups {
		if setup.End <= setup.Start {
			return nil, fmt.Errorf("slot end %d must be after start %d", setup.End, setup.Start)
		}
		slots = append(slots, models.DonationSlot{
			ID:           uuid.New().String(),
			FacilityID:   facilityID,
			FacilityKind: kind,
			Weekday:      setup.Weekday,
			Start:        setup.Start,
			End:          setup.End,
			Capacity:     setup.Capacity,
		})
	}
	return s.SlotRepo.CreateMany(ctx, slots)
}

func (s *DefaultFacilityService) DeleteSlot(ctx context.Context, kind, facilityID, slotID string) error {
	return s.SlotRepo.DeleteByID(ctx, kind, facilityID, slotID)
}

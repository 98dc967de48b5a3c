package services

import (
	"context"
	"sync"
	"time"

	"github.com/rideghana/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) UpdateSetup(ctx context.Context, id, fullName string, role models.Role) error {
	return m.Called(ctx, id, fullName, role).Error(0)
}

func (m *MockProfileRepository) UpdateDetails(ctx context.Context, id string, fullName, photoURL *string) error {
	return m.Called(ctx, id, fullName, photoURL).Error(0)
}

func (m *MockProfileRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	return m.Called(ctx, id, suspended).Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockProfileRepository) EnsurePassenger(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}

type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) GetByProfileID(ctx context.Context, profileID string) (*models.Driver, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverRepository) EnsureDriver(ctx context.Context, profileID string) error {
	return m.Called(ctx, profileID).Error(0)
}

func (m *MockDriverRepository) UpdateVehicle(ctx context.Context, profileID string, v models.VehicleDetails) error {
	return m.Called(ctx, profileID, v).Error(0)
}

func (m *MockDriverRepository) SetVerified(ctx context.Context, profileID string, verified bool) error {
	return m.Called(ctx, profileID, verified).Error(0)
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, profileID string, lat, lng float64) error {
	return m.Called(ctx, profileID, lat, lng).Error(0)
}

func (m *MockDriverRepository) ListAvailable(ctx context.Context, premiumOnly bool) ([]models.DriverListing, error) {
	args := m.Called(ctx, premiumOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DriverListing), args.Error(1)
}

func (m *MockDriverRepository) List(ctx context.Context) ([]models.DriverListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DriverListing), args.Error(1)
}

type MockRideRepository struct {
	mock.Mock
}

func (m *MockRideRepository) Create(ctx context.Context, r *models.Ride) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ride), args.Error(1)
}

func (m *MockRideRepository) Assign(ctx context.Context, rideID, driverID string, at time.Time) error {
	return m.Called(ctx, rideID, driverID, at).Error(0)
}

func (m *MockRideRepository) Start(ctx context.Context, rideID, driverID string, at time.Time) error {
	return m.Called(ctx, rideID, driverID, at).Error(0)
}

func (m *MockRideRepository) Complete(ctx context.Context, rideID, driverID string, at time.Time, tripCode string, finalPrice float64) error {
	return m.Called(ctx, rideID, driverID, at, tripCode, finalPrice).Error(0)
}

func (m *MockRideRepository) Cancel(ctx context.Context, rideID, actorID string, at time.Time) error {
	return m.Called(ctx, rideID, actorID, at).Error(0)
}

func (m *MockRideRepository) AdminCancel(ctx context.Context, rideID, adminID string, at time.Time) error {
	return m.Called(ctx, rideID, adminID, at).Error(0)
}

func (m *MockRideRepository) MarkPaymentConfirmed(ctx context.Context, rideID string) error {
	return m.Called(ctx, rideID).Error(0)
}

func (m *MockRideRepository) ListByPassenger(ctx context.Context, passengerID string) ([]models.Ride, error) {
	args := m.Called(ctx, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ride), args.Error(1)
}

func (m *MockRideRepository) ListByDriver(ctx context.Context, driverID string, status models.RideStatus) ([]models.Ride, error) {
	args := m.Called(ctx, driverID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ride), args.Error(1)
}

func (m *MockRideRepository) List(ctx context.Context) ([]models.Ride, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ride), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, reference string, at time.Time) error {
	return m.Called(ctx, reference, at).Error(0)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, r *models.Rating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRatingRepository) AverageForDriver(ctx context.Context, driverID string) (float64, int, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type MockWaitlistRepository struct {
	mock.Mock
}

func (m *MockWaitlistRepository) Create(ctx context.Context, e *models.WaitlistEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockWaitlistRepository) List(ctx context.Context) ([]models.WaitlistEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WaitlistEntry), args.Error(1)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendOTP(ctx context.Context, phone, code string) error {
	return m.Called(ctx, phone, code).Error(0)
}

type MockBlacklist struct {
	mock.Mock
}

func (m *MockBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return m.Called(ctx, tokenID, expiresAt).Error(0)
}

func (m *MockBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// memoryOTPStore is an in-process OTPStore with the same take and restore semantics.
type memoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]OTPEntry
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{entries: map[string]OTPEntry{}}
}

func (s *memoryOTPStore) Put(ctx context.Context, phone string, entry OTPEntry, keep time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = entry
	return nil
}

func (s *memoryOTPStore) Take(ctx context.Context, phone string) (*OTPEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[phone]
	if !ok {
		return nil, nil
	}
	delete(s.entries, phone)
	return &entry, nil
}

func (s *memoryOTPStore) Restore(ctx context.Context, phone string, entry OTPEntry, keep time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[phone]; ok || keep <= 0 {
		return false, nil
	}
	s.entries[phone] = entry
	return true, nil
}

func (s *memoryOTPStore) get(phone string) (OTPEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[phone]
	return entry, ok
}

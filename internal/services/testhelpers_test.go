package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"koinonia/internal/auth"
	"koinonia/internal/config"
	"koinonia/internal/constants"
	"koinonia/internal/db/repositories"
	"koinonia/internal/metrics"
	"koinonia/internal/models/entities"
	gormModels "koinonia/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&gormModels.Organization{},
		&gormModels.User{},
		&gormModels.MemberProfile{},
		&gormModels.Ministry{},
		&gormModels.MinistryAssignment{},
		&gormModels.Announcement{},
		&gormModels.Event{},
		&gormModels.EventRSVP{},
		&gormModels.PasswordResetToken{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	org := gormModels.Organization{Name: "First Church", Slug: "first-church", IsActive: true}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("Failed to seed organization: %v", err)
	}

	return db
}

// fakeAudit is an in-memory AuditLogger. It answers the windowed
// failure counts from its recorded entries, so limiter behavior can be
// tested without Postgres.
type fakeAudit struct {
	mu      sync.Mutex
	entries []entities.AuditLogEntry
}

func (f *fakeAudit) Log(_ context.Context, entry *entities.AuditLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAudit) CountLoginFailuresByIP(_ context.Context, ip string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, e := range f.entries {
		if e.ActionType == constants.ActionLoginFail && e.IPAddress == ip && e.Timestamp.After(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAudit) CountLoginFailuresByAccount(_ context.Context, accountID uint, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, e := range f.entries {
		if e.ActionType == constants.ActionLoginFail && e.AccountID != nil && *e.AccountID == accountID && e.Timestamp.After(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAudit) lastAction() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return ""
	}
	return f.entries[len(f.entries)-1].ActionType
}

func (f *fakeAudit) countAction(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.ActionType == action {
			n++
		}
	}
	return n
}

// seedLoginFailure backdates a failure by age so window-expiry cases
// are testable.
func (f *fakeAudit) seedLoginFailure(ip string, accountID *uint, age time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entities.AuditLogEntry{
		Timestamp:  time.Now().UTC().Add(-age),
		AccountID:  accountID,
		ActionType: constants.ActionLoginFail,
		IPAddress:  ip,
	})
}

// testHasher uses deliberately cheap argon2 parameters.
func testHasher() *auth.Hasher {
	return auth.NewHasher(config.Argon2Config{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func testMetrics() *metrics.Registry {
	return metrics.NewRegistry(prometheus.NewRegistry())
}

func testAuthService(t *testing.T, db *gorm.DB, audit *fakeAudit) *AuthService {
	t.Helper()
	return NewAuthService(
		db,
		repositories.NewOrgRepository(db),
		audit,
		testHasher(),
		auth.NewTokenIssuer("test-secret"),
		NewLoginLimiter(audit, 15*time.Minute, 5),
		testMetrics(),
		time.Hour,
		1,
	)
}

func createUser(t *testing.T, db *gorm.DB, email string, role constants.Role, status constants.Status, orgID uint) *gormModels.User {
	t.Helper()
	hash, err := testHasher().Hash("Sufficient!Pass9")
	if err != nil {
		t.Fatalf("Failed to hash fixture password: %v", err)
	}
	user := gormModels.User{
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		Status:         status,
		OrganizationID: orgID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create fixture user %s: %v", email, err)
	}
	profile := gormModels.MemberProfile{UserID: user.ID, FullName: email, OrganizationID: orgID}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create fixture profile for %s: %v", email, err)
	}
	return &user
}

func assignMinistry(t *testing.T, db *gorm.DB, userID, ministryID uint, isLead bool) {
	t.Helper()
	a := gormModels.MinistryAssignment{UserID: userID, MinistryID: ministryID, IsLead: isLead}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("Failed to create fixture assignment: %v", err)
	}
}

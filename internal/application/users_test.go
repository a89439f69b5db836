package application

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var frozenNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(legacy *fakeLegacy, target *fakeTarget, opts ...Option) *MigrationService {
	opts = append([]Option{
		WithPasswordCost(bcrypt.MinCost),
		WithClock(func() time.Time { return frozenNow }),
	}, opts...)
	return NewMigrationService(legacy, target, opts...)
}

func TestCleanUsername(t *testing.T) {
	assert.Equal(t, "mariorosi", CleanUsername("Mario Rossi"))
	assert.Equal(t, "lodie", CleanUsername("Élodie"))
	assert.Equal(t, "ana9", CleanUsername("Anna_99!"))
	assert.Equal(t, strings.Repeat("ab", 10), CleanUsername(strings.Repeat("ab", 15)))
	assert.Empty(t, CleanUsername("  --  "))
}

func TestValidateUsername(t *testing.T) {
	assert.Empty(t, ValidateUsername("mario_rossi"))
	assert.Contains(t, ValidateUsername("ab"), "username must be at least 3 characters long")
	assert.Contains(t, ValidateUsername(strings.Repeat("a", 31)), "username must not exceed 30 characters")
	assert.Contains(t, ValidateUsername("mario rossi"), "username can only contain letters, numbers, hyphens and underscores")

	problems := ValidateUsername("-mario__rossi")
	assert.Contains(t, problems, "username cannot contain consecutive hyphens or underscores")
	assert.Contains(t, problems, "username cannot start or end with hyphens or underscores")
}

func TestIsReservedUsername(t *testing.T) {
	assert.True(t, IsReservedUsername("Admin"))
	assert.True(t, IsReservedUsername("genealogy"))
	assert.False(t, IsReservedUsername("mariorosi"))
}

func TestBuildBio(t *testing.T) {
	assert.Equal(t, "Profession: Farmer. Born in: Napoli. Lives in: Roma.", BuildBio(domain.LegacyPerson{
		OccupationDescription: "Farmer",
		BirthCity:             "Napoli",
		ResidenceCity:         "Roma",
	}))
	assert.Equal(t, "Lives in: Roma.", BuildBio(domain.LegacyPerson{BirthCity: "0", ResidenceCity: "Roma"}))
	assert.Empty(t, BuildBio(domain.LegacyPerson{BirthCity: "0"}))
}

func TestMigrateUsersIsIdempotent(t *testing.T) {
	legacy := newFakeLegacy().imported()
	legacy.addPerson(domain.LegacyPerson{ID: 1, FirstName: "Mario", LastName: "Rossi", Email: " Mario@Example.com", Sex: 1, BirthDate: "1950-03-04"})
	legacy.addPerson(domain.LegacyPerson{ID: 2, FirstName: "Anna", LastName: "Bianchi", Email: "0", Sex: 2, BirthDate: "1828-01-01"})
	legacy.addPerson(domain.LegacyPerson{ID: 3, FirstName: "Luca", LastName: "Verdi"})
	target := &fakeTarget{}
	svc := newTestService(legacy, target)

	results, err := svc.MigrateUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, StatusCreated, r.Status, r.Name)
	}

	mario := target.users[0]
	assert.Equal(t, "mario@example.com", mario.Email)
	assert.Equal(t, "mariorosi", mario.Username)
	assert.Equal(t, "Mario Rossi", mario.Name)
	assert.Equal(t, domain.GenderMale, mario.Gender)
	require.NotNil(t, mario.DateOfBirth)
	assert.Equal(t, 1950, mario.DateOfBirth.Year())
	require.NotNil(t, mario.LegacyID)
	assert.Equal(t, uint(1), *mario.LegacyID)
	assert.Equal(t, domain.MigratedFromPerson, mario.CustomData.MigratedFrom)
	assert.Equal(t, frozenNow, mario.CustomData.MigrationDate)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(mario.Password), []byte("migrated_1")))

	anna := target.users[1]
	assert.Nil(t, anna.DateOfBirth)
	assert.Equal(t, domain.GenderFemale, anna.Gender)

	prefix := "temp_" + strconv.FormatInt(frozenNow.UnixNano(), 10) + "_"
	for _, u := range target.users[1:] {
		assert.True(t, strings.HasPrefix(u.Email, prefix), u.Email)
		assert.True(t, strings.HasSuffix(u.Email, "@"+DefaultEmailDomain), u.Email)
	}
	assert.NotEqual(t, target.users[1].Email, target.users[2].Email)

	again, err := svc.MigrateUsers(context.Background())
	require.NoError(t, err)
	for i, r := range again {
		assert.Equal(t, StatusAlreadyExists, r.Status)
		assert.Equal(t, results[i].NewID, r.NewID)
	}
	assert.Len(t, target.users, 3)
}

func TestMigrateUsersMatchesExistingEmail(t *testing.T) {
	legacy := newFakeLegacy().imported()
	legacy.addPerson(domain.LegacyPerson{ID: 4, FirstName: "Sara", Email: "Shared@Example.com "})
	target := &fakeTarget{users: []domain.User{{ID: 1, Email: "shared@example.com", Username: "sara"}}}

	results, err := newTestService(legacy, target).MigrateUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusAlreadyExists, results[0].Status)
	assert.Equal(t, uint(1), results[0].NewID)
	assert.Len(t, target.users, 1)
}

func TestGenerateUsername(t *testing.T) {
	legacy := newFakeLegacy().imported()
	legacy.addPerson(domain.LegacyPerson{ID: 5, Nickname: "Nonno"})
	legacy.addPerson(domain.LegacyPerson{ID: 6, Nickname: "Nonno"})
	legacy.addPerson(domain.LegacyPerson{ID: 7, Nickname: "Jo"})
	legacy.addPerson(domain.LegacyPerson{ID: 8, Nickname: "Admin"})
	legacy.addPerson(domain.LegacyPerson{ID: 9, Nickname: "Jo", FirstName: "Gianni", LastName: "Neri"})
	target := &fakeTarget{}

	_, err := newTestService(legacy, target, WithEmailDomain("example.org")).MigrateUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, target.users, 5)
	for _, u := range target.users {
		assert.Empty(t, ValidateUsername(u.Username), u.Username)
	}
	assert.Equal(t, "gianineri", target.users[4].Username)

	assert.Equal(t, "nono", target.users[0].Username)
	assert.Equal(t, "nono1", target.users[1].Username)
	assert.Equal(t, "user_7", target.users[2].Username)
	assert.Equal(t, "user_7", target.users[2].Name)
	assert.Equal(t, "admin1", target.users[3].Username)
	assert.True(t, strings.HasSuffix(target.users[3].Email, "@example.org"))
}

package application

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameBase       = 20
	maxUsernameAttempts   = 1000
	legacyDefaultBirthday = "1828-01-01"
)

var (
	usernameFormat      = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	usernameDoubleSep   = regexp.MustCompile(`[-_]{2,}`)
	usernameEdgeSep     = regexp.MustCompile(`^[-_]|[-_]$`)
	reservedUsernameSet = map[string]struct{}{}
)

func init() {
	for _, name := range []string{
		"admin", "administrator", "mod", "moderator", "support", "help", "info",
		"contact", "about", "terms", "privacy", "login", "logout", "register",
		"password", "reset", "email", "profile", "settings", "dashboard",
		"api", "api-docs", "docs", "documentation", "blog", "news", "forum",
		"search", "explore", "discover", "home", "index", "main", "root",
		"www", "web", "site", "app", "application", "system", "server",
		"test", "demo", "example", "sample", "temp", "tmp", "cache",
		"static", "assets", "images", "css", "js", "fonts", "media",
		"uploads", "downloads", "files", "data", "backup", "archive",
		"liveforever", "live", "forever", "family", "tree", "memorial",
		"tribute", "memory", "legacy", "heritage", "ancestry", "genealogy",
	} {
		reservedUsernameSet[name] = struct{}{}
	}
}

func IsReservedUsername(username string) bool {
	_, ok := reservedUsernameSet[strings.ToLower(username)]
	return ok
}

// ValidateUsername lists every format rule the username breaks.
func ValidateUsername(username string) []string {
	problems := make([]string, 0)
	if len(username) < 3 {
		problems = append(problems, "username must be at least 3 characters long")
	}
	if len(username) > 30 {
		problems = append(problems, "username must not exceed 30 characters")
	}
	if !usernameFormat.MatchString(username) {
		problems = append(problems, "username can only contain letters, numbers, hyphens and underscores")
	}
	if usernameDoubleSep.MatchString(username) {
		problems = append(problems, "username cannot contain consecutive hyphens or underscores")
	}
	if usernameEdgeSep.MatchString(username) {
		problems = append(problems, "username cannot start or end with hyphens or underscores")
	}
	return problems
}

// CleanUsername lowercases name, keeps ASCII letters and digits, collapses
// runs of the same character and truncates to 20 characters.
func CleanUsername(name string) string {
	var b strings.Builder
	var last rune
	for _, r := range strings.ToLower(name) {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			continue
		}
		if r == last {
			continue
		}
		b.WriteRune(r)
		last = r
		if b.Len() == maxUsernameBase {
			break
		}
	}
	return b.String()
}

func (s *MigrationService) generateUsername(ctx context.Context, person domain.LegacyPerson) (string, error) {
	base := CleanUsername(person.Nickname)
	if len(ValidateUsername(base)) > 0 {
		base = CleanUsername(person.FirstName + person.LastName)
	}
	if len(ValidateUsername(base)) > 0 {
		base = "user_" + strconv.FormatUint(uint64(person.ID), 10)
	}

	candidate := base
	for attempt := 1; attempt <= maxUsernameAttempts; attempt++ {
		if !IsReservedUsername(candidate) && len(ValidateUsername(candidate)) == 0 {
			taken, err := s.target.UsernameExists(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !taken {
				return candidate, nil
			}
		}
		candidate = base + strconv.Itoa(attempt)
	}
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8], nil
}

// syntheticEmail is unique per call: the timestamp alone is not, because the
// clock is injectable and may be frozen.
func (s *MigrationService) syntheticEmail() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("temp_%d_%s@%s", s.now().UnixNano(), random, s.emailDomain)
}

// BuildBio joins the legacy profession, birth place and residence into a
// short sentence list. The legacy "0" birth place means unknown.
func BuildBio(person domain.LegacyPerson) string {
	parts := make([]string, 0, 3)
	if v := strings.TrimSpace(person.OccupationDescription); v != "" {
		parts = append(parts, "Profession: "+v)
	}
	if v := strings.TrimSpace(person.BirthCity); v != "" && v != "0" {
		parts = append(parts, "Born in: "+v)
	}
	if v := strings.TrimSpace(person.ResidenceCity); v != "" {
		parts = append(parts, "Lives in: "+v)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}

func legacyLocation(person domain.LegacyPerson) string {
	if v := strings.TrimSpace(person.ResidenceCity); v != "" {
		return v
	}
	if v := strings.TrimSpace(person.BirthCity); v != "0" {
		return v
	}
	return ""
}

// MigrateUsers creates one user per legacy person. Persons already migrated
// (same legacy id or same email) are reported as already_exists.
func (s *MigrationService) MigrateUsers(ctx context.Context) ([]UserResult, error) {
	people, err := s.legacy.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("list legacy people: %w", err)
	}
	return s.migrateUsers(ctx, people)
}

func (s *MigrationService) migrateUsers(ctx context.Context, people []domain.LegacyPerson) ([]UserResult, error) {
	results := make([]UserResult, 0, len(people))
	for _, person := range people {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		user, status, err := s.ensureUser(ctx, person)
		result := UserResult{OldID: person.ID, Name: person.FullName(), Status: status}
		if err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
			s.logger.Error("failed to migrate user", zap.Uint("old_id", person.ID), zap.Error(err))
		} else {
			result.NewID = user.ID
			result.Email = user.Email
		}
		s.metrics.user(result.Status)
		results = append(results, result)
	}
	return results, nil
}

func (s *MigrationService) ensureUser(ctx context.Context, person domain.LegacyPerson) (domain.User, Status, error) {
	existing, err := s.target.GetUserByLegacyID(ctx, person.ID)
	if err == nil {
		return existing, StatusAlreadyExists, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, StatusFailed, err
	}

	email := ""
	if person.HasEmail() {
		email = strings.ToLower(strings.TrimSpace(person.Email))
		existing, err := s.target.GetUserByEmail(ctx, email)
		if err == nil {
			return existing, StatusAlreadyExists, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, StatusFailed, err
		}
	} else {
		email = s.syntheticEmail()
	}

	username, err := s.generateUsername(ctx, person)
	if err != nil {
		return domain.User{}, StatusFailed, fmt.Errorf("generate username: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("migrated_"+strconv.FormatUint(uint64(person.ID), 10)), s.passwordCost)
	if err != nil {
		return domain.User{}, StatusFailed, fmt.Errorf("hash placeholder password: %w", err)
	}

	birth := domain.ParseLegacyDate(person.BirthDate)
	if strings.HasPrefix(strings.TrimSpace(person.BirthDate), legacyDefaultBirthday) {
		birth = nil
	}

	legacyID := person.ID
	row := person
	name := person.FullName()
	if name == "" {
		name = username
	}
	user, err := s.target.CreateUser(ctx, domain.User{
		Name:        name,
		Email:       email,
		Username:    username,
		Password:    string(hash),
		Gender:      domain.GenderFromSex(person.Sex),
		DateOfBirth: birth,
		Location:    legacyLocation(person),
		Bio:         BuildBio(person),
		Profession:  strings.TrimSpace(person.OccupationDescription),
		IsPublic:    true,
		LegacyID:    &legacyID,
		CustomData: domain.UserCustomData{
			OldID:         person.ID,
			MigratedFrom:  domain.MigratedFromPerson,
			MigrationDate: s.now(),
			OldData:       &row,
		},
	})
	if err != nil {
		return domain.User{}, StatusFailed, err
	}
	s.logger.Debug("user created", zap.Uint("old_id", person.ID), zap.Uint("user_id", user.ID), zap.String("username", username))
	return user, StatusCreated, nil
}

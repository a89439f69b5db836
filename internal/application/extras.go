package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"go.uber.org/zap"
)

var knownLegacyTables = []string{
	"anagrafica",
	"genealogical_tree",
	"genealogical_tree_person",
	"genealogical_tree_template",
	"genealogical_tree_template_item",
	"citta",
}

const (
	kindEducation = "education"
	kindDeceased  = "deceased_profile"
)

var errUserNotMigrated = errors.New("legacy person has no migrated user")

func (s *MigrationService) migrateExtras(ctx context.Context, people []domain.LegacyPerson, report *Report) error {
	for _, person := range people {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.TrimSpace(person.EducationTitle) != "" {
			report.Education = append(report.Education, s.migrateEducation(ctx, person))
		}
		if domain.ParseLegacyDate(person.DeathDate) != nil {
			report.DeceasedProfiles = append(report.DeceasedProfiles, s.migrateDeceased(ctx, person))
		}
		report.Media = append(report.Media, s.migrateMedia(ctx, person)...)
	}

	cities, err := s.legacy.ListCities(ctx)
	if err != nil {
		return fmt.Errorf("list legacy cities: %w", err)
	}
	for _, c := range cities {
		report.Cities = append(report.Cities, CityResult{
			OldID:      c.ID,
			IstatCode:  c.IstatCode,
			Name:       c.Name,
			ProvinceID: c.ProvinceID,
			Status:     StatusPreserved,
		})
	}

	tables, err := s.legacy.ListExtraTables(ctx, knownLegacyTables)
	if err != nil {
		return fmt.Errorf("list additional legacy tables: %w", err)
	}
	for _, t := range tables {
		report.AdditionalTables = append(report.AdditionalTables, TableResult{
			TableName:   t.Name,
			RecordCount: t.RecordCount,
			Status:      StatusPreserved,
			Note:        "Table preserved for reference",
		})
	}
	return nil
}

func (s *MigrationService) provenance(person domain.LegacyPerson, oldValue string) domain.ProvenanceData {
	return domain.ProvenanceData{
		OldID:         person.ID,
		MigratedFrom:  domain.MigratedFromPerson,
		MigrationDate: s.now(),
		OldValue:      oldValue,
	}
}

func (s *MigrationService) migratedUser(ctx context.Context, person domain.LegacyPerson) (domain.User, error) {
	user, err := s.target.GetUserByLegacyID(ctx, person.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, errUserNotMigrated
	}
	return user, err
}

func (s *MigrationService) failExtra(result ExtraResult, err error) ExtraResult {
	result.Status = StatusFailed
	result.Error = err.Error()
	s.logger.Error("failed to migrate legacy record",
		zap.String("kind", result.Kind),
		zap.Uint("old_user_id", result.OldUserID),
		zap.Error(err),
	)
	s.metrics.extra(result.Kind, StatusFailed)
	return result
}

func (s *MigrationService) migrateEducation(ctx context.Context, person domain.LegacyPerson) ExtraResult {
	degree := strings.TrimSpace(person.EducationTitle)
	result := ExtraResult{Kind: kindEducation, OldUserID: person.ID, Detail: degree}

	user, err := s.migratedUser(ctx, person)
	if err != nil {
		return s.failExtra(result, err)
	}
	result.NewUserID = user.ID

	exists, err := s.target.HasEducation(ctx, person.ID)
	if err != nil {
		return s.failExtra(result, err)
	}
	if exists {
		result.Status = StatusAlreadyExists
		s.metrics.extra(result.Kind, result.Status)
		return result
	}

	edu, err := s.target.CreateEducation(ctx, domain.Education{
		UserID:         user.ID,
		LegacyPersonID: person.ID,
		Degree:         degree,
		CustomData:     s.provenance(person, degree),
	})
	if err != nil {
		return s.failExtra(result, err)
	}
	result.RecordID = edu.ID
	result.Status = StatusCreated
	s.metrics.extra(result.Kind, result.Status)
	return result
}

func (s *MigrationService) migrateDeceased(ctx context.Context, person domain.LegacyPerson) ExtraResult {
	result := ExtraResult{Kind: kindDeceased, OldUserID: person.ID, Detail: strings.TrimSpace(person.DeathDate)}

	user, err := s.migratedUser(ctx, person)
	if err != nil {
		return s.failExtra(result, err)
	}
	result.NewUserID = user.ID

	exists, err := s.target.HasDeceasedProfile(ctx, person.ID)
	if err != nil {
		return s.failExtra(result, err)
	}
	if exists {
		result.Status = StatusAlreadyExists
		s.metrics.extra(result.Kind, result.Status)
		return result
	}

	birthPlace := strings.TrimSpace(person.BirthCity)
	if birthPlace == "0" {
		birthPlace = ""
	}
	birth := domain.ParseLegacyDate(person.BirthDate)
	if strings.HasPrefix(strings.TrimSpace(person.BirthDate), legacyDefaultBirthday) {
		birth = nil
	}
	profile, err := s.target.CreateDeceasedProfile(ctx, domain.DeceasedProfile{
		CreatedBy:      user.ID,
		LegacyPersonID: person.ID,
		Name:           user.Name,
		BirthDate:      birth,
		DeathDate:      domain.ParseLegacyDate(person.DeathDate),
		BirthPlace:     birthPlace,
		CauseOfDeath:   strings.TrimSpace(person.CauseOfDeath),
		Biography:      BuildBio(person),
		IsPublic:       true,
		CustomData:     s.provenance(person, person.DeathDate),
	})
	if err != nil {
		return s.failExtra(result, err)
	}
	result.RecordID = profile.ID
	result.Status = StatusCreated
	s.metrics.extra(result.Kind, result.Status)
	return result
}

type mediaPlaceholder struct {
	kind        domain.MediaKind
	present     bool
	title       string
	description string
}

func (s *MigrationService) migrateMedia(ctx context.Context, person domain.LegacyPerson) []ExtraResult {
	placeholders := []mediaPlaceholder{
		{kind: domain.MediaProfilePicture, present: person.Image > 0, title: "Profile Picture", description: "Migrated profile picture"},
		{kind: domain.MediaPhoto, present: person.Photo > 0, title: "Photo", description: "Migrated photo"},
		{kind: domain.MediaDocument, present: person.Curriculum > 0, title: "Curriculum", description: "Migrated curriculum"},
	}

	results := make([]ExtraResult, 0)
	var user domain.User
	var userErr error
	resolved := false
	for _, ph := range placeholders {
		if !ph.present {
			continue
		}
		result := ExtraResult{Kind: string(ph.kind), OldUserID: person.ID}
		if !resolved {
			user, userErr = s.migratedUser(ctx, person)
			resolved = true
		}
		if userErr != nil {
			results = append(results, s.failExtra(result, userErr))
			continue
		}
		result.NewUserID = user.ID

		exists, err := s.target.HasMedia(ctx, person.ID, ph.kind)
		if err != nil {
			results = append(results, s.failExtra(result, err))
			continue
		}
		if exists {
			result.Status = StatusAlreadyExists
			s.metrics.extra(result.Kind, result.Status)
			results = append(results, result)
			continue
		}

		media, err := s.target.CreateMedia(ctx, domain.Media{
			UserID:         user.ID,
			LegacyPersonID: person.ID,
			Kind:           ph.kind,
			Title:          ph.title,
			Description:    ph.description,
			CustomData:     s.provenance(person, ""),
		})
		if err != nil {
			results = append(results, s.failExtra(result, err))
			continue
		}
		result.RecordID = media.ID
		result.Status = StatusCreated
		s.metrics.extra(result.Kind, result.Status)
		results = append(results, result)
	}
	return results
}

package application

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusCreated       Status = "created"
	StatusAlreadyExists Status = "already_exists"
	StatusFailed        Status = "failed"
	StatusSuccess       Status = "success"
	StatusPreserved     Status = "preserved"
)

// Scope selects which legacy data a run migrates. Core covers users and
// family trees; complete adds education, deceased profiles, media
// placeholders, cities and an inventory of leftover legacy tables.
type Scope string

const (
	ScopeCore     Scope = "core"
	ScopeComplete Scope = "complete"
)

func ParseScope(value string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(value))) {
	case "", ScopeCore:
		return ScopeCore, nil
	case ScopeComplete:
		return ScopeComplete, nil
	default:
		return "", fmt.Errorf("unknown scope %q", value)
	}
}

const (
	noteCore     = "Only core data migrated (Users + Family Trees)"
	noteComplete = "Complete legacy database migrated (Users, Family Trees, Education, Deceased Profiles, Media, Cities)"
)

type UserResult struct {
	OldID  uint   `json:"old_id"`
	NewID  uint   `json:"new_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

type TreeResult struct {
	OldTreeID      uint   `json:"old_tree_id"`
	NewTreeID      uint   `json:"new_tree_id,omitempty"`
	Status         Status `json:"status"`
	Error          string `json:"error,omitempty"`
	NodesCount     int    `json:"nodes_count"`
	EdgesCount     int    `json:"edges_count"`
	SkippedPersons []uint `json:"skipped_persons,omitempty"`
}

type BatchResult struct {
	Trees        []TreeResult `json:"trees"`
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
}

// ExtraResult reports one complete-scope record (education, deceased
// profile or media placeholder).
type ExtraResult struct {
	Kind      string `json:"kind"`
	OldUserID uint   `json:"old_user_id"`
	NewUserID uint   `json:"new_user_id,omitempty"`
	RecordID  uint   `json:"record_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
}

type CityResult struct {
	OldID      uint   `json:"old_id"`
	IstatCode  string `json:"cod_istat"`
	Name       string `json:"nome"`
	ProvinceID string `json:"provincia_id"`
	Status     Status `json:"status"`
}

type TableResult struct {
	TableName   string `json:"table_name"`
	RecordCount int64  `json:"record_count"`
	Status      Status `json:"status"`
	Note        string `json:"note"`
}

type Summary struct {
	Scope                    Scope     `json:"scope"`
	TotalUsersMigrated       int       `json:"total_users_migrated"`
	UsersCreated             int       `json:"users_created"`
	UsersAlreadyExisting     int       `json:"users_already_existing"`
	UsersFailed              int       `json:"users_failed"`
	TotalFamilyTreesMigrated int       `json:"total_family_trees_migrated"`
	FamilyTreesFailed        int       `json:"family_trees_failed"`
	TotalNodes               int       `json:"total_nodes"`
	TotalEdges               int       `json:"total_edges"`
	TotalEducationRecords    int       `json:"total_education_records,omitempty"`
	TotalDeceasedProfiles    int       `json:"total_deceased_profiles,omitempty"`
	TotalMediaFiles          int       `json:"total_media_files,omitempty"`
	TotalCities              int       `json:"total_cities,omitempty"`
	TotalAdditionalTables    int       `json:"total_additional_tables,omitempty"`
	MigrationDate            time.Time `json:"migration_date"`
	Status                   string    `json:"status"`
	Note                     string    `json:"note"`
}

type Report struct {
	Users            []UserResult  `json:"users"`
	FamilyTrees      BatchResult   `json:"family_trees"`
	Education        []ExtraResult `json:"education,omitempty"`
	DeceasedProfiles []ExtraResult `json:"deceased_profiles,omitempty"`
	Media            []ExtraResult `json:"media,omitempty"`
	Cities           []CityResult  `json:"cities,omitempty"`
	AdditionalTables []TableResult `json:"additional_tables,omitempty"`
	Summary          Summary       `json:"summary"`
}

func buildSummary(scope Scope, report Report, now time.Time) Summary {
	s := Summary{
		Scope:                    scope,
		TotalUsersMigrated:       len(report.Users),
		TotalFamilyTreesMigrated: report.FamilyTrees.SuccessCount,
		FamilyTreesFailed:        report.FamilyTrees.ErrorCount,
		MigrationDate:            now,
		Status:                   "completed",
		Note:                     noteCore,
	}
	for _, u := range report.Users {
		switch u.Status {
		case StatusCreated:
			s.UsersCreated++
		case StatusAlreadyExists:
			s.UsersAlreadyExisting++
		case StatusFailed:
			s.UsersFailed++
		}
	}
	for _, t := range report.FamilyTrees.Trees {
		s.TotalNodes += t.NodesCount
		s.TotalEdges += t.EdgesCount
	}
	if scope == ScopeComplete {
		s.Note = noteComplete
		s.TotalEducationRecords = countCreated(report.Education)
		s.TotalDeceasedProfiles = countCreated(report.DeceasedProfiles)
		s.TotalMediaFiles = countCreated(report.Media)
		s.TotalCities = len(report.Cities)
		s.TotalAdditionalTables = len(report.AdditionalTables)
	}
	return s
}

func countCreated(items []ExtraResult) int {
	n := 0
	for _, item := range items {
		if item.Status == StatusCreated {
			n++
		}
	}
	return n
}

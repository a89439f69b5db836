package domain

import (
	"strings"
	"time"
)

type Position string

const (
	PositionTop     Position = "top"
	PositionBottom  Position = "bottom"
	PositionLeft    Position = "left"
	PositionRight   Position = "right"
	PositionUnknown Position = "unknown"
)

// ParsePosition accepts the legacy Italian labels and their English
// equivalents. Anything else is PositionUnknown.
func ParsePosition(label string) Position {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "alto", "top":
		return PositionTop
	case "basso", "bottom":
		return PositionBottom
	case "sinistra", "left":
		return PositionLeft
	case "destra", "right":
		return PositionRight
	default:
		return PositionUnknown
	}
}

type Relation string

const (
	RelationParent  Relation = "parent"
	RelationChild   Relation = "child"
	RelationSibling Relation = "sibling"
	RelationSpouse  Relation = "spouse"
	RelationOther   Relation = "other"
	RelationUnknown Relation = "unknown"
)

// RelationFromTraid maps the legacy numeric relation code.
func RelationFromTraid(traid int) Relation {
	switch traid {
	case 1:
		return RelationParent
	case 2:
		return RelationChild
	case 3:
		return RelationSibling
	case 4:
		return RelationSpouse
	case 5:
		return RelationOther
	default:
		return RelationUnknown
	}
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func GenderFromSex(sex int) Gender {
	switch sex {
	case 1:
		return GenderMale
	case 2:
		return GenderFemale
	default:
		return GenderOther
	}
}

type LayoutType string

const (
	LayoutHierarchical LayoutType = "hierarchical"
	LayoutVertical     LayoutType = "vertical"
	LayoutCustom       LayoutType = "custom"
)

const DefaultTemplate = "st1"

func LayoutTypeFromTemplate(template string) LayoutType {
	switch template {
	case "st1":
		return LayoutHierarchical
	case "standard_as_pdf":
		return LayoutVertical
	default:
		return LayoutCustom
	}
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type RelationshipType string

const (
	RelationshipFamily   RelationshipType = "family"
	RelationshipMarriage RelationshipType = "marriage"
)

type InferredRelationship string

const (
	InferredParentChild InferredRelationship = "parent_child"
	InferredSibling     InferredRelationship = "sibling"
	InferredSpouse      InferredRelationship = "spouse"
)

const (
	EdgeTypeBezier      = "bezier"
	SourcePosition      = "position_inference"
	MigratedFromPerson  = "anagrafica"
	MigratedFromOldTree = "old_system"
)

type EdgeData struct {
	Inferred     bool                 `json:"inferred"`
	Confidence   Confidence           `json:"confidence"`
	Source       string               `json:"source"`
	Relationship InferredRelationship `json:"relationship"`
}

type UserCustomData struct {
	OldID         uint          `json:"old_id"`
	MigratedFrom  string        `json:"migrated_from"`
	MigrationDate time.Time     `json:"migration_date"`
	OldData       *LegacyPerson `json:"old_data,omitempty"`
}

type NodeCustomData struct {
	OldID         uint          `json:"old_id"`
	OldPosition   string        `json:"old_position"`
	OldTraid      int           `json:"old_traid"`
	OldPriority   int           `json:"old_priority"`
	MigratedFrom  string        `json:"migrated_from"`
	MigrationDate time.Time     `json:"migration_date"`
	PersonData    *LegacyPerson `json:"person_data,omitempty"`
}

type TemplateInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
}

type LayoutData struct {
	OldTreeID    uint         `json:"old_tree_id"`
	OldTemplate  string       `json:"old_template"`
	MigratedAt   time.Time    `json:"migrated_at"`
	TemplateInfo TemplateInfo `json:"template_info"`
	OldTreeData  *LegacyTree  `json:"old_tree_data,omitempty"`
}

// ProvenanceData links a complete-scope record back to its legacy person.
type ProvenanceData struct {
	OldID         uint      `json:"old_id"`
	MigratedFrom  string    `json:"migrated_from"`
	MigrationDate time.Time `json:"migration_date"`
	OldValue      string    `json:"old_value,omitempty"`
}

var legacyDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// ParseLegacyDate returns nil for empty or zero dates ("0000-00-00").
func ParseLegacyDate(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" || v == "0" || strings.HasPrefix(v, "0000-00-00") {
		return nil
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

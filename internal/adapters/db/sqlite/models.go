package sqlite

import (
	"time"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"gorm.io/datatypes"
)

type UserModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Email       string `gorm:"not null;uniqueIndex"`
	Username    string `gorm:"uniqueIndex"`
	Password    string `gorm:"not null"`
	Gender      string
	DateOfBirth *time.Time
	Location    string
	Bio         string
	Profession  string
	IsPublic    bool
	LegacyID    *uint `gorm:"uniqueIndex"`
	CustomData  datatypes.JSONType[domain.UserCustomData]
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserModel) TableName() string { return "users" }

type LayoutModel struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	Type       string `gorm:"not null"`
	LayoutData datatypes.JSONType[domain.LayoutData]
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LayoutModel) TableName() string { return "family_tree_layouts" }

type NodeModel struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"not null;index:idx_node_owner_profile,unique"`
	LayoutID   *uint
	ProfileID  uint   `gorm:"not null;index:idx_node_owner_profile,unique"`
	Relation   string `gorm:"not null"`
	X          int    `gorm:"column:x_position;not null"`
	Y          int    `gorm:"column:y_position;not null"`
	CustomData datatypes.JSONType[domain.NodeCustomData]
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (NodeModel) TableName() string { return "family_tree_nodes" }

type EdgeModel struct {
	ID               uint `gorm:"primaryKey"`
	UserID           uint `gorm:"not null;index"`
	LayoutID         *uint
	FromNodeID       uint   `gorm:"not null"`
	ToNodeID         uint   `gorm:"not null"`
	RelationshipType string `gorm:"not null"`
	EdgeType         string `gorm:"not null"`
	EdgeData         datatypes.JSONType[domain.EdgeData]
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (EdgeModel) TableName() string { return "family_tree_edges" }

type EducationModel struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint `gorm:"not null"`
	LegacyPersonID uint `gorm:"index"`
	Institution    string
	Degree         string
	FieldOfStudy   string
	Period         string
	Description    string
	CustomData     datatypes.JSONType[domain.ProvenanceData]
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (EducationModel) TableName() string { return "education" }

type DeceasedProfileModel struct {
	ID             uint   `gorm:"primaryKey"`
	CreatedBy      uint   `gorm:"not null"`
	LegacyPersonID uint   `gorm:"index"`
	Name           string `gorm:"not null"`
	BirthDate      *time.Time
	DeathDate      *time.Time
	BirthPlace     string
	CauseOfDeath   string
	Biography      string
	Relationship   string
	IsPublic       bool
	CustomData     datatypes.JSONType[domain.ProvenanceData]
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DeceasedProfileModel) TableName() string { return "deceased_profiles" }

type MediaModel struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"not null"`
	LegacyPersonID uint   `gorm:"index"`
	Type           string `gorm:"not null"`
	Title          string
	Description    string
	FilePath       *string
	CustomData     datatypes.JSONType[domain.ProvenanceData]
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (MediaModel) TableName() string { return "media" }

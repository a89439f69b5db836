package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

// LegacyPerson is one row of the legacy anagrafica table. Dates are kept as
// the raw text found in the dump.
type LegacyPerson struct {
	ID                    uint   `json:"id"`
	FirstName             string `json:"nome"`
	Nickname              string `json:"detta"`
	LastName              string `json:"cognome"`
	Sex                   int    `json:"sesso"`
	BirthDate             string `json:"datanascita"`
	DeathDate             string `json:"datamorte"`
	BirthCity             string `json:"cittanascita"`
	BirthProvince         string `json:"provincianascita"`
	BirthCountry          string `json:"nazionenascita"`
	Email                 string `json:"mail"`
	Phone                 string `json:"tel"`
	InsertedAt            string `json:"datainserimento"`
	UpdatedAt             string `json:"dataultimamodifica"`
	InsertedBy            int    `json:"idinseritore"`
	Image                 int    `json:"immagine"`
	ResidenceCity         string `json:"cittaresidenza"`
	ResidenceProvince     string `json:"provinciaresidenza"`
	ResidenceCountry      string `json:"nazioneresidenza"`
	FacebookLink          string `json:"linkfb"`
	TwitterLink           string `json:"linktweter"`
	YoutubeLink           string `json:"linkyoutube"`
	Curriculum            int    `json:"curriculum"`
	Photo                 int    `json:"foto"`
	LifeExtension         int    `json:"lifeextention"`
	Credits               int    `json:"crediti"`
	Occupation            int    `json:"occupazione"`
	OccupationDescription string `json:"descrizioneoccupazione"`
	FiscalCode            string `json:"cf"`
	EducationTitle        string `json:"titolodistudio"`
	CauseOfDeath          string `json:"causa_decesso"`
	Miscarriages          int    `json:"numeroaborti"`
}

func (p LegacyPerson) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// HasEmail treats the legacy default "0" as no address.
func (p LegacyPerson) HasEmail() bool {
	mail := strings.TrimSpace(p.Email)
	return mail != "" && mail != "0"
}

type LegacyTree struct {
	ID                    uint   `json:"id"`
	OwnerPersonID         uint   `json:"pid"`
	TemplateID            uint   `json:"gttid"`
	PaidAt                string `json:"payed_at"`
	Active                bool   `json:"flag_active"`
	StripePaymentIntentID string `json:"stripe_payment_intent_id"`
	Total                 string `json:"total"`
}

type LegacyTemplate struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Picture     string `json:"picture"`
	Template    string `json:"template"`
	Cost        string `json:"cost"`
}

type LegacyTemplateItem struct {
	ID         uint   `json:"id"`
	TemplateID uint   `json:"gttid"`
	MaxPersons int    `json:"max_persons"`
	Position   string `json:"position"`
	Priority   int    `json:"priority"`
	Traid      int    `json:"traid"`
}

// LegacyTreeMembership places a person in a tree. Priority and GroupSize are
// resolved from the template item referenced by TemplateItemID.
type LegacyTreeMembership struct {
	ID             uint   `json:"id"`
	TreeID         uint   `json:"gtid"`
	PersonID       uint   `json:"pid"`
	TemplateItemID uint   `json:"trid"`
	Position       string `json:"position"`
	Traid          int    `json:"traid"`
	Priority       int    `json:"priority"`
	GroupSize      int    `json:"max_persons"`
}

type LegacyCity struct {
	ID         uint   `json:"id"`
	IstatCode  string `json:"cod_istat"`
	Name       string `json:"nome"`
	ProvinceID string `json:"provincia_id"`
}

type AvailableTree struct {
	ID                  uint   `json:"id"`
	OwnerPersonID       uint   `json:"pid"`
	TemplateID          uint   `json:"gttid"`
	PaidAt              string `json:"payed_at"`
	TemplateTitle       string `json:"template_title"`
	TemplateDescription string `json:"template_description"`
}

type LegacyStats struct {
	People     int64 `json:"total_people"`
	Trees      int64 `json:"total_trees"`
	TreePeople int64 `json:"total_tree_people"`
	Templates  int64 `json:"total_templates"`
	Cities     int64 `json:"total_cities"`
}

type TableCount struct {
	Name        string `json:"table_name"`
	RecordCount int64  `json:"record_count"`
}

type User struct {
	ID          uint
	Name        string
	Email       string
	Username    string
	Password    string
	Gender      Gender
	DateOfBirth *time.Time
	Location    string
	Bio         string
	Profession  string
	IsPublic    bool
	LegacyID    *uint
	CustomData  UserCustomData
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TreeLayout struct {
	ID         uint
	UserID     uint
	Name       string
	Type       LayoutType
	IsDefault  bool
	LayoutData LayoutData
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type TreeNode struct {
	ID         uint
	UserID     uint
	LayoutID   *uint
	ProfileID  uint
	Relation   Relation
	X          int
	Y          int
	CustomData NodeCustomData
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type TreeEdge struct {
	ID               uint
	UserID           uint
	LayoutID         *uint
	FromNodeID       uint
	ToNodeID         uint
	RelationshipType RelationshipType
	EdgeType         string
	EdgeData         EdgeData
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Education struct {
	ID             uint
	UserID         uint
	LegacyPersonID uint
	Institution    string
	Degree         string
	FieldOfStudy   string
	Period         string
	Description    string
	CustomData     ProvenanceData
	CreatedAt      time.Time
}

type DeceasedProfile struct {
	ID             uint
	CreatedBy      uint
	LegacyPersonID uint
	Name           string
	BirthDate      *time.Time
	DeathDate      *time.Time
	BirthPlace     string
	CauseOfDeath   string
	Biography      string
	Relationship   string
	IsPublic       bool
	CustomData     ProvenanceData
	CreatedAt      time.Time
}

type MediaKind string

const (
	MediaProfilePicture MediaKind = "profile_picture"
	MediaPhoto          MediaKind = "photo"
	MediaDocument       MediaKind = "document"
)

// Media is a placeholder for a legacy file reference. The file itself is not
// copied, so FilePath stays empty.
type Media struct {
	ID             uint
	UserID         uint
	LegacyPersonID uint
	Kind           MediaKind
	Title          string
	Description    string
	FilePath       string
	CustomData     ProvenanceData
	CreatedAt      time.Time
}

type TargetStats struct {
	Users     int64 `json:"total_users"`
	Layouts   int64 `json:"total_family_trees"`
	Nodes     int64 `json:"total_nodes"`
	Edges     int64 `json:"total_edges"`
	Education int64 `json:"total_education"`
	Deceased  int64 `json:"total_deceased_profiles"`
	Media     int64 `json:"total_media"`
}

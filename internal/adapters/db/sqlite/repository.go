package sqlite

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type TargetRepository struct {
	db *gorm.DB
}

// Open uses the pure Go driver. gorm's own logger is silenced because the
// dump import expects and reports failing statements itself.
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

func NewTargetRepository(db *gorm.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

func (r *TargetRepository) GetUserByLegacyID(ctx context.Context, legacyID uint) (domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("legacy_id = ?", legacyID).First(&m).Error; err != nil {
		return domain.User{}, notFound(err)
	}
	return userFromModel(m), nil
}

func (r *TargetRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error; err != nil {
		return domain.User{}, notFound(err)
	}
	return userFromModel(m), nil
}

func (r *TargetRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&n).Error
	return n > 0, err
}

func (r *TargetRepository) CreateUser(ctx context.Context, value domain.User) (domain.User, error) {
	m := UserModel{
		Name:        value.Name,
		Email:       value.Email,
		Username:    value.Username,
		Password:    value.Password,
		Gender:      string(value.Gender),
		DateOfBirth: value.DateOfBirth,
		Location:    value.Location,
		Bio:         value.Bio,
		Profession:  value.Profession,
		IsPublic:    value.IsPublic,
		LegacyID:    value.LegacyID,
		CustomData:  datatypes.NewJSONType(value.CustomData),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.User{}, err
	}
	return userFromModel(m), nil
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Username:    m.Username,
		Password:    m.Password,
		Gender:      domain.Gender(m.Gender),
		DateOfBirth: m.DateOfBirth,
		Location:    m.Location,
		Bio:         m.Bio,
		Profession:  m.Profession,
		IsPublic:    m.IsPublic,
		LegacyID:    m.LegacyID,
		CustomData:  m.CustomData.Data(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *TargetRepository) CreateLayout(ctx context.Context, value domain.TreeLayout) (domain.TreeLayout, error) {
	m := LayoutModel{
		UserID:     value.UserID,
		Name:       value.Name,
		Type:       string(value.Type),
		LayoutData: datatypes.NewJSONType(value.LayoutData),
		IsDefault:  value.IsDefault,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.TreeLayout{}, err
	}
	return domain.TreeLayout{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		Type:       domain.LayoutType(m.Type),
		IsDefault:  m.IsDefault,
		LayoutData: m.LayoutData.Data(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func (r *TargetRepository) GetNode(ctx context.Context, userID, profileID uint) (domain.TreeNode, error) {
	var m NodeModel
	if err := r.db.WithContext(ctx).Where("user_id = ? AND profile_id = ?", userID, profileID).First(&m).Error; err != nil {
		return domain.TreeNode{}, notFound(err)
	}
	return nodeFromModel(m), nil
}

func (r *TargetRepository) CreateNode(ctx context.Context, value domain.TreeNode) (domain.TreeNode, error) {
	m := NodeModel{
		UserID:     value.UserID,
		LayoutID:   value.LayoutID,
		ProfileID:  value.ProfileID,
		Relation:   string(value.Relation),
		X:          value.X,
		Y:          value.Y,
		CustomData: datatypes.NewJSONType(value.CustomData),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.TreeNode{}, err
	}
	return nodeFromModel(m), nil
}

func nodeFromModel(m NodeModel) domain.TreeNode {
	return domain.TreeNode{
		ID:         m.ID,
		UserID:     m.UserID,
		LayoutID:   m.LayoutID,
		ProfileID:  m.ProfileID,
		Relation:   domain.Relation(m.Relation),
		X:          m.X,
		Y:          m.Y,
		CustomData: m.CustomData.Data(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *TargetRepository) CreateEdge(ctx context.Context, value domain.TreeEdge) (domain.TreeEdge, error) {
	m := EdgeModel{
		UserID:           value.UserID,
		LayoutID:         value.LayoutID,
		FromNodeID:       value.FromNodeID,
		ToNodeID:         value.ToNodeID,
		RelationshipType: string(value.RelationshipType),
		EdgeType:         value.EdgeType,
		EdgeData:         datatypes.NewJSONType(value.EdgeData),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.TreeEdge{}, err
	}
	return domain.TreeEdge{
		ID:               m.ID,
		UserID:           m.UserID,
		LayoutID:         m.LayoutID,
		FromNodeID:       m.FromNodeID,
		ToNodeID:         m.ToNodeID,
		RelationshipType: domain.RelationshipType(m.RelationshipType),
		EdgeType:         m.EdgeType,
		EdgeData:         m.EdgeData.Data(),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

func (r *TargetRepository) HasEducation(ctx context.Context, legacyPersonID uint) (bool, error) {
	return r.exists(ctx, &EducationModel{}, "legacy_person_id = ?", legacyPersonID)
}

func (r *TargetRepository) CreateEducation(ctx context.Context, value domain.Education) (domain.Education, error) {
	m := EducationModel{
		UserID:         value.UserID,
		LegacyPersonID: value.LegacyPersonID,
		Institution:    value.Institution,
		Degree:         value.Degree,
		FieldOfStudy:   value.FieldOfStudy,
		Period:         value.Period,
		Description:    value.Description,
		CustomData:     datatypes.NewJSONType(value.CustomData),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Education{}, err
	}
	value.ID = m.ID
	value.CreatedAt = m.CreatedAt
	return value, nil
}

func (r *TargetRepository) HasDeceasedProfile(ctx context.Context, legacyPersonID uint) (bool, error) {
	return r.exists(ctx, &DeceasedProfileModel{}, "legacy_person_id = ?", legacyPersonID)
}

func (r *TargetRepository) CreateDeceasedProfile(ctx context.Context, value domain.DeceasedProfile) (domain.DeceasedProfile, error) {
	m := DeceasedProfileModel{
		CreatedBy:      value.CreatedBy,
		LegacyPersonID: value.LegacyPersonID,
		Name:           value.Name,
		BirthDate:      value.BirthDate,
		DeathDate:      value.DeathDate,
		BirthPlace:     value.BirthPlace,
		CauseOfDeath:   value.CauseOfDeath,
		Biography:      value.Biography,
		Relationship:   value.Relationship,
		IsPublic:       value.IsPublic,
		CustomData:     datatypes.NewJSONType(value.CustomData),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.DeceasedProfile{}, err
	}
	value.ID = m.ID
	value.CreatedAt = m.CreatedAt
	return value, nil
}

func (r *TargetRepository) HasMedia(ctx context.Context, legacyPersonID uint, kind domain.MediaKind) (bool, error) {
	return r.exists(ctx, &MediaModel{}, "legacy_person_id = ? AND type = ?", legacyPersonID, string(kind))
}

func (r *TargetRepository) CreateMedia(ctx context.Context, value domain.Media) (domain.Media, error) {
	m := MediaModel{
		UserID:         value.UserID,
		LegacyPersonID: value.LegacyPersonID,
		Type:           string(value.Kind),
		Title:          value.Title,
		Description:    value.Description,
		CustomData:     datatypes.NewJSONType(value.CustomData),
	}
	if value.FilePath != "" {
		path := value.FilePath
		m.FilePath = &path
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Media{}, err
	}
	value.ID = m.ID
	value.CreatedAt = m.CreatedAt
	return value, nil
}

func (r *TargetRepository) Stats(ctx context.Context) (domain.TargetStats, error) {
	db := r.db.WithContext(ctx)
	var stats domain.TargetStats
	counts := []struct {
		model any
		dest  *int64
	}{
		{&UserModel{}, &stats.Users},
		{&LayoutModel{}, &stats.Layouts},
		{&NodeModel{}, &stats.Nodes},
		{&EdgeModel{}, &stats.Edges},
		{&EducationModel{}, &stats.Education},
		{&DeceasedProfileModel{}, &stats.Deceased},
		{&MediaModel{}, &stats.Media},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (r *TargetRepository) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error
	return n > 0, err
}

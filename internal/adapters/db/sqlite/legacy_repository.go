package sqlite

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"gorm.io/gorm"
)

type LegacyRepository struct {
	db *gorm.DB
}

func NewLegacyRepository(db *gorm.DB) *LegacyRepository {
	return &LegacyRepository{db: db}
}

// EnsureSchema creates the legacy tables that are missing and returns their
// names.
func (r *LegacyRepository) EnsureSchema(ctx context.Context) ([]string, error) {
	db := r.db.WithContext(ctx)
	created := make([]string, 0)
	for _, t := range legacyTables {
		if db.Migrator().HasTable(t.name) {
			continue
		}
		if err := db.Exec(t.ddl).Error; err != nil {
			return created, err
		}
		created = append(created, t.name)
	}
	return created, nil
}

func (r *LegacyRepository) Exec(ctx context.Context, statement string) error {
	return r.db.WithContext(ctx).Exec(normalizeMySQLLiterals(statement)).Error
}

func (r *LegacyRepository) HasTables(ctx context.Context, names ...string) (bool, error) {
	migrator := r.db.WithContext(ctx).Migrator()
	for _, name := range names {
		if !migrator.HasTable(name) {
			return false, nil
		}
	}
	return true, nil
}

func (r *LegacyRepository) CountPeople(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&LegacyPersonModel{}).Count(&n).Error
	return n, err
}

func (r *LegacyRepository) Stats(ctx context.Context) (domain.LegacyStats, error) {
	db := r.db.WithContext(ctx)
	var stats domain.LegacyStats
	if err := db.Model(&LegacyPersonModel{}).Count(&stats.People).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&LegacyTreeModel{}).Where("flag_active = ?", 1).Count(&stats.Trees).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&LegacyTreePersonModel{}).Count(&stats.TreePeople).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&LegacyTemplateModel{}).Count(&stats.Templates).Error; err != nil {
		return stats, err
	}
	if db.Migrator().HasTable(&LegacyCityModel{}) {
		if err := db.Model(&LegacyCityModel{}).Count(&stats.Cities).Error; err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (r *LegacyRepository) GetActiveTree(ctx context.Context, id uint) (domain.LegacyTree, error) {
	var m LegacyTreeModel
	err := r.db.WithContext(ctx).Where("id = ? AND flag_active = ?", id, 1).First(&m).Error
	if err != nil {
		return domain.LegacyTree{}, notFound(err)
	}
	return m.toDomain(), nil
}

func (r *LegacyRepository) ListActiveTrees(ctx context.Context) ([]domain.LegacyTree, error) {
	rows := make([]LegacyTreeModel, 0)
	if err := r.db.WithContext(ctx).Where("flag_active = ?", 1).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.LegacyTree, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *LegacyRepository) ListAvailableTrees(ctx context.Context) ([]domain.AvailableTree, error) {
	var rows []struct {
		ID                  uint    `gorm:"column:id"`
		PID                 uint    `gorm:"column:pid"`
		GTTID               uint    `gorm:"column:gttid"`
		PayedAt             *string `gorm:"column:payed_at"`
		TemplateTitle       *string `gorm:"column:template_title"`
		TemplateDescription *string `gorm:"column:template_description"`
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT gt.id AS id,
       gt.pid AS pid,
       gt.gttid AS gttid,
       gt.payed_at AS payed_at,
       gtt.title AS template_title,
       gtt.description AS template_description
FROM genealogical_tree gt
LEFT JOIN genealogical_tree_template gtt ON gtt.id = gt.gttid
WHERE gt.flag_active = 1
ORDER BY gt.id
`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AvailableTree, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.AvailableTree{
			ID:                  row.ID,
			OwnerPersonID:       row.PID,
			TemplateID:          row.GTTID,
			PaidAt:              deref(row.PayedAt),
			TemplateTitle:       deref(row.TemplateTitle),
			TemplateDescription: deref(row.TemplateDescription),
		})
	}
	return out, nil
}

func (r *LegacyRepository) GetTemplate(ctx context.Context, id uint) (domain.LegacyTemplate, error) {
	var m LegacyTemplateModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.LegacyTemplate{}, notFound(err)
	}
	return m.toDomain(), nil
}

// ListMemberships resolves priority and group size from the template item
// each membership points at. Missing items leave both at zero.
func (r *LegacyRepository) ListMemberships(ctx context.Context, treeID uint) ([]domain.LegacyTreeMembership, error) {
	var rows []struct {
		ID         uint
		Gtid       uint
		Pid        uint
		Trid       uint
		Position   string
		Traid      int
		Priority   int
		MaxPersons int
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT p.id,
       p.gtid,
       p.pid,
       p.trid,
       p.position,
       p.traid,
       COALESCE(i.priority, 0) AS priority,
       COALESCE(i.max_persons, 0) AS max_persons
FROM genealogical_tree_person p
LEFT JOIN genealogical_tree_template_item i ON i.id = p.trid
WHERE p.gtid = ?
ORDER BY p.traid, COALESCE(i.priority, 0), p.id
`, treeID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.LegacyTreeMembership, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LegacyTreeMembership{
			ID:             row.ID,
			TreeID:         row.Gtid,
			PersonID:       row.Pid,
			TemplateItemID: row.Trid,
			Position:       row.Position,
			Traid:          row.Traid,
			Priority:       row.Priority,
			GroupSize:      row.MaxPersons,
		})
	}
	return out, nil
}

func (r *LegacyRepository) GetPerson(ctx context.Context, id uint) (domain.LegacyPerson, error) {
	var m LegacyPersonModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.LegacyPerson{}, notFound(err)
	}
	return m.toDomain(), nil
}

func (r *LegacyRepository) ListPeople(ctx context.Context) ([]domain.LegacyPerson, error) {
	rows := make([]LegacyPersonModel, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.LegacyPerson, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *LegacyRepository) ListCities(ctx context.Context) ([]domain.LegacyCity, error) {
	db := r.db.WithContext(ctx)
	if !db.Migrator().HasTable(&LegacyCityModel{}) {
		return []domain.LegacyCity{}, nil
	}
	rows := make([]LegacyCityModel, 0)
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.LegacyCity, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.LegacyCity{ID: m.ID, IstatCode: m.CodIstat, Name: deref(m.Nome), ProvinceID: m.ProvinciaID})
	}
	return out, nil
}

// ListExtraTables counts rows of legacy-looking tables outside known.
func (r *LegacyRepository) ListExtraTables(ctx context.Context, known []string) ([]domain.TableCount, error) {
	db := r.db.WithContext(ctx)
	names, err := db.Migrator().GetTables()
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	out := make([]domain.TableCount, 0)
	for _, name := range names {
		if slices.Contains(known, name) {
			continue
		}
		if !strings.Contains(name, "genealogical") && !strings.Contains(name, "anagrafica") && !strings.Contains(name, "citta") {
			continue
		}
		var n int64
		if err := db.Table(name).Count(&n).Error; err != nil {
			return nil, err
		}
		out = append(out, domain.TableCount{Name: name, RecordCount: n})
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

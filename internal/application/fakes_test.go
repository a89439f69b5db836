package application

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
)

type fakeLegacy struct {
	people      map[uint]domain.LegacyPerson
	trees       map[uint]domain.LegacyTree
	templates   map[uint]domain.LegacyTemplate
	memberships map[uint][]domain.LegacyTreeMembership
	cities      []domain.LegacyCity
	extra       []domain.TableCount
	tables      map[string]bool
	executed    []string
	failExec    string
}

func newFakeLegacy() *fakeLegacy {
	return &fakeLegacy{
		people:      map[uint]domain.LegacyPerson{},
		trees:       map[uint]domain.LegacyTree{},
		templates:   map[uint]domain.LegacyTemplate{},
		memberships: map[uint][]domain.LegacyTreeMembership{},
		tables:      map[string]bool{},
	}
}

// imported marks the schema present, as after a dump import.
func (f *fakeLegacy) imported() *fakeLegacy {
	for _, name := range knownLegacyTables {
		f.tables[name] = true
	}
	return f
}

func (f *fakeLegacy) addPerson(p domain.LegacyPerson) {
	f.people[p.ID] = p
}

func (f *fakeLegacy) addTree(t domain.LegacyTree, members ...domain.LegacyTreeMembership) {
	f.trees[t.ID] = t
	for i := range members {
		members[i].TreeID = t.ID
	}
	f.memberships[t.ID] = members
}

func (f *fakeLegacy) EnsureSchema(context.Context) ([]string, error) {
	created := make([]string, 0)
	for _, name := range knownLegacyTables {
		if !f.tables[name] {
			f.tables[name] = true
			created = append(created, name)
		}
	}
	return created, nil
}

func (f *fakeLegacy) Exec(_ context.Context, statement string) error {
	if f.failExec != "" && strings.Contains(statement, f.failExec) {
		return errors.New("near \"" + f.failExec + "\": syntax error")
	}
	f.executed = append(f.executed, statement)
	return nil
}

func (f *fakeLegacy) HasTables(_ context.Context, names ...string) (bool, error) {
	for _, name := range names {
		if !f.tables[name] {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeLegacy) CountPeople(context.Context) (int64, error) {
	return int64(len(f.people)), nil
}

func (f *fakeLegacy) Stats(context.Context) (domain.LegacyStats, error) {
	stats := domain.LegacyStats{People: int64(len(f.people)), Templates: int64(len(f.templates)), Cities: int64(len(f.cities))}
	for _, t := range f.trees {
		if t.Active {
			stats.Trees++
		}
	}
	for _, m := range f.memberships {
		stats.TreePeople += int64(len(m))
	}
	return stats, nil
}

func (f *fakeLegacy) GetActiveTree(_ context.Context, id uint) (domain.LegacyTree, error) {
	t, ok := f.trees[id]
	if !ok || !t.Active {
		return domain.LegacyTree{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeLegacy) ListActiveTrees(context.Context) ([]domain.LegacyTree, error) {
	out := make([]domain.LegacyTree, 0)
	for _, t := range f.trees {
		if t.Active {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (f *fakeLegacy) ListAvailableTrees(ctx context.Context) ([]domain.AvailableTree, error) {
	trees, _ := f.ListActiveTrees(ctx)
	out := make([]domain.AvailableTree, 0, len(trees))
	for _, t := range trees {
		out = append(out, domain.AvailableTree{
			ID:            t.ID,
			OwnerPersonID: t.OwnerPersonID,
			TemplateID:    t.TemplateID,
			TemplateTitle: f.templates[t.TemplateID].Title,
		})
	}
	return out, nil
}

func (f *fakeLegacy) GetTemplate(_ context.Context, id uint) (domain.LegacyTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return domain.LegacyTemplate{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeLegacy) ListMemberships(_ context.Context, treeID uint) ([]domain.LegacyTreeMembership, error) {
	return slices.Clone(f.memberships[treeID]), nil
}

func (f *fakeLegacy) GetPerson(_ context.Context, id uint) (domain.LegacyPerson, error) {
	p, ok := f.people[id]
	if !ok {
		return domain.LegacyPerson{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeLegacy) ListPeople(context.Context) ([]domain.LegacyPerson, error) {
	out := make([]domain.LegacyPerson, 0, len(f.people))
	for _, p := range f.people {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (f *fakeLegacy) ListCities(context.Context) ([]domain.LegacyCity, error) {
	return f.cities, nil
}

func (f *fakeLegacy) ListExtraTables(context.Context, []string) ([]domain.TableCount, error) {
	return f.extra, nil
}

type fakeTarget struct {
	users     []domain.User
	layouts   []domain.TreeLayout
	nodes     []domain.TreeNode
	edges     []domain.TreeEdge
	education []domain.Education
	deceased  []domain.DeceasedProfile
	media     []domain.Media
}

func (f *fakeTarget) GetUserByLegacyID(_ context.Context, legacyID uint) (domain.User, error) {
	for _, u := range f.users {
		if u.LegacyID != nil && *u.LegacyID == legacyID {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeTarget) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeTarget) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTarget) CreateUser(_ context.Context, value domain.User) (domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, value.Email) {
			return domain.User{}, errors.New("UNIQUE constraint failed: users.email")
		}
	}
	value.ID = uint(len(f.users) + 1)
	value.CreatedAt = time.Now()
	f.users = append(f.users, value)
	return value, nil
}

func (f *fakeTarget) CreateLayout(_ context.Context, value domain.TreeLayout) (domain.TreeLayout, error) {
	value.ID = uint(len(f.layouts) + 1)
	f.layouts = append(f.layouts, value)
	return value, nil
}

func (f *fakeTarget) GetNode(_ context.Context, userID, profileID uint) (domain.TreeNode, error) {
	for _, n := range f.nodes {
		if n.UserID == userID && n.ProfileID == profileID {
			return n, nil
		}
	}
	return domain.TreeNode{}, domain.ErrNotFound
}

func (f *fakeTarget) CreateNode(ctx context.Context, value domain.TreeNode) (domain.TreeNode, error) {
	if _, err := f.GetNode(ctx, value.UserID, value.ProfileID); err == nil {
		return domain.TreeNode{}, errors.New("UNIQUE constraint failed: family_tree_nodes.user_id, family_tree_nodes.profile_id")
	}
	value.ID = uint(len(f.nodes) + 1)
	f.nodes = append(f.nodes, value)
	return value, nil
}

func (f *fakeTarget) CreateEdge(_ context.Context, value domain.TreeEdge) (domain.TreeEdge, error) {
	value.ID = uint(len(f.edges) + 1)
	f.edges = append(f.edges, value)
	return value, nil
}

func (f *fakeTarget) HasEducation(_ context.Context, legacyPersonID uint) (bool, error) {
	return slices.ContainsFunc(f.education, func(e domain.Education) bool { return e.LegacyPersonID == legacyPersonID }), nil
}

func (f *fakeTarget) CreateEducation(_ context.Context, value domain.Education) (domain.Education, error) {
	value.ID = uint(len(f.education) + 1)
	f.education = append(f.education, value)
	return value, nil
}

func (f *fakeTarget) HasDeceasedProfile(_ context.Context, legacyPersonID uint) (bool, error) {
	return slices.ContainsFunc(f.deceased, func(d domain.DeceasedProfile) bool { return d.LegacyPersonID == legacyPersonID }), nil
}

func (f *fakeTarget) CreateDeceasedProfile(_ context.Context, value domain.DeceasedProfile) (domain.DeceasedProfile, error) {
	value.ID = uint(len(f.deceased) + 1)
	f.deceased = append(f.deceased, value)
	return value, nil
}

func (f *fakeTarget) HasMedia(_ context.Context, legacyPersonID uint, kind domain.MediaKind) (bool, error) {
	return slices.ContainsFunc(f.media, func(m domain.Media) bool {
		return m.LegacyPersonID == legacyPersonID && m.Kind == kind
	}), nil
}

func (f *fakeTarget) CreateMedia(_ context.Context, value domain.Media) (domain.Media, error) {
	value.ID = uint(len(f.media) + 1)
	f.media = append(f.media, value)
	return value, nil
}

func (f *fakeTarget) Stats(context.Context) (domain.TargetStats, error) {
	return domain.TargetStats{
		Users:     int64(len(f.users)),
		Layouts:   int64(len(f.layouts)),
		Nodes:     int64(len(f.nodes)),
		Edges:     int64(len(f.edges)),
		Education: int64(len(f.education)),
		Deceased:  int64(len(f.deceased)),
		Media:     int64(len(f.media)),
	}, nil
}

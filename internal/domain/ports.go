package domain

import "context"

type LegacyRepository interface {
	EnsureSchema(ctx context.Context) ([]string, error)
	Exec(ctx context.Context, statement string) error
	HasTables(ctx context.Context, names ...string) (bool, error)
	CountPeople(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (LegacyStats, error)

	GetActiveTree(ctx context.Context, id uint) (LegacyTree, error)
	ListActiveTrees(ctx context.Context) ([]LegacyTree, error)
	ListAvailableTrees(ctx context.Context) ([]AvailableTree, error)
	GetTemplate(ctx context.Context, id uint) (LegacyTemplate, error)
	ListMemberships(ctx context.Context, treeID uint) ([]LegacyTreeMembership, error)

	GetPerson(ctx context.Context, id uint) (LegacyPerson, error)
	ListPeople(ctx context.Context) ([]LegacyPerson, error)
	ListCities(ctx context.Context) ([]LegacyCity, error)
	ListExtraTables(ctx context.Context, known []string) ([]TableCount, error)
}

type TargetRepository interface {
	GetUserByLegacyID(ctx context.Context, legacyID uint) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, value User) (User, error)

	CreateLayout(ctx context.Context, value TreeLayout) (TreeLayout, error)
	GetNode(ctx context.Context, userID, profileID uint) (TreeNode, error)
	CreateNode(ctx context.Context, value TreeNode) (TreeNode, error)
	CreateEdge(ctx context.Context, value TreeEdge) (TreeEdge, error)

	HasEducation(ctx context.Context, legacyPersonID uint) (bool, error)
	CreateEducation(ctx context.Context, value Education) (Education, error)
	HasDeceasedProfile(ctx context.Context, legacyPersonID uint) (bool, error)
	CreateDeceasedProfile(ctx context.Context, value DeceasedProfile) (DeceasedProfile, error)
	HasMedia(ctx context.Context, legacyPersonID uint, kind MediaKind) (bool, error)
	CreateMedia(ctx context.Context, value Media) (Media, error)

	Stats(ctx context.Context) (TargetStats, error)
}

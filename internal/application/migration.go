package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultEmailDomain = "migrated.liveforever.local"
	defaultLayoutName  = "Migrated Family Tree"
)

// MigrationService moves legacy trees and persons into the target schema.
// Runs are sequential and every record commits on its own, so an aborted run
// leaves whatever was already written.
type MigrationService struct {
	legacy       domain.LegacyRepository
	target       domain.TargetRepository
	importer     *Importer
	inference    *RelationshipInference
	logger       *zap.Logger
	metrics      *Metrics
	now          func() time.Time
	passwordCost int
	emailDomain  string
}

type Option func(*MigrationService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *MigrationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *MigrationService) { s.metrics = metrics }
}

func WithClock(now func() time.Time) Option {
	return func(s *MigrationService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPasswordCost(cost int) Option {
	return func(s *MigrationService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.passwordCost = cost
		}
	}
}

func WithEmailDomain(domainName string) Option {
	return func(s *MigrationService) {
		if domainName != "" {
			s.emailDomain = domainName
		}
	}
}

func NewMigrationService(legacy domain.LegacyRepository, target domain.TargetRepository, opts ...Option) *MigrationService {
	s := &MigrationService{
		legacy:       legacy,
		target:       target,
		inference:    NewRelationshipInference(legacy),
		logger:       zap.NewNop(),
		now:          func() time.Time { return time.Now().UTC() },
		passwordCost: bcrypt.DefaultCost,
		emailDomain:  DefaultEmailDomain,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.importer = NewImporter(legacy, s.logger, s.metrics)
	return s
}

func (s *MigrationService) Importer() *Importer {
	return s.importer
}

// TreeMigration is the outcome of a single tree. Nodes holds every node placed
// in the tree, including nodes reused from an earlier run.
type TreeMigration struct {
	Tree           domain.LegacyTree
	Layout         domain.TreeLayout
	Nodes          []domain.TreeNode
	Edges          []domain.TreeEdge
	ReusedNodes    int
	SkippedPersons []uint
	Flow           FlowGraph
}

func (m TreeMigration) Result() TreeResult {
	return TreeResult{
		OldTreeID:      m.Tree.ID,
		NewTreeID:      m.Layout.ID,
		Status:         StatusSuccess,
		NodesCount:     len(m.Nodes),
		EdgesCount:     len(m.Edges),
		SkippedPersons: m.SkippedPersons,
	}
}

// MigrateTree creates a layout for an active legacy tree, a node per
// membership whose person exists, and an edge per inferred relationship whose
// endpoints both got nodes.
func (s *MigrationService) MigrateTree(ctx context.Context, treeID uint, scope Scope) (TreeMigration, error) {
	if err := s.requireImported(ctx); err != nil {
		return TreeMigration{}, err
	}
	return s.recordTree(ctx, treeID, scope)
}

func (s *MigrationService) recordTree(ctx context.Context, treeID uint, scope Scope) (TreeMigration, error) {
	result, err := s.migrateTree(ctx, treeID, scope)
	if err != nil {
		s.metrics.tree(StatusFailed)
		return result, err
	}
	s.metrics.tree(StatusSuccess)
	return result, nil
}

func (s *MigrationService) migrateTree(ctx context.Context, treeID uint, scope Scope) (TreeMigration, error) {
	tree, err := s.legacy.GetActiveTree(ctx, treeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TreeMigration{}, fmt.Errorf("%w: %d", ErrTreeNotFound, treeID)
		}
		return TreeMigration{}, err
	}
	result := TreeMigration{Tree: tree}

	template, err := s.legacy.GetTemplate(ctx, tree.TemplateID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return result, err
	}
	templateName := template.Template
	if templateName == "" {
		templateName = domain.DefaultTemplate
	}

	ownerPerson, err := s.legacy.GetPerson(ctx, tree.OwnerPersonID)
	if err != nil {
		return result, fmt.Errorf("owner person %d of tree %d: %w", tree.OwnerPersonID, tree.ID, err)
	}
	owner, _, err := s.ensureUser(ctx, ownerPerson)
	if err != nil {
		return result, fmt.Errorf("migrate owner of tree %d: %w", tree.ID, err)
	}

	layoutData := domain.LayoutData{
		OldTreeID:   tree.ID,
		OldTemplate: templateName,
		MigratedAt:  s.now(),
		TemplateInfo: domain.TemplateInfo{
			Title:       template.Title,
			Description: template.Description,
			Cost:        template.Cost,
		},
	}
	if scope == ScopeComplete {
		t := tree
		layoutData.OldTreeData = &t
	}
	layout, err := s.target.CreateLayout(ctx, domain.TreeLayout{
		UserID:     owner.ID,
		Name:       layoutName(template),
		Type:       domain.LayoutTypeFromTemplate(templateName),
		LayoutData: layoutData,
	})
	if err != nil {
		return result, fmt.Errorf("create layout for tree %d: %w", tree.ID, err)
	}
	result.Layout = layout

	memberships, err := s.legacy.ListMemberships(ctx, tree.ID)
	if err != nil {
		return result, fmt.Errorf("list memberships of tree %d: %w", tree.ID, err)
	}

	nodesByPerson := make(map[uint]domain.TreeNode, len(memberships))
	placed := make(map[uint]bool, len(memberships))
	people := make(map[uint]domain.LegacyPerson, len(memberships))
	for _, m := range memberships {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		person, err := s.legacy.GetPerson(ctx, m.PersonID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("person not found, skipping tree member",
					zap.Uint("tree_id", tree.ID),
					zap.Uint("person_id", m.PersonID),
				)
				result.SkippedPersons = append(result.SkippedPersons, m.PersonID)
				continue
			}
			return result, err
		}
		people[person.ID] = person

		node, reused, err := s.placeNode(ctx, owner, layout, m, person, scope)
		if err != nil {
			return result, fmt.Errorf("place person %d in tree %d: %w", person.ID, tree.ID, err)
		}
		if reused {
			result.ReusedNodes++
		}
		// Persons sharing an email resolve to one profile and so one node.
		if !placed[node.ID] {
			placed[node.ID] = true
			result.Nodes = append(result.Nodes, node)
		}
		nodesByPerson[person.ID] = node
	}

	proposals, err := s.inference.Infer(ctx, tree.ID)
	if err != nil {
		return result, fmt.Errorf("infer relationships of tree %d: %w", tree.ID, err)
	}
	layoutID := layout.ID
	for _, p := range proposals {
		from, okFrom := nodesByPerson[p.FromPersonID]
		to, okTo := nodesByPerson[p.ToPersonID]
		if !okFrom || !okTo {
			s.logger.Debug("inferred edge endpoint missing, skipping",
				zap.Uint("tree_id", tree.ID),
				zap.Uint("from_person_id", p.FromPersonID),
				zap.Uint("to_person_id", p.ToPersonID),
			)
			continue
		}
		if from.ID == to.ID {
			s.logger.Debug("inferred edge is a self loop, skipping",
				zap.Uint("tree_id", tree.ID),
				zap.Uint("from_person_id", p.FromPersonID),
				zap.Uint("to_person_id", p.ToPersonID),
				zap.Uint("node_id", from.ID),
			)
			continue
		}
		edge, err := s.target.CreateEdge(ctx, domain.TreeEdge{
			UserID:           owner.ID,
			LayoutID:         &layoutID,
			FromNodeID:       from.ID,
			ToNodeID:         to.ID,
			RelationshipType: p.RelationshipType,
			EdgeType:         p.EdgeType,
			EdgeData:         p.Data,
		})
		if err != nil {
			return result, fmt.Errorf("create edge in tree %d: %w", tree.ID, err)
		}
		s.metrics.edgeCreated()
		result.Edges = append(result.Edges, edge)
	}

	result.Flow = BuildFlowGraph(result.Nodes, result.Edges, people)
	s.logger.Info("tree migrated",
		zap.Uint("old_tree_id", tree.ID),
		zap.Uint("layout_id", layout.ID),
		zap.Int("nodes", len(result.Nodes)),
		zap.Int("edges", len(result.Edges)),
		zap.Int("skipped_persons", len(result.SkippedPersons)),
	)
	return result, nil
}

// placeNode returns the existing node for (owner, profile) when there is one;
// the pair is unique in the target schema.
func (s *MigrationService) placeNode(ctx context.Context, owner domain.User, layout domain.TreeLayout, m domain.LegacyTreeMembership, person domain.LegacyPerson, scope Scope) (domain.TreeNode, bool, error) {
	profile, _, err := s.ensureUser(ctx, person)
	if err != nil {
		return domain.TreeNode{}, false, err
	}

	existing, err := s.target.GetNode(ctx, owner.ID, profile.ID)
	if err == nil {
		s.logger.Info("node already exists, reusing",
			zap.Uint("user_id", owner.ID),
			zap.Uint("profile_id", profile.ID),
			zap.Uint("node_id", existing.ID),
		)
		return existing, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.TreeNode{}, false, err
	}

	priority := m.Priority
	if priority == 0 {
		priority = m.Traid
	}
	groupSize := m.GroupSize
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	point := ConvertLabel(m.Position, priority, groupSize)

	custom := domain.NodeCustomData{
		OldID:         person.ID,
		OldPosition:   m.Position,
		OldTraid:      m.Traid,
		OldPriority:   priority,
		MigratedFrom:  domain.MigratedFromOldTree,
		MigrationDate: s.now(),
	}
	if scope == ScopeComplete {
		p := person
		custom.PersonData = &p
	}

	layoutID := layout.ID
	node, err := s.target.CreateNode(ctx, domain.TreeNode{
		UserID:     owner.ID,
		LayoutID:   &layoutID,
		ProfileID:  profile.ID,
		Relation:   domain.RelationFromTraid(m.Traid),
		X:          point.X,
		Y:          point.Y,
		CustomData: custom,
	})
	if err != nil {
		return domain.TreeNode{}, false, err
	}
	s.metrics.nodeCreated()
	return node, false, nil
}

// MigrateAll migrates every active legacy tree in order. A failing tree is
// recorded and the batch moves on.
func (s *MigrationService) MigrateAll(ctx context.Context, scope Scope) (BatchResult, error) {
	if err := s.requireImported(ctx); err != nil {
		return BatchResult{}, err
	}
	return s.migrateAll(ctx, scope)
}

func (s *MigrationService) migrateAll(ctx context.Context, scope Scope) (BatchResult, error) {
	trees, err := s.legacy.ListActiveTrees(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list active trees: %w", err)
	}

	batch := BatchResult{Trees: make([]TreeResult, 0, len(trees))}
	for _, tree := range trees {
		migrated, err := s.recordTree(ctx, tree.ID, scope)
		if err != nil {
			s.logger.Error("failed to migrate tree", zap.Uint("old_tree_id", tree.ID), zap.Error(err))
			batch.Trees = append(batch.Trees, TreeResult{OldTreeID: tree.ID, Status: StatusFailed, Error: err.Error()})
			batch.ErrorCount++
			continue
		}
		batch.Trees = append(batch.Trees, migrated.Result())
		batch.SuccessCount++
	}
	return batch, nil
}

// Run migrates users and every active tree, then the complete-scope extras
// when scope asks for them.
func (s *MigrationService) Run(ctx context.Context, scope Scope) (Report, error) {
	if err := s.requireImported(ctx); err != nil {
		return Report{}, err
	}

	people, err := s.legacy.ListPeople(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list legacy people: %w", err)
	}

	var report Report
	report.Users, err = s.migrateUsers(ctx, people)
	if err != nil {
		return report, err
	}
	report.FamilyTrees, err = s.migrateAll(ctx, scope)
	if err != nil {
		return report, err
	}

	if scope == ScopeComplete {
		if err := s.migrateExtras(ctx, people, &report); err != nil {
			return report, err
		}
	}

	report.Summary = buildSummary(scope, report, s.now())
	s.logger.Info("migration completed",
		zap.String("scope", string(scope)),
		zap.Int("users", report.Summary.TotalUsersMigrated),
		zap.Int("trees", report.Summary.TotalFamilyTreesMigrated),
		zap.Int("failed_trees", report.Summary.FamilyTreesFailed),
	)
	return report, nil
}

func (s *MigrationService) requireImported(ctx context.Context) error {
	imported, err := s.importer.IsImported(ctx)
	if err != nil {
		return fmt.Errorf("check legacy import: %w", err)
	}
	if !imported {
		return ErrLegacyNotImported
	}
	return nil
}

func layoutName(template domain.LegacyTemplate) string {
	if template.Title != "" {
		return template.Title
	}
	return defaultLayoutName
}

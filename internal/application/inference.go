package application

import (
	"context"
	"sort"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
)

// ProposedEdge connects two legacy persons. It becomes a FamilyTreeEdge once
// both persons have nodes in the migrated tree.
type ProposedEdge struct {
	FromPersonID     uint                    `json:"from_person_id"`
	ToPersonID       uint                    `json:"to_person_id"`
	RelationshipType domain.RelationshipType `json:"relationship_type"`
	EdgeType         string                  `json:"edge_type"`
	Data             domain.EdgeData         `json:"edge_data"`
}

type RelationshipInference struct {
	legacy domain.LegacyRepository
}

func NewRelationshipInference(legacy domain.LegacyRepository) *RelationshipInference {
	return &RelationshipInference{legacy: legacy}
}

func (i *RelationshipInference) Infer(ctx context.Context, treeID uint) ([]ProposedEdge, error) {
	memberships, err := i.legacy.ListMemberships(ctx, treeID)
	if err != nil {
		return nil, err
	}
	return InferFromMemberships(memberships), nil
}

type positionGroup struct {
	position domain.Position
	members  []domain.LegacyTreeMembership
}

// InferFromMemberships runs the parent-child, sibling and spouse passes and
// concatenates their results. No pass deduplicates, so a pair can appear more
// than once when the layout is ambiguous.
func InferFromMemberships(memberships []domain.LegacyTreeMembership) []ProposedEdge {
	ordered := make([]domain.LegacyTreeMembership, len(memberships))
	copy(ordered, memberships)
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].Traid != ordered[b].Traid {
			return ordered[a].Traid < ordered[b].Traid
		}
		return ordered[a].Priority < ordered[b].Priority
	})

	groups := groupByPosition(ordered)
	byPosition := make(map[domain.Position][]domain.LegacyTreeMembership, len(groups))
	for _, g := range groups {
		byPosition[g.position] = g.members
	}

	edges := make([]ProposedEdge, 0)

	top := byPosition[domain.PositionTop]
	bottom := byPosition[domain.PositionBottom]
	for _, parent := range top {
		for _, child := range bottom {
			edges = append(edges, proposed(parent.PersonID, child.PersonID, domain.RelationshipFamily, domain.ConfidenceHigh, domain.InferredParentChild))
		}
	}

	for _, g := range groups {
		if len(g.members) < 2 {
			continue
		}
		for a := 0; a < len(g.members); a++ {
			for b := a + 1; b < len(g.members); b++ {
				edges = append(edges, proposed(g.members[a].PersonID, g.members[b].PersonID, domain.RelationshipFamily, domain.ConfidenceMedium, domain.InferredSibling))
			}
		}
	}

	right := byPosition[domain.PositionRight]
	if len(right) > 1 && len(top) > 0 {
		for _, spouse := range right {
			edges = append(edges, proposed(top[0].PersonID, spouse.PersonID, domain.RelationshipMarriage, domain.ConfidenceMedium, domain.InferredSpouse))
		}
	}

	return edges
}

// groupByPosition keeps groups in first-seen order. Labels that do not parse
// are grouped by their raw text so unrelated unknown labels stay apart.
func groupByPosition(memberships []domain.LegacyTreeMembership) []positionGroup {
	groups := make([]positionGroup, 0)
	index := make(map[string]int)
	for _, m := range memberships {
		pos := domain.ParsePosition(m.Position)
		key := string(pos)
		if pos == domain.PositionUnknown {
			key = "raw:" + m.Position
		}
		idx, ok := index[key]
		if !ok {
			idx = len(groups)
			index[key] = idx
			groups = append(groups, positionGroup{position: pos})
		}
		groups[idx].members = append(groups[idx].members, m)
	}
	return groups
}

func proposed(from, to uint, relType domain.RelationshipType, confidence domain.Confidence, rel domain.InferredRelationship) ProposedEdge {
	return ProposedEdge{
		FromPersonID:     from,
		ToPersonID:       to,
		RelationshipType: relType,
		EdgeType:         domain.EdgeTypeBezier,
		Data: domain.EdgeData{
			Inferred:     true,
			Confidence:   confidence,
			Source:       domain.SourcePosition,
			Relationship: rel,
		},
	}
}

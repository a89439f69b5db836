package application

import (
	"strconv"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
)

// FlowGraph is the node/edge document the tree editor loads.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

type FlowNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position Point        `json:"position"`
	Data     FlowNodeData `json:"data"`
}

type FlowNodeData struct {
	Label       string          `json:"label"`
	Relation    domain.Relation `json:"relation"`
	ProfileID   uint            `json:"profileId"`
	IsOldSystem bool            `json:"isOldSystem"`
}

type FlowEdge struct {
	ID     string       `json:"id"`
	Source string       `json:"source"`
	Target string       `json:"target"`
	Type   string       `json:"type"`
	Data   FlowEdgeData `json:"data"`
}

type FlowEdgeData struct {
	RelationshipType domain.RelationshipType     `json:"relationship_type"`
	Relationship     domain.InferredRelationship `json:"relationship"`
	Inferred         bool                        `json:"inferred"`
	Confidence       domain.Confidence           `json:"confidence"`
}

// BuildFlowGraph labels nodes with the legacy first name of the person they
// were created from, falling back to "Unknown".
func BuildFlowGraph(nodes []domain.TreeNode, edges []domain.TreeEdge, people map[uint]domain.LegacyPerson) FlowGraph {
	graph := FlowGraph{
		Nodes: make([]FlowNode, 0, len(nodes)),
		Edges: make([]FlowEdge, 0, len(edges)),
	}
	for _, n := range nodes {
		label := "Unknown"
		if p, ok := people[n.CustomData.OldID]; ok && p.FirstName != "" {
			label = p.FirstName
		}
		graph.Nodes = append(graph.Nodes, FlowNode{
			ID:       nodeKey(n.ID),
			Type:     "personNode",
			Position: Point{X: n.X, Y: n.Y},
			Data: FlowNodeData{
				Label:       label,
				Relation:    n.Relation,
				ProfileID:   n.ProfileID,
				IsOldSystem: true,
			},
		})
	}
	for _, e := range edges {
		graph.Edges = append(graph.Edges, FlowEdge{
			ID:     "edge-" + strconv.FormatUint(uint64(e.ID), 10),
			Source: nodeKey(e.FromNodeID),
			Target: nodeKey(e.ToNodeID),
			Type:   e.EdgeType,
			Data: FlowEdgeData{
				RelationshipType: e.RelationshipType,
				Relationship:     e.EdgeData.Relationship,
				Inferred:         e.EdgeData.Inferred,
				Confidence:       e.EdgeData.Confidence,
			},
		})
	}
	return graph
}

func nodeKey(id uint) string {
	return "node-" + strconv.FormatUint(uint64(id), 10)
}

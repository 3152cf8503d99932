// Package classify derives catalog metadata (trigger type, complexity tier,
// integration list, category) from raw workflow documents. Everything here is
// pure: no I/O, no store access, total over well-formed input.
package classify

import (
	"encoding/json"
	"strings"
)

type TriggerType string

const (
	TriggerWebhook   TriggerType = "WEBHOOK"
	TriggerScheduled TriggerType = "SCHEDULED"
	TriggerManual    TriggerType = "MANUAL"
	TriggerComplex   TriggerType = "COMPLEX"
)

type Complexity string

const (
	ComplexitySimple  Complexity = "SIMPLE"
	ComplexityMedium  Complexity = "MEDIUM"
	ComplexityComplex Complexity = "COMPLEX"
)

// Node-count boundaries shared with the stats queries. If these move, the
// complexity buckets reported by /stats move with them.
const (
	SimpleMaxNodes = 5
	MediumMaxNodes = 15

	// First-node trigger sniffing gives up past this many nodes.
	complexTriggerNodes = 10
)

// Document is a decoded workflow file. Only the fields the catalog cares
// about are mapped; the raw bytes are stored verbatim alongside.
type Document struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Active      bool    `json:"active"`
	Tags        TagList `json:"tags"`
	Nodes       []Node  `json:"nodes"`
}

type Node struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// TagList accepts both bare strings and n8n-style {id,name} objects; real
// exports contain a mix of the two.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = plain
		return nil
	}

	var objs []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &objs); err != nil {
		return err
	}
	tags := make([]string, 0, len(objs))
	for _, o := range objs {
		tags = append(tags, o.Name)
	}
	*t = tags
	return nil
}

// controlMarkers are generic control-node segments that never name an
// external integration.
var controlMarkers = map[string]bool{
	"start":  true,
	"set":    true,
	"manual": true,
}

// Integrations extracts the distinct integration identifiers referenced by a
// node list: the final dotted segment of each node type, skipping the generic
// control markers. First-seen order, so repeated runs produce identical
// output for identical input.
func Integrations(nodes []Node) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, n := range nodes {
		if !strings.Contains(n.Type, ".") {
			continue
		}
		parts := strings.Split(n.Type, ".")
		service := parts[len(parts)-1]
		if service == "" || controlMarkers[service] {
			continue
		}
		if !seen[service] {
			seen[service] = true
			out = append(out, service)
		}
	}
	return out
}

// DetectTriggerType classifies how a workflow is initiated by sniffing the
// first node's type. This is a deliberate simplification: it does not walk
// the trigger graph, so workflows with unusual node ordering may land in
// COMPLEX or MANUAL.
func DetectTriggerType(nodes []Node) TriggerType {
	if len(nodes) == 0 {
		return TriggerManual
	}

	first := nodes[0].Type
	if strings.Contains(first, "schedule") || strings.Contains(first, "cron") {
		return TriggerScheduled
	}
	if strings.Contains(first, "webhook") {
		return TriggerWebhook
	}
	if len(nodes) > complexTriggerNodes {
		return TriggerComplex
	}
	return TriggerManual
}

// ComplexityFor buckets a node count into the three-tier taxonomy.
func ComplexityFor(nodeCount int) Complexity {
	switch {
	case nodeCount > MediumMaxNodes:
		return ComplexityComplex
	case nodeCount > SimpleMaxNodes:
		return ComplexityMedium
	default:
		return ComplexitySimple
	}
}

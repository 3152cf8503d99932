// Package index builds the denormalized search blob that free-text queries
// run against.
package index

import (
	"encoding/json"
	"strings"

	"flowdex/backend/internal/classify"
)

var structural = strings.NewReplacer("{", " ", "}", " ", `"`, " ", ",", " ")

// SearchText produces the lowercase blob matched by substring search: name,
// description, integrations, tags, node names, and each node's parameter
// block flattened to tokens. Byte-identical for identical input — Go's JSON
// encoder sorts map keys, so parameter flattening is stable.
func SearchText(doc *classify.Document, integrations []string) string {
	parts := []string{
		doc.Name,
		doc.Description,
		strings.Join(integrations, " "),
		strings.Join(doc.Tags, " "),
	}

	for _, n := range doc.Nodes {
		if n.Name != "" {
			parts = append(parts, n.Name)
		}
		if len(n.Parameters) > 0 {
			raw, err := json.Marshal(n.Parameters)
			if err != nil {
				continue
			}
			tokens := strings.Fields(structural.Replace(string(raw)))
			parts = append(parts, strings.Join(tokens, " "))
		}
	}

	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

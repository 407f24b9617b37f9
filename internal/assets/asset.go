package assets

import (
	"strings"
)

// Kind is what an asset represents in the drop.
type Kind string

const (
	KindBox         Kind = "box"
	KindFigure      Kind = "figure"
	KindCertificate Kind = "certificate"
)

// Asset is the subset of an asset-index record the service inspects.
type Asset struct {
	ID        string     `json:"id"`
	Burnt     bool       `json:"burnt"`
	Content   Content    `json:"content"`
	Grouping  []Grouping `json:"grouping"`
	Ownership Ownership  `json:"ownership"`
}

type Content struct {
	JSONURI  string   `json:"json_uri"`
	Metadata Metadata `json:"metadata"`
}

type Metadata struct {
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is a metadata trait. Values arrive as strings or numbers.
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

type Grouping struct {
	GroupKey   string `json:"group_key"`
	GroupValue string `json:"group_value"`
}

type Ownership struct {
	Owner string `json:"owner"`
}

// Owner returns the current owner address.
func (a *Asset) Owner() string {
	return a.Ownership.Owner
}

// Collection returns the collection grouping value, if any.
func (a *Asset) Collection() string {
	for _, g := range a.Grouping {
		if g.GroupKey == "collection" {
			return g.GroupValue
		}
	}
	return ""
}

// Trait looks up an attribute by case-insensitive trait name.
func (a *Asset) Trait(name string) (string, bool) {
	for _, attr := range a.Content.Metadata.Attributes {
		if strings.EqualFold(strings.TrimSpace(attr.TraitType), name) {
			return attributeString(attr.Value), true
		}
	}
	return "", false
}

// InCollection reports whether the asset belongs to the drop: its collection
// grouping matches, or its metadata URI sits under the drop's metadata base
// (the index can lag on grouping).
func InCollection(a *Asset, collectionMint, metadataBase string) bool {
	if collectionMint != "" && a.Collection() == collectionMint {
		return true
	}
	if metadataBase == "" {
		return false
	}
	return strings.HasPrefix(a.Content.JSONURI, strings.TrimSuffix(metadataBase, "/")+"/")
}

package assets

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Classification is the resolved kind and cross references of an asset.
type Classification struct {
	Kind     Kind
	BoxID    int
	FigureID int
}

// Rule tries to classify an asset.
type Rule func(a *Asset) (Classification, bool)

// DefaultRules is the classification cascade, strongest signal first.
var DefaultRules = []Rule{
	FromAttributes,
	FromURIPath,
	FromName,
}

// Classifier applies rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier. With no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns false when no rule recognizes the asset.
func (c *Classifier) Classify(a *Asset) (Classification, bool) {
	for _, rule := range c.rules {
		if cl, ok := rule(a); ok {
			return cl, true
		}
	}
	return Classification{}, false
}

var kindAliases = map[string]Kind{
	"box":         KindBox,
	"blind box":   KindBox,
	"figure":      KindFigure,
	"dude":        KindFigure,
	"certificate": KindCertificate,
	"receipt":     KindCertificate,
}

// FromAttributes reads a type/kind trait plus box_id/dude_id traits.
func FromAttributes(a *Asset) (Classification, bool) {
	raw, ok := a.Trait("type")
	if !ok {
		raw, ok = a.Trait("kind")
	}
	if !ok {
		return Classification{}, false
	}
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return Classification{}, false
	}

	cl := Classification{Kind: kind}
	if v, ok := a.Trait("box_id"); ok {
		cl.BoxID, _ = strconv.Atoi(strings.TrimSpace(v))
	}
	for _, name := range []string{"dude_id", "figure_id"} {
		if v, ok := a.Trait(name); ok {
			cl.FigureID, _ = strconv.Atoi(strings.TrimSpace(v))
			break
		}
	}
	return cl, true
}

var uriSegments = map[string]Kind{
	"boxes":        KindBox,
	"figures":      KindFigure,
	"dudes":        KindFigure,
	"receipts":     KindCertificate,
	"certificates": KindCertificate,
}

var numericFile = regexp.MustCompile(`^(\d+)\.json$`)

// FromURIPath matches .../<segment>/<id>.json in the metadata URI.
func FromURIPath(a *Asset) (Classification, bool) {
	if a.Content.JSONURI == "" {
		return Classification{}, false
	}
	path := a.Content.JSONURI
	if u, err := url.Parse(path); err == nil && u.Path != "" {
		path = u.Path
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return Classification{}, false
	}
	kind, ok := uriSegments[strings.ToLower(parts[len(parts)-2])]
	if !ok {
		return Classification{}, false
	}
	m := numericFile.FindStringSubmatch(parts[len(parts)-1])
	if m == nil {
		return Classification{}, false
	}
	id, _ := strconv.Atoi(m[1])
	return withID(kind, id), true
}

var (
	longName  = regexp.MustCompile(`(?i)\b(box|figure|dude|certificate|receipt)\s*#\s*(\d+)\b`)
	shortName = regexp.MustCompile(`(?i)^\s*([BDC])(\d{1,4})\s*$`)
)

var shortKinds = map[string]Kind{
	"B": KindBox,
	"D": KindFigure,
	"C": KindCertificate,
}

// FromName matches "Box #12", "Dude #7", "Certificate #12" or the shorthand
// B12, D7, C12.
func FromName(a *Asset) (Classification, bool) {
	name := a.Content.Metadata.Name
	if m := longName.FindStringSubmatch(name); m != nil {
		id, _ := strconv.Atoi(m[2])
		return withID(kindAliases[strings.ToLower(m[1])], id), true
	}
	if m := shortName.FindStringSubmatch(name); m != nil {
		id, _ := strconv.Atoi(m[2])
		return withID(shortKinds[strings.ToUpper(m[1])], id), true
	}
	return Classification{}, false
}

// Certificates and boxes both reference a box id; figures reference a figure id.
func withID(kind Kind, id int) Classification {
	cl := Classification{Kind: kind}
	if kind == KindFigure {
		cl.FigureID = id
	} else {
		cl.BoxID = id
	}
	return cl
}

func attributeString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// FindByBox returns the first unburnt asset of kind for boxID that belongs
// to the collection.
func (c *Classifier) FindByBox(candidates []Asset, kind Kind, boxID int, collectionMint, metadataBase string) (*Asset, bool) {
	for i := range candidates {
		a := &candidates[i]
		if a.Burnt || !InCollection(a, collectionMint, metadataBase) {
			continue
		}
		cl, ok := c.Classify(a)
		if ok && cl.Kind == kind && cl.BoxID == boxID {
			return a, true
		}
	}
	return nil, false
}

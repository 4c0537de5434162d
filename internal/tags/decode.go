package tags

import (
	"strings"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
)

type Namespace int

const (
	NamespaceMaterial Namespace = iota
	NamespaceColor
	NamespaceRoom
	NamespaceCategory
	NamespaceBadge
)

type mode int

const (
	collectAll mode = iota
	takeFirst
)

type rule struct {
	ns     Namespace
	prefix string
	mode   mode
}

// The namespace set is closed.
var rules = []rule{
	{ns: NamespaceMaterial, prefix: "material:", mode: collectAll},
	{ns: NamespaceColor, prefix: "color:", mode: collectAll},
	{ns: NamespaceRoom, prefix: "room:", mode: takeFirst},
	{ns: NamespaceCategory, prefix: "category:", mode: takeFirst},
	{ns: NamespaceBadge, prefix: "badge:", mode: collectAll},
}

// Decode turns a product's raw tag list into structured attributes.
// Unrecognized tags and tags with an empty value are ignored. Namespaces with no match stay nil.
func Decode(tags []string) domain.Attributes {
	found := make(map[Namespace][]string, len(rules))

	for _, tag := range tags {
		r, value, ok := match(tag)
		// a bare "category:" carries no value and must not block a later one
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if r.mode == takeFirst && len(found[r.ns]) > 0 {
			continue
		}
		found[r.ns] = append(found[r.ns], value)
	}

	return domain.Attributes{
		Materials: found[NamespaceMaterial],
		Colors:    found[NamespaceColor],
		Room:      first(found[NamespaceRoom]),
		Category:  first(found[NamespaceCategory]),
		Badges:    found[NamespaceBadge],
	}
}

func match(tag string) (rule, string, bool) {
	for _, r := range rules {
		if strings.HasPrefix(tag, r.prefix) {
			return r, tag[len(r.prefix):], true
		}
	}
	return rule{}, "", false
}

func first(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

package convert

import (
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/miku/orcidkit/tree"
)

// ExternalIDs maps external identifier types to values. Entries without a
// type are dropped. If a type repeats, the later value wins.
func ExternalIDs(entries []any) map[string]*string {
	result := make(map[string]*string)
	eachMapping(entries, func(m map[string]any) {
		t := tree.String(m, "external-id-type")
		if t == nil {
			return
		}
		result[*t] = tree.String(m, "external-id-value")
	})
	return result
}

// Personal extracts the identity block of a record.
func Personal(doc any, id string) researcher.Personal {
	var (
		person    = tree.Get(doc, nil, "person")
		addresses = tree.List(person, "addresses", "address")
	)
	p := researcher.Personal{
		ORCID: id,
		Name: researcher.Name{
			Given:         tree.String(person, "name", "given-names", "value"),
			Family:        tree.String(person, "name", "family-name", "value"),
			Credit:        tree.String(person, "name", "credit-name", "value"),
			Pronunciation: tree.String(person, "name", "name-phonetic", "value"),
		},
		Biography:   tree.String(person, "biography", "content"),
		Countries:   texts(addresses, "country", "value"),
		Keywords:    texts(tree.List(person, "keywords", "keyword"), "content"),
		ExternalIDs: ExternalIDs(tree.List(person, "external-identifiers", "external-identifier")),
		Websites:    texts(tree.List(person, "researcher-urls", "researcher-url"), "url", "value"),
		Emails:      texts(tree.List(person, "emails", "email"), "email"),
		Addresses:   []researcher.Address{},
		OtherNames:  texts(tree.List(person, "other-names", "other-name"), "content"),
	}
	eachMapping(addresses, func(m map[string]any) {
		p.Addresses = append(p.Addresses, researcher.Address{
			Country: tree.String(m, "country", "value"),
			City:    tree.String(m, "city", "value"),
		})
	})
	return p
}

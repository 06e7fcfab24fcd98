package orcid

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/miku/orcidkit/tree"
	"github.com/segmentio/encoding/json"
)

// SearchOptions page through search results. Zero values leave the choice to
// the registry (start at 0, 100 rows).
type SearchOptions struct {
	Start int
	Rows  int
}

func (o SearchOptions) values(q string) url.Values {
	vs := url.Values{}
	vs.Set("q", q)
	if o.Start > 0 {
		vs.Set("start", strconv.Itoa(o.Start))
	}
	if o.Rows > 0 {
		vs.Set("rows", strconv.Itoa(o.Rows))
	}
	return vs
}

// Search runs a query, e.g. a researcher name, against the search endpoint
// and returns the matching identifiers in result order.
func (c *Client) Search(ctx context.Context, q string, opts SearchOptions) ([]string, error) {
	link := fmt.Sprintf("%s/search/?%s", c.baseURL(), opts.values(q).Encode())
	b, err := c.get(ctx, link)
	if err != nil {
		return nil, err
	}
	return ParseSearch(b)
}

// ParseSearch extracts result[].orcid-identifier.path from a search response.
func ParseSearch(b []byte) ([]string, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("orcid: search response: %w", err)
	}
	ids := []string{}
	for _, r := range tree.List(doc, "result") {
		if tree.KindOf(r) != tree.Mapping {
			continue
		}
		if path := tree.StringOr(r, "", "orcid-identifier", "path"); path != "" {
			ids = append(ids, path)
		}
	}
	return ids, nil
}

// ExpandedSearchResult is the response of the expanded search endpoint, which
// carries names and institutions along with each identifier.
type ExpandedSearchResult struct {
	Items    []ExpandedSearchItem `json:"expanded-result"`
	NumFound int                  `json:"num-found"`
}

// ExpandedSearchItem is a single hit.
type ExpandedSearchItem struct {
	ORCID           string   `json:"orcid-id"`
	GivenNames      *string  `json:"given-names"`
	FamilyNames     *string  `json:"family-names"`
	CreditName      *string  `json:"credit-name"`
	OtherNames      []string `json:"other-name"`
	Emails          []string `json:"email"`
	InstitutionName []string `json:"institution-name"`
}

// ExpandedSearch queries the expanded search endpoint.
func (c *Client) ExpandedSearch(ctx context.Context, q string, opts SearchOptions) (*ExpandedSearchResult, error) {
	link := fmt.Sprintf("%s/expanded-search/?%s", c.baseURL(), opts.values(q).Encode())
	b, err := c.get(ctx, link)
	if err != nil {
		return nil, err
	}
	var result ExpandedSearchResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("orcid: expanded search response: %w", err)
	}
	if result.Items == nil {
		result.Items = []ExpandedSearchItem{}
	}
	return &result, nil
}

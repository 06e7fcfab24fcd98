// Package researcher holds the normalized researcher profile. Every optional
// field is a pointer or a raw message, so that a field the registry did not
// provide serializes as an explicit null rather than as a zero value.
package researcher

import (
	"encoding/json"
	"fmt"
)

// Profile is the normalized view of one registry record.
type Profile struct {
	ORCID            string          `json:"orcid"`
	Personal         Personal        `json:"personal"`
	Employment       []Affiliation   `json:"employment"`
	Education        []Affiliation   `json:"education"`
	Works            []Work          `json:"works"`
	Funding          []Funding       `json:"funding"`
	Metrics          Metrics         `json:"metrics"`
	LastModified     *string         `json:"last_modified"`
	WorksFingerprint string          `json:"works_fingerprint"`
	RawData          json.RawMessage `json:"raw_data"` // only for authenticated requests
}

// Name groups the name variants of a researcher.
type Name struct {
	Given         *string `json:"given"`
	Family        *string `json:"family"`
	Credit        *string `json:"credit"`
	Pronunciation *string `json:"pronunciation"`
}

// Address is a postal address, reduced to country and city.
type Address struct {
	Country *string `json:"country"`
	City    *string `json:"city"`
}

// Personal is the identity block.
type Personal struct {
	ORCID       string             `json:"orcid"`
	Name        Name               `json:"name"`
	Biography   *string            `json:"biography"`
	Countries   []*string          `json:"countries"`
	Keywords    []*string          `json:"keywords"`
	ExternalIDs map[string]*string `json:"external_ids"`
	Websites    []*string          `json:"websites"`
	Emails      []*string          `json:"emails"`
	Addresses   []Address          `json:"addresses"`
	OtherNames  []*string          `json:"other_names"`
}

// Location of an organization.
type Location struct {
	City    *string `json:"city"`
	Country *string `json:"country"`
}

// Affiliation is one employment or education entry.
type Affiliation struct {
	Organization *string  `json:"organization"`
	Department   *string  `json:"department"`
	Role         *string  `json:"role"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Location     Location `json:"location"`
	URL          *string  `json:"url"`
}

// Contributor to a work.
type Contributor struct {
	Name  *string `json:"name"`
	Role  *string `json:"role"`
	ORCID *string `json:"orcid"`
}

// Work is a publication or other research output.
type Work struct {
	Title           *string            `json:"title"`
	Type            *string            `json:"type"`
	Journal         *string            `json:"journal"`
	Citation        *string            `json:"citation"`
	PublicationDate string             `json:"publication_date"`
	URL             *string            `json:"url"`
	Language        *string            `json:"language"`
	ExternalIDs     map[string]*string `json:"external_ids"`
	Contributors    []Contributor      `json:"contributors"`
}

// Amount of money in a currency.
type Amount struct {
	Value    *string `json:"value"`
	Currency *string `json:"currency"`
}

// DateRange of a funding.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Funding is a grant, award or contract.
type Funding struct {
	Title  *string   `json:"title"`
	Type   *string   `json:"type"`
	Amount Amount    `json:"amount"`
	Agency *string   `json:"agency"`
	Dates  DateRange `json:"dates"`
}

// Metrics are summary counts, never negative.
type Metrics struct {
	WorksCount    int `json:"works_count"`
	CitationCount int `json:"citation_count"`
}

// ErrorKind classifies a failed profile assembly.
type ErrorKind string

const (
	// KindInvalidIdentifier means the identifier failed the shape check, no
	// request was made.
	KindInvalidIdentifier ErrorKind = "invalid-identifier"
	// KindTransportFailure covers network errors, timeouts, cancellation and
	// any non-200 status.
	KindTransportFailure ErrorKind = "transport-failure"
	// KindMalformedResponse means the body was not valid JSON.
	KindMalformedResponse ErrorKind = "malformed-response"
	// KindUnexpected is everything else.
	KindUnexpected ErrorKind = "unexpected"
)

// ErrorResult is returned instead of a Profile.
type ErrorResult struct {
	ORCID      string    `json:"orcid"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	Details    *string   `json:"details"`
}

// Error implements the error interface.
func (e *ErrorResult) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.ORCID, e.Kind, e.Message)
}

// Result is either a profile or an error, never both.
type Result struct {
	Profile *Profile     `json:"profile,omitempty"`
	Error   *ErrorResult `json:"error,omitempty"`
}

// Err returns the error of a result as an error value, or nil.
func (r Result) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// ORCID returns the identifier the result was built for.
func (r Result) ORCID() string {
	switch {
	case r.Profile != nil:
		return r.Profile.ORCID
	case r.Error != nil:
		return r.Error.ORCID
	}
	return ""
}

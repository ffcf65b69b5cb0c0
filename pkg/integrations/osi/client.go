// Package osi provides an HTTP client for the Open Source Initiative
// license API (https://api.opensource.org/licenses/).
package osi

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

// License is one entry of the OSI license list.
type License struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
}

// Client provides access to the OSI license API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an OSI client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "osi:", cacheTTL, nil),
		baseURL: "https://api.opensource.org/licenses/",
	}
}

// FetchLicenses returns the licenses the OSI lists, keyed by SPDX id where
// the entry has one.
func (c *Client) FetchLicenses(ctx context.Context, refresh bool) ([]License, error) {
	var out []License
	err := c.Cached(ctx, "licenses", refresh, &out, func() error {
		var data []licenseEntry
		if err := c.Get(ctx, c.baseURL, &data); err != nil {
			return err
		}
		out = out[:0]
		for _, e := range data {
			if id := e.spdxID(); id != "" {
				out = append(out, License{ID: id, Name: e.Name, Approved: e.approved()})
			}
		}
		return nil
	})
	return out, err
}

// FetchApproved returns the SPDX ids of OSI approved licenses.
func (c *Client) FetchApproved(ctx context.Context) ([]string, error) {
	list, err := c.FetchLicenses(ctx, false)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, l := range list {
		if l.Approved {
			ids = append(ids, l.ID)
		}
	}
	return ids, nil
}

// licenseEntry covers both response shapes the API has served: the current
// one with spdx_id and the legacy one with identifiers and keywords.
type licenseEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SPDXID      string   `json:"spdx_id"`
	Keywords    []string `json:"keywords"`
	Identifiers []struct {
		Identifier string `json:"identifier"`
		Scheme     string `json:"scheme"`
	} `json:"identifiers"`
}

func (e licenseEntry) spdxID() string {
	if e.SPDXID != "" {
		return e.SPDXID
	}
	for _, id := range e.Identifiers {
		if id.Scheme == "SPDX" {
			return id.Identifier
		}
	}
	return e.ID
}

// approved: every listed license is approved unless legacy keywords say
// otherwise.
func (e licenseEntry) approved() bool {
	if len(e.Keywords) == 0 {
		return true
	}
	return slices.Contains(e.Keywords, "osi-approved")
}

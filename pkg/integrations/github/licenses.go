package github

import (
	"context"
	"fmt"
)

// LicenseSummary is one entry of GET /licenses.
type LicenseSummary struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
}

// License is the GitHub license catalogue entry for one license, as served
// by GET /licenses/{key}. Conditions such as "disclose-source" and
// "network-use-disclose" mark copyleft obligations. Body is the full
// license text template.
type License struct {
	Key         string   `json:"key"`
	Title       string   `json:"name"`
	SPDXID      string   `json:"spdx_id"`
	Permissions []string `json:"permissions"`
	Conditions  []string `json:"conditions"`
	Limitations []string `json:"limitations"`
	Body        string   `json:"body"`
}

// Licenses lists the commonly used licenses GitHub knows about.
func (c *Client) Licenses(ctx context.Context, refresh bool) ([]LicenseSummary, error) {
	var list []LicenseSummary
	err := c.Cached(ctx, "licenses", refresh, &list, func() error {
		return c.Get(ctx, c.baseURL+"/licenses?per_page=100", &list)
	})
	return list, err
}

// License fetches the full catalogue entry for key (e.g. "gpl-3.0").
func (c *Client) License(ctx context.Context, key string, refresh bool) (*License, error) {
	var l License
	err := c.Cached(ctx, "license:"+key, refresh, &l, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/licenses/%s", c.baseURL, key), &l)
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

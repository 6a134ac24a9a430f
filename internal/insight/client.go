// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package insight

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// Creds carries the three static credentials every request needs. BaseURL
// is the Insight REST root, e.g.
// https://insight-api.riada.io/rest/insight/1.0/.
type Creds struct {
	BaseURL string
	Email   string
	APIKey  string
}

// Client issues authenticated GET requests against the Insight API and
// hands back parsed JSON documents.
type Client struct {
	creds Creds
	http  *http.Client
}

// NewClient builds a Client. httpClient may be nil, in which case
// http.DefaultClient is used. No timeout is imposed here; a slow Insight
// call blocks the invocation.
func NewClient(creds Creds, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{creds: creds, http: httpClient}
}

// FetchPath GETs BaseURL+path with Basic auth and parses the body as JSON.
// A non-2xx status is not treated as an error: Insight answers errors with
// JSON documents and the lookup helpers translate absence into not-found.
// A body that is not JSON at all is an error.
func (c *Client) FetchPath(ctx context.Context, path string) (gjson.Result, error) {
	u := c.creds.BaseURL + path
	log.Debugf("GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.creds.Email + ":" + c.creds.APIKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("response from %s is not JSON (status %d)", path, resp.StatusCode)
	}

	return gjson.ParseBytes(body), nil
}

// SearchObjects runs an IQL search and returns the raw result document.
func (c *Client) SearchObjects(ctx context.Context, iql string) (gjson.Result, error) {
	return c.FetchPath(ctx, "iql/objects?iql="+url.QueryEscape(iql))
}

// ObjectTypes returns the flat object-type list of a schema.
func (c *Client) ObjectTypes(ctx context.Context, schemaID string) (gjson.Result, error) {
	return c.FetchPath(ctx, "objectschema/"+url.PathEscape(schemaID)+"/objecttypes/flat")
}

// TypeAttributes returns the attribute list of an object type.
func (c *Client) TypeAttributes(ctx context.Context, typeID int64) (gjson.Result, error) {
	return c.FetchPath(ctx, "objecttype/"+strconv.FormatInt(typeID, 10)+"/attributes")
}

// ObjectTypeID resolves a human-readable object type name to its numeric
// ID by scanning the schema's type list. A name that does not appear is
// (0, false, nil), not an error.
func (c *Client) ObjectTypeID(ctx context.Context, typeName, schemaID string) (int64, bool, error) {
	doc, err := c.ObjectTypes(ctx, schemaID)
	if err != nil {
		return 0, false, err
	}

	for _, t := range doc.Array() {
		if t.Get("name").String() == typeName {
			return t.Get("id").Int(), true, nil
		}
	}
	return 0, false, nil
}

// AttributeID resolves an attribute name on the named object type to its
// numeric objectTypeAttributeId. Unknown type or attribute names are
// (0, false, nil).
func (c *Client) AttributeID(ctx context.Context, attrName, typeName, schemaID string) (int64, bool, error) {
	typeID, ok, err := c.ObjectTypeID(ctx, typeName, schemaID)
	if err != nil || !ok {
		return 0, false, err
	}

	doc, err := c.TypeAttributes(ctx, typeID)
	if err != nil {
		return 0, false, err
	}

	for _, a := range doc.Array() {
		if a.Get("name").String() == attrName {
			return a.Get("id").Int(), true, nil
		}
	}
	return 0, false, nil
}

// AttributeValues resolves the attribute's numeric ID, runs the IQL
// search, and collects the first display value of every matching attribute
// on every returned object. No match anywhere yields an empty slice, never
// an error.
func (c *Client) AttributeValues(ctx context.Context, iql, attrName, typeName, schemaID string) ([]string, error) {
	attrID, ok, err := c.AttributeID(ctx, attrName, typeName, schemaID)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debugf("attribute %q not found on type %q in schema %s", attrName, typeName, schemaID)
		return []string{}, nil
	}

	doc, err := c.SearchObjects(ctx, iql)
	if err != nil {
		return nil, err
	}

	values := []string{}
	for _, obj := range doc.Get("objectEntries").Array() {
		for _, attr := range obj.Get("attributes").Array() {
			if attr.Get("objectTypeAttributeId").Int() != attrID {
				continue
			}
			if vals := attr.Get("objectAttributeValues").Array(); len(vals) > 0 {
				values = append(values, vals[0].Get("displayValue").String())
			}
		}
	}

	return values, nil
}

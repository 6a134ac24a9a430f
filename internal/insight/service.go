// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package insight

import (
	"context"

	"github.com/staranto/iqlctlgo/internal/cache"
)

// Service composes the Client with the memoizing cache. This is the layer
// the query commands talk to: identical (iql, attribute, type, schema)
// argument lists inside the TTL never reach the network twice.
type Service struct {
	client *Client
	cache  *cache.Cache[[]string]
}

// NewService wires a Client to a cache instance.
func NewService(client *Client, c *cache.Cache[[]string]) *Service {
	return &Service{client: client, cache: c}
}

// Values returns every matching attribute value for the search, through
// the cache.
func (s *Service) Values(ctx context.Context, iql, attrName, typeName, schemaID string) ([]string, error) {
	key := cache.Key(iql, attrName, typeName, schemaID)
	return s.cache.GetOrCompute(key, func() ([]string, error) {
		return s.client.AttributeValues(ctx, iql, attrName, typeName, schemaID)
	})
}

// Value returns the first matching attribute value, or "" when the search
// matches nothing.
func (s *Service) Value(ctx context.Context, iql, attrName, typeName, schemaID string) (string, error) {
	values, err := s.Values(ctx, iql, attrName, typeName, schemaID)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}

// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "time"

// NewCloudNodePool returns a [*SingleNodePool] rooted at the
// Elasticsearch URL encoded in a cloud identifier (§6).
func NewCloudNodePool(cloudID string, now time.Time) (*SingleNodePool, error) {
	parsed, err := ParseCloudID(cloudID)
	if err != nil {
		return nil, err
	}
	return NewSingleNodePool(parsed.ElasticsearchURL, now), nil
}

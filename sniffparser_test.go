// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSniffResponsePrefersPublishAddress(t *testing.T) {
	body := []byte(`{
		"cluster_name": "mycluster",
		"nodes": {
			"node-1": {
				"name": "es01",
				"roles": ["master", "data"],
				"http": {
					"publish_address": "es01.internal/10.0.0.1:9200",
					"bound_address": ["10.0.0.1:9200", "127.0.0.1:9200"]
				}
			}
		}
	}`)

	nodes, err := ParseSniffResponse(body, false)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "http://es01.internal:9200/", nodes[0].BaseURL)
	assert.True(t, nodes[0].HasFeature("master"))
	assert.True(t, nodes[0].HasFeature("data"))
}

func TestParseSniffResponseFallsBackToFirstBoundAddress(t *testing.T) {
	body := []byte(`{
		"nodes": {
			"node-1": {
				"http": {
					"bound_address": ["10.0.0.5:9200", "10.0.0.6:9200"]
				}
			}
		}
	}`)

	nodes, err := ParseSniffResponse(body, true)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "https://10.0.0.5:9200/", nodes[0].BaseURL)
}

func TestParseSniffResponseSkipsNodesWithoutHTTP(t *testing.T) {
	body := []byte(`{
		"nodes": {
			"node-1": {"name": "no-http"},
			"node-2": {"http": {"publish_address": "10.0.0.1:9200"}}
		}
	}`)

	nodes, err := ParseSniffResponse(body, false)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "http://10.0.0.1:9200/", nodes[0].BaseURL)
}

func TestParseSniffResponseInvalidJSON(t *testing.T) {
	_, err := ParseSniffResponse([]byte("not json"), false)
	assert.Error(t, err)
}

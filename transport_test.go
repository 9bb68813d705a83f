// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchHit struct {
	ID string `json:"id"`
}

func TestExecuteJSONDecodesSuccessfulResponse(t *testing.T) {
	now := time.Now()
	pool := NewSingleNodePool("http://only/", now)
	inv := &funcInvoker{CallFunc: func(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error) {
		return &RawResponse{StatusCode: http.StatusOK, Headers: http.Header{}, Body: []byte(`{"id":"42"}`)}, nil
	}}
	tr := newTestTransport(pool, inv, now)

	resp := ExecuteJSON[searchHit](context.Background(), tr, http.MethodGet, "/", nil, defaultRequestConfig())
	require.True(t, resp.Success())
	assert.Equal(t, "42", resp.Body.ID)
}

func TestExecuteJSONMarshalsRequestBody(t *testing.T) {
	now := time.Now()
	pool := NewSingleNodePool("http://only/", now)
	var sentBody []byte
	inv := &funcInvoker{CallFunc: func(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error) {
		sentBody = req.Body
		return &RawResponse{StatusCode: http.StatusOK, Headers: http.Header{}, Body: []byte(`{"id":"1"}`)}, nil
	}}
	tr := newTestTransport(pool, inv, now)

	_ = ExecuteJSON[searchHit](context.Background(), tr, http.MethodPost, "/", searchHit{ID: "1"}, defaultRequestConfig())
	assert.JSONEq(t, `{"id":"1"}`, string(sentBody))
}

func TestExecuteJSONSurfacesDecodeError(t *testing.T) {
	now := time.Now()
	pool := NewSingleNodePool("http://only/", now)
	inv := &funcInvoker{CallFunc: func(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error) {
		return &RawResponse{StatusCode: http.StatusOK, Headers: http.Header{}, Body: []byte(`not json`)}, nil
	}}
	tr := newTestTransport(pool, inv, now)

	resp := ExecuteJSON[searchHit](context.Background(), tr, http.MethodGet, "/", nil, defaultRequestConfig())
	assert.False(t, resp.Success())
	assert.Error(t, resp.Err())
}

func TestTransportConvenienceMethodsSetMethod(t *testing.T) {
	now := time.Now()
	pool := NewSingleNodePool("http://only/", now)
	var gotMethods []string
	inv := &funcInvoker{CallFunc: func(ctx context.Context, endpoint Endpoint, bc *BoundConfig, req *RawRequest) (*RawResponse, error) {
		gotMethods = append(gotMethods, req.Method)
		return &RawResponse{StatusCode: http.StatusOK, Headers: http.Header{}}, nil
	}}
	tr := newTestTransport(pool, inv, now)
	ctx := context.Background()

	tr.Get(ctx, "/")
	tr.Post(ctx, "/", []byte("{}"))
	tr.Put(ctx, "/", []byte("{}"))
	tr.Delete(ctx, "/")
	tr.Head(ctx, "/")

	assert.Equal(t, []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead,
	}, gotMethods)
}

func TestNewTransportDefaultsRegistrationAndInvoker(t *testing.T) {
	pool := NewSingleNodePool("http://only/", time.Now())
	tr := NewTransport(pool, nil, nil, nil)
	assert.NotNil(t, tr.Registration)
	assert.NotNil(t, tr.Invoker)
	assert.NotNil(t, tr.Config)
}

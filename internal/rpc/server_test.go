package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Serve_RoundTripsOneRequest(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n")
	var out bytes.Buffer

	handler := NewHandler(nil, "mydocsmcp", "test")
	server := NewServer(in, &out, handler)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, server.Serve(ctx))

	var resp Response
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	assert.Nil(t, resp.Error)
}

func TestServer_Serve_InvalidJSONYieldsParseError(t *testing.T) {
	in := strings.NewReader("not json\n")
	var out bytes.Buffer

	handler := NewHandler(nil, "mydocsmcp", "test")
	server := NewServer(in, &out, handler)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, server.Serve(ctx))

	var resp Response
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ParseError, resp.Error.Code)
}

func TestServer_Serve_RejectsWrongProtocolVersion(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"1.0","id":1,"method":"initialize"}` + "\n")
	var out bytes.Buffer

	handler := NewHandler(nil, "mydocsmcp", "test")
	server := NewServer(in, &out, handler)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, server.Serve(ctx))

	var resp Response
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidRequest, resp.Error.Code)
}

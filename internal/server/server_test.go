package server

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resellbd/resell-api/config"
)

func TestOpenStoreMemory(t *testing.T) {
	config.Set("STORE_DRIVER", "memory")
	t.Cleanup(func() { config.Set("STORE_DRIVER", "mongo") })

	res, err := OpenStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Conn)
	require.NotNil(t, res.Store)

	var out bytes.Buffer
	require.NoError(t, res.Migrate(context.Background(), &out))
	assert.Contains(t, out.String(), "memory store")
	assert.NoError(t, res.Close(context.Background()))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

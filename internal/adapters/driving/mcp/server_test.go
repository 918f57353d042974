package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil compile service returns error", func(t *testing.T) {
		ports := &Ports{Validator: &mockValidateService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingCompileService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Compile:   &mockCompileService{},
			Validator: &mockValidateService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestNewServer_Implementation(t *testing.T) {
	ports := &Ports{Compile: &mockCompileService{}, Validator: &mockValidateService{}}

	server, err := NewServer(ports)
	require.NoError(t, err)
	assert.Equal(t, ServerName, server.Implementation().Name)
	assert.Equal(t, DefaultVersion, server.Implementation().Version)

	ports.Version = "1.2.3"
	server, err = NewServer(ports)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", server.Implementation().Version)
}

func TestServer_RunHTTP_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Compile: &mockCompileService{}, Validator: &mockValidateService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports returns error", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingCompileService)
	})

	t.Run("missing validator returns error", func(t *testing.T) {
		ports := &Ports{Compile: &mockCompileService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingValidateService)
	})

	t.Run("history is optional", func(t *testing.T) {
		ports := &Ports{
			Compile:   &mockCompileService{},
			Validator: &mockValidateService{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Compile:   &mockCompileService{},
			Validator: &mockValidateService{},
			History:   &mockHistoryService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

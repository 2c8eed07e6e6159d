package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, NewDefaultOptions().Validate())

	opts := NewDefaultOptions()
	opts.Addr = ""
	assert.Error(t, opts.Validate())

	opts = NewDefaultOptions()
	opts.DB = -1
	assert.Error(t, opts.Validate())

	opts = NewDefaultOptions()
	opts.PoolSize = -2
	assert.Error(t, opts.Validate())
}

func TestClientOptions(t *testing.T) {
	opts := NewDefaultOptions()
	opts.Addr = "cache:6380"
	opts.Password = "secret"
	opts.DB = 3
	opts.PoolSize = 20

	ro := opts.ClientOptions()
	assert.Equal(t, "cache:6380", ro.Addr)
	assert.Equal(t, "secret", ro.Password)
	assert.Equal(t, 3, ro.DB)
	assert.Equal(t, 20, ro.PoolSize)
	assert.Equal(t, 5*time.Second, ro.DialTimeout)
}

func TestOpenFailsFast(t *testing.T) {
	opts := NewDefaultOptions()
	opts.Addr = "127.0.0.1:1"
	opts.DialTimeout = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Open(ctx, opts, nil)
	assert.Error(t, err)
}

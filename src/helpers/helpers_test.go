package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	err := NewDatabaseError("save failed", cause)

	var dbErr *DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save failed: boom", err.Error())

	var valErr *ValidationError
	assert.False(t, errors.As(err, &valErr))

	err = NewValidationError("bad theme %q", "neon")
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, `bad theme "neon"`, err.Error())
}

func TestRetryWithBackoff(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), "op", 3, time.Millisecond, nil, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	cause := errors.New("down")
	attempts := 0
	err := RetryWithBackoff(context.Background(), "op", 2, time.Millisecond, nil, func() error {
		attempts++
		return cause
	})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 2, attempts)
}

func TestRetryWithBackoff_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, "op", 5, time.Hour, nil, func() error { return errors.New("fail") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProxyManager(t *testing.T) {
	pm := NewProxyManager([]string{"10.0.0.1:8080", "", "socks5://10.0.0.2:1080"}, "agent", nil)
	require.True(t, pm.HasProxies())

	first, err := pm.GetCurrentProxy()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:8080", first)

	pm.RotateProxy()
	second, _ := pm.GetCurrentProxy()
	assert.Equal(t, "socks5://10.0.0.2:1080", second)

	pm.RotateProxy()
	again, _ := pm.GetCurrentProxy()
	assert.Equal(t, first, again)

	assert.Equal(t, "agent", pm.GetUserAgent())
}

func TestProxyManager_Empty(t *testing.T) {
	pm := NewProxyManager(nil, "", nil)
	assert.False(t, pm.HasProxies())
	p, err := pm.GetCurrentProxy()
	require.NoError(t, err)
	assert.Empty(t, p)
	assert.NotEmpty(t, pm.GetUserAgent())
}

func TestValidateProxy(t *testing.T) {
	assert.True(t, ValidateProxy("127.0.0.1:3128"))
	assert.True(t, ValidateProxy("https://proxy.local:443"))
	assert.False(t, ValidateProxy(""))
	assert.False(t, ValidateProxy("ftp://proxy.local"))
}

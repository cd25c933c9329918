package helpers

import (
	"testing"

	"price-relay/src/logger"

	"github.com/stretchr/testify/assert"
)

func TestProxyManager_Rotation(t *testing.T) {
	pm := NewProxyManager([]string{"10.0.0.1:3128", "ftp://nope", "https://10.0.0.2:8443"}, "", logger.Discard())

	assert.True(t, pm.HasProxies())
	assert.Equal(t, "http://10.0.0.1:3128", pm.GetCurrentProxy())
	pm.RotateProxy()
	assert.Equal(t, "https://10.0.0.2:8443", pm.GetCurrentProxy())
	pm.RotateProxy()
	assert.Equal(t, "http://10.0.0.1:3128", pm.GetCurrentProxy())
}

func TestProxyManager_Empty(t *testing.T) {
	pm := NewProxyManager(nil, "relay-poller/1.0", logger.Discard())
	assert.False(t, pm.HasProxies())
	assert.Empty(t, pm.GetCurrentProxy())
	assert.Equal(t, "relay-poller/1.0", pm.GetUserAgent())
}

func TestValidateProxy(t *testing.T) {
	assert.True(t, ValidateProxy("127.0.0.1:8080"))
	assert.True(t, ValidateProxy("socks5://127.0.0.1:1080"))
	assert.False(t, ValidateProxy(""))
	assert.False(t, ValidateProxy("ftp://127.0.0.1"))
}

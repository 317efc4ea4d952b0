package start

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigures_ParsesTransferConfig(t *testing.T) {
	yaml := []byte(`
app-name: shanchuan
port: 8080
transfer:
  storage-mode: local
  local-dir: ./data/transfer
  ttl-hours: 24
  code-length: 8
`)

	c := NewConfigures(yaml, "dev")
	assert.Equal(t, "local", c.Config.Transfer.StorageMode)
	assert.Equal(t, 24, c.Config.Transfer.TTLHours)
	assert.Equal(t, 8, c.Config.Transfer.CodeLength)
	assert.Equal(t, "dev", c.Config.Env)
}

func TestNewConfigures_RejectsUnknownStorageMode(t *testing.T) {
	yaml := []byte(`
app-name: shanchuan
transfer:
  storage-mode: ftp
`)

	assert.Panics(t, func() { NewConfigures(yaml, "dev") })
}

func TestNewConfigures_RejectsNegativeTTL(t *testing.T) {
	yaml := []byte(`
app-name: shanchuan
transfer:
  storage-mode: local
  ttl-hours: -1
`)

	assert.Panics(t, func() { NewConfigures(yaml, "dev") })
}

package applog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "offerscrap.log")
	closer, err := Setup(Options{Level: "debug", File: file, MaxSizeMB: 1, Console: &console})
	require.NoError(t, err)

	log.WithField("store", "ICA").Debug("hello")
	require.NoError(t, closer.Close())

	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Contains(t, console.String(), "store=ICA")

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
}

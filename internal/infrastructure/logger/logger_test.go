package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := log.New()
	require.NoError(t, setup(l, &buf, "debug", "json", "payment-relay"))

	l.WithField("order_id", "order-1").Debug("[transaction][usecase] hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "payment-relay", entry["service"])
	assert.Equal(t, "order-1", entry["order_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestSetup_Text(t *testing.T) {
	var buf bytes.Buffer
	l := log.New()
	require.NoError(t, setup(l, &buf, "info", "text", "payment-relay"))

	l.Debug("hidden")
	l.Info("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "service=payment-relay")
}

func TestSetup_Invalid(t *testing.T) {
	l := log.New()
	assert.Error(t, setup(l, &bytes.Buffer{}, "loud", "json", "x"))
	assert.Error(t, setup(l, &bytes.Buffer{}, "info", "xml", "x"))
}

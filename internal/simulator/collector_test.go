package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flossly/bot-builder/internal/botconfig"
)

func TestCollectorStepsThroughFields(t *testing.T) {
	c := NewCollector(botconfig.AppointmentFields())

	_, ok := c.Active()
	assert.False(t, ok, "no field active before Open")

	c.Open(0)
	f, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "fullName", f.Name)

	c.Record("fullName", "Jane Doe")
	c.Close()
	_, ok = c.Active()
	assert.False(t, ok)

	c.Open(1)
	f, _ = c.Active()
	assert.Equal(t, "contact", f.Name)

	assert.Equal(t, "Jane Doe", c.Value("fullName"))
	assert.True(t, c.Has("fullName"))
	assert.False(t, c.Has("phone"))
}

func TestCollectorSeed(t *testing.T) {
	c := NewCollector(botconfig.CallbackFields())
	c.Seed([][2]string{
		{"name", "Jane Doe"},
		{"phone", "07700 900123"},
		{"email", "jane@example.com"},
	})

	assert.Equal(t, "Jane Doe", c.Value("name"))
	assert.Equal(t, "07700 900123", c.Value("phone"))
	assert.Equal(t, "jane@example.com", c.Value("email"))
}

func TestCollectorRecordOverwrites(t *testing.T) {
	c := NewCollector(botconfig.CallbackFields())
	c.Record("name", "Jane")
	c.Record("name", "Janet")
	assert.Equal(t, "Janet", c.Value("name"))
}

func TestCollectorLast(t *testing.T) {
	c := NewCollector(botconfig.CallbackFields())
	c.Open(2)
	assert.False(t, c.Last())
	c.Open(3)
	assert.True(t, c.Last())
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(botconfig.CallbackFields())
	c.Open(2)
	c.Record("reason", "tooth pain")

	c.Reset()
	_, ok := c.Active()
	assert.False(t, ok)
	assert.False(t, c.Has("reason"))
	assert.Equal(t, "", c.Value("reason"))
}

func TestCollectorOpenOutOfRange(t *testing.T) {
	c := NewCollector(botconfig.CallbackFields())
	c.Open(99)
	_, ok := c.Active()
	assert.False(t, ok)
}

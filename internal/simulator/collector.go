package simulator

import "github.com/flossly/bot-builder/internal/botconfig"

// noField means no input control is shown.
const noField = -1

// Collector drives one field at a time through a fixed ordered schema. It
// holds partial answers in insertion order; the engine owns the scripted
// replies between fields.
type Collector struct {
	fields []botconfig.Field
	values map[string]string
	order  []string
	index  int
}

// NewCollector creates a collector over a schema with no field active.
func NewCollector(fields []botconfig.Field) *Collector {
	return &Collector{
		fields: fields,
		values: make(map[string]string),
		index:  noField,
	}
}

// Open activates the field at position idx.
func (c *Collector) Open(idx int) {
	if idx < 0 || idx >= len(c.fields) {
		c.index = noField
		return
	}
	c.index = idx
}

// Close deactivates the current field so no control is shown mid-transition.
func (c *Collector) Close() {
	c.index = noField
}

// Index returns the active field position, or -1.
func (c *Collector) Index() int {
	return c.index
}

// Active returns the currently open field.
func (c *Collector) Active() (botconfig.Field, bool) {
	if c.index == noField {
		return botconfig.Field{}, false
	}
	return c.fields[c.index], true
}

// Last reports whether the active field is the schema's final one.
func (c *Collector) Last() bool {
	return c.index == len(c.fields)-1
}

// Record merges an answer, preserving first-insertion order.
func (c *Collector) Record(name, value string) {
	if _, seen := c.values[name]; !seen {
		c.order = append(c.order, name)
	}
	c.values[name] = value
}

// Seed pre-fills answers in the given order (callback hand-off case).
func (c *Collector) Seed(pairs [][2]string) {
	for _, p := range pairs {
		c.Record(p[0], p[1])
	}
}

// Value returns a collected answer.
func (c *Collector) Value(name string) string {
	return c.values[name]
}

// Has reports whether an answer was collected.
func (c *Collector) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Reset drops all answers and deactivates the collector.
func (c *Collector) Reset() {
	c.values = make(map[string]string)
	c.order = nil
	c.index = noField
}

package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/sirupsen/logrus"
)

// Collector accumulates every reportable problem of one run, as both a
// plain-text list and an HTML fragment. It is passed by pointer through all
// stages; nothing is delivered until the run reaches the reporting stage.
type Collector struct {
	log     logrus.FieldLogger
	entries []string
}

func New(log logrus.FieldLogger) *Collector {
	return &Collector{log: log}
}

// Error records a non-fatal error. The run continues past it.
func (c *Collector) Error(op, msg string, err error) {
	entry := op + ": " + msg
	if err != nil {
		entry = fmt.Sprintf("%s: %v", entry, err)
	}
	c.entries = append(c.entries, entry)
	c.log.WithField("op", op).Error(entry)
}

// Warn records a lookup-miss style anomaly, e.g. a session that vanished
// from the store between selection and update.
func (c *Collector) Warn(op, msg string) {
	entry := "WARNING: " + op + ": " + msg
	c.entries = append(c.entries, entry)
	c.log.WithField("op", op).Warn(entry)
}

func (c *Collector) Empty() bool { return len(c.entries) == 0 }

func (c *Collector) Len() int { return len(c.entries) }

func (c *Collector) Text() string {
	if len(c.entries) == 0 {
		return ""
	}
	return strings.Join(c.entries, "\n") + "\n"
}

func (c *Collector) HTML() string {
	var b strings.Builder
	for _, entry := range c.entries {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(entry))
		b.WriteString("</li>")
	}
	return b.String()
}

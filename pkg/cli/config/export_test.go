package config

import "io"

// SetWriter replaces the log output
func (c *Logger) SetWriter(w io.Writer) {
	c.writer = w
}

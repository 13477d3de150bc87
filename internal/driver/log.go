package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// LogDriver writes each payload as a JSON line. It is the dry-run driver.
type LogDriver struct {
	w  io.Writer
	mu sync.Mutex
}

// NewLogDriver creates a driver that writes to w.
func NewLogDriver(w io.Writer) *LogDriver {
	return &LogDriver{w: w}
}

// Name identifies the driver in reports.
func (d *LogDriver) Name() string {
	return "log"
}

// SubmitEntry writes p.
func (d *LogDriver) SubmitEntry(ctx context.Context, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// Close is a no-op.
func (d *LogDriver) Close() error {
	return nil
}

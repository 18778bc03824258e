package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// scriptChannel hands the result to a user script: JSON on stdin, the key fields in
// PHASERUN_* environment variables.
type scriptChannel struct {
	path string
}

func (c *scriptChannel) send(ctx context.Context, r Result) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.path) //nolint:gosec // configured by the user
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Env = append(os.Environ(),
		"PHASERUN_STATUS="+r.Status,
		"PHASERUN_SCENARIO="+r.Scenario,
		"PHASERUN_RUN_ID="+r.RunID,
		"PHASERUN_FAILED_PHASES="+strings.Join(r.FailedPhases, ","),
		"PHASERUN_PASSED="+strconv.Itoa(r.Passed),
		"PHASERUN_TOTAL="+strconv.Itoa(r.Total()),
	)
	var out bytes.Buffer
	cmd.Stdout, cmd.Stderr = &out, &out
	cmd.WaitDelay = time.Second // a killed script's children may keep the pipes open

	if err := cmd.Run(); err != nil {
		if text := strings.TrimSpace(out.String()); text != "" {
			return fmt.Errorf("script %s: %w: %s", c.path, err, text)
		}
		return fmt.Errorf("script %s: %w", c.path, err)
	}
	return nil
}

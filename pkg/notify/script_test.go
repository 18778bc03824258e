package notify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hookScript(t *testing.T, body string) *scriptChannel {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notify.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700)) //nolint:gosec // test script
	return &scriptChannel{path: path}
}

func TestScriptChannel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	t.Run("result on stdin", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "result.json")
		require.NoError(t, hookScript(t, "cat > "+out).send(context.Background(), failedRun()))

		data, err := os.ReadFile(out) //nolint:gosec // test path
		require.NoError(t, err)
		var got Result
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, failedRun(), got)
	})

	t.Run("summary in environment", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "env.txt")
		ch := hookScript(t, `echo "$PHASERUN_STATUS $PHASERUN_SCENARIO $PHASERUN_RUN_ID $PHASERUN_PASSED/$PHASERUN_TOTAL $PHASERUN_FAILED_PHASES" > `+out)
		require.NoError(t, ch.send(context.Background(), failedRun()))

		data, err := os.ReadFile(out) //nolint:gosec // test path
		require.NoError(t, err)
		assert.Equal(t, "failure sequential-sebdom 5c1f0e9a-2b7d-4e3a-9f61-0d8c2a4b7e15 1/5 loading-jaigon\n", string(data))
	})

	t.Run("failing script reports its output", func(t *testing.T) {
		ch := hookScript(t, "echo 'hook rejected run' >&2; exit 4")
		err := ch.send(context.Background(), Result{Status: "success"})
		require.Error(t, err)
		assert.Equal(t, "script "+ch.path+": exit status 4: hook rejected run", err.Error())
	})

	t.Run("deadline kills the script", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		start := time.Now()
		require.Error(t, hookScript(t, "sleep 10").send(ctx, failedRun()))
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("missing script", func(t *testing.T) {
		err := (&scriptChannel{path: "/nonexistent/notify.sh"}).send(context.Background(), failedRun())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "script /nonexistent/notify.sh")
	})
}

func TestService_SendRunsScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	out := filepath.Join(t.TempDir(), "status.txt")
	svc := serviceWith()
	svc.script = hookScript(t, `echo "$PHASERUN_STATUS" > `+out)
	svc.Send(context.Background(), failedRun())

	data, err := os.ReadFile(out) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "failure\n", string(data))
}

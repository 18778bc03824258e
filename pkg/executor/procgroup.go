package executor

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// processGroupCleanup manages process group lifecycle for graceful shutdown.
// when the context is canceled the whole process tree is killed, not just the direct child,
// so browsers spawned by the runner go down with it.
type processGroupCleanup struct {
	cmd   *exec.Cmd
	grace time.Duration
	done  chan struct{}
	once  sync.Once
	err   error
}

// setupProcessGroup configures command to run in its own process group.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// newProcessGroupCleanup creates a cleanup handler for the started command.
// caller must call Wait to release the watcher.
func newProcessGroupCleanup(cmd *exec.Cmd, cancelCh <-chan struct{}, grace time.Duration) *processGroupCleanup {
	pg := &processGroupCleanup{cmd: cmd, grace: grace, done: make(chan struct{})}
	go pg.watchForCancel(cancelCh)
	return pg
}

func (pg *processGroupCleanup) watchForCancel(cancelCh <-chan struct{}) {
	select {
	case <-cancelCh:
		pg.killProcessGroup()
	case <-pg.done:
	}
}

// killProcessGroup sends SIGTERM to the process group and SIGKILL once the grace period
// is over and the group is still alive.
func (pg *processGroupCleanup) killProcessGroup() {
	if pg.cmd.Process == nil {
		return
	}
	pgid := -pg.cmd.Process.Pid

	if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil {
		if !errors.Is(err, syscall.ESRCH) {
			log.Printf("[WARN] SIGTERM failed for pgid %d: %v", pgid, err)
		}
		return
	}

	select {
	case <-pg.done:
		return
	case <-time.After(pg.grace):
	}

	if err := syscall.Kill(pgid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		log.Printf("[WARN] SIGKILL failed for pgid %d: %v", pgid, err)
	}
}

// Wait waits for the command to complete. repeated calls return the same result.
func (pg *processGroupCleanup) Wait() error {
	pg.once.Do(func() {
		pg.err = pg.cmd.Wait()
		close(pg.done)
		if pg.err != nil {
			pg.err = fmt.Errorf("command wait: %w", pg.err)
		}
	})
	return pg.err
}

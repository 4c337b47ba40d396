package interp

import (
	"os/exec"
	"runtime"
	"strings"
)

// runSystem executes command as a shell command (spec.md §4.5/§6: <system>
// inherits the host's environment and PATH). In sync mode it blocks and
// returns stdout with embedded newlines collapsed to spaces; in async mode
// it starts the command and returns immediately without waiting, dropping
// its output (the source's "fire and forget" behavior, spec.md §9's open
// question on a portable subprocess API — os/exec.Command already is one,
// so no platform-specific spawn path is needed here).
func runSystem(command string, async bool) string {
	shell, flag := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	cmd := exec.Command(shell, flag, command)
	if async {
		_ = cmd.Start()
		return ""
	}
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(string(out)), " ")
}

package output

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CommandPlayer plays audio by piping it into an external process such as
// ffplay or mpv.
type CommandPlayer struct {
	command string
	args    []string
}

// NewCommandPlayer returns a player for command. With no args, ffplay gets
// its quiet stdin defaults and any other command reads "-".
func NewCommandPlayer(command string, args []string) *CommandPlayer {
	if command == "" {
		command = "ffplay"
	}
	return &CommandPlayer{command: command, args: args}
}

// Play writes audio to the player's stdin and blocks until playback ends or
// ctx is cancelled. Cancellation is not an error.
func (p *CommandPlayer) Play(ctx context.Context, audio io.Reader, volume float64) error {
	cmd := exec.CommandContext(ctx, p.command, p.buildArgs(volume)...)
	cmd.Stdin = audio
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", p.command)
	}

	err := cmd.Wait()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.Wrapf(err, "%s exited: %s", p.command, strings.TrimSpace(stderr.String()))
		}
		return errors.Wrapf(err, "wait for %s", p.command)
	}
	return nil
}

func (p *CommandPlayer) buildArgs(volume float64) []string {
	if len(p.args) > 0 {
		return p.args
	}
	if filepath.Base(p.command) != "ffplay" {
		return []string{"-"}
	}
	if volume <= 0 || volume > 1 {
		volume = 1
	}
	return []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "quiet",
		"-volume", strconv.Itoa(int(volume * 100)),
		"-i", "-",
	}
}

package speech

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// CommandSpeaker plays text through a local text-to-speech command such as
// espeak or say. Each call runs detached; overlapping playback is allowed.
type CommandSpeaker struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
	run     func(ctx context.Context, name string, args ...string) error
}

// NewCommandSpeaker constructs a speaker that passes the text as the final
// argument, after a "--" so text starting with a dash is never read as flags.
func NewCommandSpeaker(command string, args []string, logger *slog.Logger) *CommandSpeaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandSpeaker{
		command: command,
		args:    append([]string(nil), args...),
		timeout: 2 * time.Minute,
		logger:  logger.With("component", "speech.speaker"),
		run:     runCommand,
	}
}

// Speak starts playback and returns immediately.
func (s *CommandSpeaker) Speak(text string) {
	if text == "" {
		return
	}
	args := append(append([]string(nil), s.args...), "--", text)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.run(ctx, s.command, args...); err != nil {
			s.logger.Warn("text to speech failed", "command", s.command, "error", err)
		}
	}()
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// NoopSpeaker discards text. Used when speech output is disabled.
type NoopSpeaker struct{}

func (NoopSpeaker) Speak(string) {}

package main

import (
	"fmt"

	"studyhub"
)

// notifier runs the completion side effects. The three steps are
// independent; a failure in one never blocks the others, and none of them
// ever delays the tick loop.
type notifier struct {
	engine *Engine
}

func (n *notifier) sessionCompleted(ev completionEvent) {
	// 1. one-shot sound cue toward connected clients
	n.engine.sink.SoundCue(ev.soundID)

	// 2. best-effort remote notification record
	n.engine.notifyAsync(
		"Session Complete",
		fmt.Sprintf("Session %q finished after %d minutes.", ev.title, ev.minutes),
		studyhub.SuccessSeverity,
	)

	// 3. local toast
	n.engine.sink.Toast(fmt.Sprintf("Session %q is complete!", ev.title), "success")
}

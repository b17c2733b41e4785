package process

// Lines starts a goroutine that owns the Runner until the current launch
// is done or aborted, forwarding every non-empty line on the returned
// channel.
//
// Lines are read stderr first, then stdout, one of each per turn. The
// channel is unbuffered and is closed when the goroutine stops, so a
// receiver that sees the close has seen every line. After the close the
// caller owns the Runner again.
func (r *Runner) Lines() <-chan Line {
	out := make(chan Line)
	go func() {
		defer close(out)
		for !r.IsDone() && !r.Aborted() {
			if text := r.ReadError(); text != "" {
				if !r.send(out, Line{Stream: StreamError, Text: text}) {
					return
				}
			}
			if text := r.ReadOutput(); text != "" {
				if !r.send(out, Line{Stream: StreamOutput, Text: text}) {
					return
				}
			}
		}
	}()
	return out
}

func (r *Runner) send(out chan<- Line, line Line) bool {
	select {
	case out <- line:
		return true
	case <-r.abort:
		return false
	}
}

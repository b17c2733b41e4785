// Package process runs build commands and delivers their output by line.
//
// A Runner owns at most one child at a time. The child is started in its
// own process group with stdout and stderr piped back; background readers
// forward raw chunks which the Runner reassembles into complete lines.
//
// # Usage
//
//	runner := process.NewRunner()
//	runner.Start("make -j8")
//
//	for line := range runner.Lines() {
//	    fmt.Println(line.Stream, line.Text)
//	}
//	fmt.Printf("Exit code: %d\n", runner.ExitCode())
//
// Starting a new command, or calling Kill, terminates the previous child
// with SIGTERM, escalating to SIGKILL if it does not exit in time.
//
// Commands are split with Tokenize, which understands single and double
// quotes but no escapes. No shell is involved.
package process

package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/brettbedarf/vfshell/server"
	"github.com/brettbedarf/vfshell/shell"
)

// runREPL reads command lines from in until the session ends or in is
// exhausted. Reading happens on its own goroutine so an interrupt ends the
// loop without waiting for input.
func runREPL(engine *server.Engine, sess *shell.Session, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-sess.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		fmt.Fprint(out, PromptStyle.Render(sess.Prompt()))
		select {
		case <-sess.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			// failures are already reported on out
			_ = engine.Exec(sess, line)
			if sess.Terminated() {
				return nil
			}
		}
	}
}

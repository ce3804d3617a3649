package cli

import (
	"context"
	"os"
)

// Execute builds the command tree and runs it with ctx. Logs go to stderr
// at info level until --verbose is parsed.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

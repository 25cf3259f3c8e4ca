package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/osl"
	"github.com/aretw0/osl/internal/config"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/presenter"
	"github.com/aretw0/osl/pkg/workflow"
)

const shellHelp = `Commands:
  <action> [field=value ...]  run an action, e.g. create_order qty=2
  tenant [id]                 set the tenant (no id clears it)
  token [value]               set the API token (no value clears it)
  status                      show the status lines
  fields                      show the form fields
  actions                     list actions and their fields
  help                        show this help
  exit                        leave the shell`

// RunShell starts the interactive shell on in until EOF, "exit" or a signal.
func RunShell(opts Options, in io.Reader) error {
	sess, err := NewSession(opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	if sess.Metrics != nil {
		srv := &http.Server{Addr: opts.MetricsAddr, Handler: metricsMux(sess), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				sess.Logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		printSystemMessage(out, "Metrics at http://%s/metrics", opts.MetricsAddr)
	}

	return runShell(sigCtx, sess, in, out)
}

func metricsMux(sess *Session) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", sess.Metrics.Handler())
	return mux
}

func runShell(ctx context.Context, sess *Session, in io.Reader, out io.Writer) error {
	sess.Restore(ctx, false)
	if sess.Config.Output != config.OutputJSON {
		presenter.PrintBanner(out)
	}
	printSystemMessage(out, "osl %s connected to %s. Type 'help' for commands.", strings.TrimSpace(osl.Version), sess.Console.BaseURL())
	sess.PrintStatus()
	sess.status.Watch(sess.Console.Status())

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 64*1024), 1<<20)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			printSystemMessage(out, "Interrupted.")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			if quit := execLine(ctx, sess, out, line); quit {
				return nil
			}
		}
	}
}

// execLine runs one shell line and reports whether the shell should exit.
func execLine(ctx context.Context, sess *Session, out io.Writer, line string) bool {
	args, err := splitArgs(strings.TrimSpace(line))
	if err != nil {
		printSystemMessage(out, "Error: %v", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprintln(out, shellHelp)
	case "tenant":
		_, _ = sess.Console.SetTenant(ctx, strings.Join(rest, " "))
	case "token":
		sess.Console.SetToken(ctx, strings.Join(rest, " "))
	case "status":
		sess.PrintStatus()
	case "fields":
		printFields(out, sess.Console.Fields().Snapshot())
	case "actions":
		PrintActions(out, sess.Console.Actions())
	default:
		overrides, err := ParseAssignments(rest)
		if err != nil {
			printSystemMessage(out, "Error: %v", err)
			return false
		}
		if _, err := sess.Console.Invoke(ctx, cmd, overrides); err != nil {
			if errors.Is(err, domain.ErrUnknownAction) {
				printSystemMessage(out, "Unknown command %q. Type 'help'.", cmd)
			} else {
				printSystemMessage(out, "Error: %v", err)
			}
		}
	}
	return false
}

func printFields(out io.Writer, values map[string]string) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s = %s\n", name, values[name])
	}
}

// PrintActions writes the command table with each action's fields; * marks required ones.
func PrintActions(out io.Writer, actions []workflow.Command) {
	for _, cmd := range actions {
		fmt.Fprintf(out, "%-22s %-6s %s\n", cmd.Name(), cmd.Descriptor.Method, cmd.Descriptor.Path)
		for _, in := range cmd.Inputs {
			marker := " "
			if in.Required {
				marker = "*"
			}
			fmt.Fprintf(out, "    %s %-14s %s\n", marker, in.Param(), in.Description)
		}
	}
}

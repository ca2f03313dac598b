package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/resolver"
)

const resolveHelp = `Type digits of a national ID to search. Then:
  #N   select candidate N
  +    register a new client (only when nothing matches)
  -    clear the query and selection
  .    finish with the selected client
  q    quit without selecting`

// runResolve drives r from line-oriented input until the operator finishes
// or quits. It returns the bound client, or nil when none was chosen.
func runResolve(ctx context.Context, r *resolver.Resolver, in io.Reader, out io.Writer) (*domain.Client, error) {
	scanner := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	fmt.Fprintln(out, resolveHelp)

	for {
		line, ok := prompt("> ")
		if !ok {
			return r.Snapshot().Selected, scanner.Err()
		}

		switch {
		case line == "q":
			return nil, nil

		case line == ".":
			return r.Snapshot().Selected, nil

		case line == "-":
			r.ClearSelection()

		case line == "+":
			if err := createInline(ctx, r, out, prompt); err != nil {
				if errors.Is(err, io.EOF) {
					return nil, nil
				}
				fmt.Fprintln(out, err)
			}

		case strings.HasPrefix(line, "#"):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "#"))
			candidates := r.Snapshot().Candidates
			if err != nil || n < 1 || n > len(candidates) {
				fmt.Fprintln(out, "no such candidate")
				continue
			}
			r.Select(candidates[n-1])

		case line == "?" || line == "help":
			fmt.Fprintln(out, resolveHelp)
			continue

		default:
			r.SetQuery(ctx, line)
			r.Wait()
		}

		printState(out, r.Snapshot())
	}
}

func createInline(ctx context.Context, r *resolver.Resolver, out io.Writer, prompt func(string) (string, bool)) error {
	r.Wait()
	if err := r.OpenCreateForm(); err != nil {
		return err
	}

	for {
		state := r.Snapshot()

		name, ok := prompt(fmt.Sprintf("Full name [%s]: ", state.DraftFullName))
		if !ok {
			return io.EOF
		}
		if name == "" {
			name = state.DraftFullName
		}
		nationalID, ok := prompt(fmt.Sprintf("National ID [%s]: ", state.DraftNationalID))
		if !ok {
			return io.EOF
		}
		if nationalID == "" {
			nationalID = state.DraftNationalID
		}

		if _, err := r.CreateClient(ctx, name, nationalID); err == nil {
			return nil
		}

		// The notifier already reported why; offer another go.
		again, ok := prompt("Try again? (yes/no): ")
		if !ok {
			return io.EOF
		}
		if again != "yes" && again != "y" {
			r.CloseCreateForm()
			return nil
		}
	}
}

func printState(out io.Writer, state resolver.State) {
	switch state.Phase {
	case resolver.Idle:
		fmt.Fprintln(out, "(no query)")
	case resolver.Selected:
		fmt.Fprintf(out, "selected: %s  %s\n", state.Selected.NationalID, state.Selected.FullName)
	case resolver.NoMatch:
		fmt.Fprintln(out, "no client matches; '+' registers one")
	case resolver.Suggesting:
		for i, c := range state.Candidates {
			fmt.Fprintf(out, "  #%d  %s  %s\n", i+1, c.NationalID, c.FullName)
		}
	case resolver.Creating:
		fmt.Fprintln(out, "registration form open")
	}
}

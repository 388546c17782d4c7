package main

import (
	"fmt"
	"io"

	"github.com/psaab/opsh/pkg/cmdtree"
)

// commandTree builds the job and user administration commands.
// Handlers write to w so output can be captured in tests.
func commandTree(w io.Writer) map[string]*cmdtree.Node {
	return map[string]*cmdtree.Node{
		"jobs": cmdtree.Group(map[string]*cmdtree.Node{
			"list": cmdtree.Command(func(map[string]any) error {
				fmt.Fprintln(w, "Listing jobs...")
				return nil
			}),
			"start": cmdtree.Command(startJob(w), "nice", "max-mem"),
			"stop": cmdtree.Command(func(map[string]any) error {
				fmt.Fprintln(w, "Stopping job...")
				return nil
			}),
		}),
		"users": cmdtree.Group(map[string]*cmdtree.Node{
			"add": cmdtree.Command(func(map[string]any) error {
				fmt.Fprintln(w, "Adding user...")
				return nil
			}),
			"remove": cmdtree.Command(func(map[string]any) error {
				fmt.Fprintln(w, "Removing user...")
				return nil
			}),
			"list": cmdtree.Command(func(map[string]any) error {
				fmt.Fprintln(w, "Listing users...")
				return nil
			}),
		}),
	}
}

// startJob starts a job with the given scheduling options, falling
// back to a nice of 0 and a memory cap of 64k.
func startJob(w io.Writer) cmdtree.Handler {
	return func(opts map[string]any) error {
		nice := opts["nice"]
		if nice == nil {
			nice = 0
		}
		maxMem := opts["max_mem"]
		if maxMem == nil {
			maxMem = "64k"
		}
		_, err := fmt.Fprintf(w, "Starting job with nice=%v and max_mem=%v\n", nice, maxMem)
		return err
	}
}

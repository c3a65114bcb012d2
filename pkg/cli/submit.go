package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zdunecki/jobwizard/pkg/jobs"
	"github.com/zdunecki/jobwizard/pkg/options"
	"github.com/zdunecki/jobwizard/pkg/results"
	"github.com/zdunecki/jobwizard/pkg/wizard"
)

// SubmitOptions holds the settings of one submission.
type SubmitOptions struct {
	SourcePath   string
	Node         string // picked interactively when empty
	Label        string // defaults to the source file name
	OptionsFile  string // local option definitions instead of the node's
	OutputDir    string // defaults to the source file's directory
	PollInterval time.Duration
}

// Session wires the collaborators of an interactive submission.
type Session struct {
	Service jobs.Service
	Surface wizard.Surface
	// Progress wraps slow remote calls, e.g. with a spinner. Nil runs them directly.
	Progress func(ctx context.Context, title string, fn func(context.Context) error) error
	Logf     func(string, ...interface{})
}

// Submit asks for a node and the node's options, submits the job, waits for
// it and saves the result. ok is false when the user cancelled anywhere
// before the job was submitted.
func (s *Session) Submit(ctx context.Context, opts SubmitOptions) (path string, ok bool, err error) {
	source, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return "", false, fmt.Errorf("read source: %w", err)
	}

	nodeID := opts.Node
	if nodeID == "" {
		nodeID, ok, err = s.pickNode(ctx)
		if err != nil || !ok {
			return "", false, err
		}
	}

	set, err := s.loadOptions(ctx, nodeID, opts.OptionsFile)
	if err != nil {
		return "", false, err
	}
	collector, err := wizard.New(set)
	if err != nil {
		return "", false, err
	}
	s.logf("🧭 %d options in %d steps\n", set.Len(), len(collector.Units()))

	values, ok, err := collector.Run(ctx, s.Surface)
	if err != nil || !ok {
		return "", false, err
	}

	label := opts.Label
	if label == "" {
		base := filepath.Base(opts.SourcePath)
		label = strings.TrimSuffix(base, filepath.Ext(base))
	}

	confirmed, ok, err := s.Surface.PickOne(ctx, wizard.SinglePrompt{
		Title:       "Confirm submission",
		Description: summary(nodeID, label, set, collector.Order(), values),
		Items: []wizard.Item{
			{Value: "submit", Title: "Submit now", Description: "Send the job to " + nodeID},
			{Value: "cancel", Title: "Cancel", Description: "Exit without submitting"},
		},
	})
	if err != nil || !ok || confirmed != "submit" {
		return "", false, err
	}

	s.logf("⏳ Submitting job to %s...\n", nodeID)
	jobID, err := s.Service.Submit(ctx, jobs.Submission{
		Node:    nodeID,
		Source:  string(source),
		Label:   label,
		Options: values,
	})
	if err != nil {
		return "", false, err
	}
	s.logf("✅ Job submitted (ID: %s)\n", jobID)

	s.logf("⏳ Waiting for job to finish...\n")
	if _, err := jobs.Wait(ctx, s.Service, jobID, opts.PollInterval); err != nil {
		return "", false, err
	}
	s.logf("✅ Job finished\n")

	data, err := s.Service.Result(ctx, jobID)
	if err != nil {
		return "", false, err
	}
	path, err = results.Save(results.PathFor(opts.SourcePath, opts.OutputDir), data)
	if err != nil {
		return "", false, err
	}
	s.logf("💾 Result saved to %s\n", path)
	return path, true, nil
}

func (s *Session) pickNode(ctx context.Context) (string, bool, error) {
	var nodes jobs.NodeList
	err := s.progress(ctx, "Fetching compute nodes...", func(ctx context.Context) error {
		var err error
		nodes, err = s.Service.ListNodes(ctx)
		return err
	})
	if errors.Is(err, ErrInterrupted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if len(nodes.Nodes) == 0 {
		return "", false, fmt.Errorf("no compute nodes available")
	}

	return s.Surface.PickOne(ctx, nodePrompt(nodes))
}

func nodePrompt(nodes jobs.NodeList) wizard.SinglePrompt {
	p := wizard.SinglePrompt{Title: "Select compute node"}
	for i, n := range nodes.Nodes {
		item := wizard.Item{
			Value:       n.ID,
			Title:       n.Name,
			Description: fmt.Sprintf("CPU %.0f%%", n.CPUUsage),
		}
		if item.Title == "" {
			item.Title = n.ID
		}
		if n.ID == nodes.Recommended {
			item.Decoration = "recommended"
			p.Default = i
		}
		p.Items = append(p.Items, item)
	}
	return p
}

func (s *Session) loadOptions(ctx context.Context, nodeID, file string) (options.OptionSet, error) {
	if file != "" {
		return options.LoadFile(file)
	}
	var set options.OptionSet
	err := s.progress(ctx, "Fetching job options...", func(ctx context.Context) error {
		var err error
		set, err = s.Service.NodeOptions(ctx, nodeID)
		return err
	})
	return set, err
}

func (s *Session) progress(ctx context.Context, title string, fn func(context.Context) error) error {
	if s.Progress == nil {
		return fn(ctx)
	}
	return s.Progress(ctx, title, fn)
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

func summary(nodeID, label string, set options.OptionSet, order []string, values options.UserValues) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node: %s\n", nodeID)
	fmt.Fprintf(&b, "Label: %s\n", label)
	for _, id := range order {
		opt, _ := set.Get(id)
		fmt.Fprintf(&b, "  %s: %s\n", opt.Label(), formatValue(values[id]))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case string:
		if v == "" {
			return "(empty)"
		}
		return v
	}
	return fmt.Sprint(v)
}

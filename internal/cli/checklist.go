package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/lovedhomes/internal/checklist"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/internal/ui"
)

func newChecklistCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checklist",
		Aliases: []string{"cl"},
		Short:   "Show and edit the checklist of a property",
		Long: `Show and edit the checklist of a property.

Nodes are addressed by id ("42" or "id:42") or, for nodes without an id,
by position ("path:0,1" is the second child of the first root node).`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cmd.AddCommand(
		newChecklistShowCmd(e),
		newChecklistAddCmd(e),
		newChecklistRenameCmd(e),
		newChecklistRmCmd(e),
	)
	return cmd
}

// openSession finds the property and loads its checklist.
func (e *env) openSession(ctx context.Context, propertyID string) (*checklist.Session, error) {
	props, err := e.directory().Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	for _, p := range props {
		if string(p.ID) == propertyID {
			s := e.session(p)
			if _, err := s.Load(ctx); err != nil {
				return nil, fmt.Errorf("load checklist: %w", err)
			}
			return s, nil
		}
	}
	return nil, usagef(fmt.Errorf("no property with id %q", propertyID))
}

func parseRef(s string) (model.Ref, error) {
	ref, err := model.ParseRef(s)
	if err != nil {
		return model.Ref{}, usagef(err)
	}
	return ref, nil
}

func newChecklistShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <property-id>",
		Short: "Print the checklist tree",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printChecklist(cmd.OutOrStdout(), s.Property(), s.Nodes())
			return nil
		},
	}
}

func newChecklistAddCmd(e *env) *cobra.Command {
	var (
		parent string
		folder bool
	)
	cmd := &cobra.Command{
		Use:   "add <property-id>",
		Short: "Add an item (or a folder) with the default title",
		Example: `  lovedhomes checklist add 7
  lovedhomes checklist add 7 --folder
  lovedhomes checklist add 7 --parent 12`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := model.Ref{}
			if parent != "" {
				var err error
				if ref, err = parseRef(parent); err != nil {
					return err
				}
			}
			kind := model.KindItem
			if folder {
				kind = model.KindFolder
			}
			s, err := e.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			nodes, err := s.Add(cmd.Context(), ref, kind)
			if err != nil {
				return fmt.Errorf("checklist add: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %q", model.DefaultTitle(kind)))
			printChecklist(cmd.OutOrStdout(), s.Property(), nodes)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "folder to add into (id or path:i,j); default is the root")
	cmd.Flags().BoolVar(&folder, "folder", false, "add a folder instead of an item")
	return cmd
}

func newChecklistRenameCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <property-id> <node> <title...>",
		Short: "Change the title of a node",
		Args:  usageArgs(cobra.MinimumNArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[1])
			if err != nil {
				return err
			}
			s, err := e.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			nodes, changed, err := s.Rename(cmd.Context(), ref, strings.Join(args[2:], " "))
			if err != nil {
				return fmt.Errorf("checklist rename: %w", err)
			}
			if !changed {
				ui.OK(cmd.OutOrStdout(), "unchanged")
				return nil
			}
			ui.OK(cmd.OutOrStdout(), "renamed")
			printChecklist(cmd.OutOrStdout(), s.Property(), nodes)
			return nil
		},
	}
}

func newChecklistRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <property-id> <node>",
		Aliases: []string{"delete"},
		Short:   "Delete a node and everything under it",
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[1])
			if err != nil {
				return err
			}
			s, err := e.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			nodes, err := s.Delete(cmd.Context(), ref)
			if err != nil {
				return fmt.Errorf("checklist rm: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			printChecklist(cmd.OutOrStdout(), s.Property(), nodes)
			return nil
		},
	}
}

func printChecklist(w io.Writer, p model.Property, nodes []model.Node) {
	ui.Panel(w, checklistLines(w, p, nodes))
}

func checklistLines(w io.Writer, p model.Property, nodes []model.Node) []string {
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", ui.Heading(w, t.SymHome+" "+p.Name), ui.Accent(w, "Total"), model.Count(nodes)),
		"",
	}
	if len(nodes) == 0 {
		lines = append(lines, ui.Muted(w, "nessuna voce ancora"))
	}
	model.Walk(nodes, func(path model.Path, n model.Node) {
		sym := ui.Muted(w, t.SymItem)
		if n.IsFolder() {
			sym = ui.Accent(w, t.SymFolder)
		}
		ref := model.RefID(n.ID)
		if n.ID == "" {
			ref = model.RefPath(path)
		}
		indent := strings.Repeat("  ", len(path)-1)
		lines = append(lines, fmt.Sprintf("%s%s %s  %s", indent, sym, n.DisplayTitle(), ui.Muted(w, ref.String())))
	})
	return lines
}

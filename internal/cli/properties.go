package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/lovedhomes/internal/directory"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/internal/ui"
)

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List properties in server order",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := e.directory().Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load properties: %w", err)
			}
			ui.Panel(cmd.OutOrStdout(), propertyLines(cmd, props))
			return nil
		},
	}
}

func propertyLines(cmd *cobra.Command, props []model.Property) []string {
	w := cmd.OutOrStdout()
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", ui.Heading(w, t.SymHome+" Tutte le case"), ui.Accent(w, "Total"), len(props)),
		"",
	}
	if len(props) == 0 {
		lines = append(lines, ui.Muted(w, "nessuna casa"))
	}
	idw := 0
	for _, p := range props {
		idw = max(idw, len(p.ID))
	}
	for _, p := range props {
		line := fmt.Sprintf("%s  %s", ui.Muted(w, fmt.Sprintf("%*s", idw, p.ID)), p.Name)
		if p.HasPhoto() {
			line += " " + ui.Accent(w, t.SymPhoto)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", ui.Muted(w, "Tip: add with `lovedhomes add \"Casa Mare Blu\"`"))
	return lines
}

func newAddCmd(e *env) *cobra.Command {
	var photoPath string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a property",
		Example: `  lovedhomes add "Casa Mare Blu"
  lovedhomes add Baita --photo ~/Pictures/baita.jpg`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := directory.Validate(strings.Join(args, " "))
			if err != nil {
				return usagef(fmt.Errorf("add: %w", err))
			}
			form := directory.Form{Name: name}
			if photoPath != "" {
				if err := form.SetPhotoFromFile(photoPath); err != nil {
					return usagef(fmt.Errorf("add: photo %s: %w", photoPath, err))
				}
			}
			if _, err := e.directory().Submit(cmd.Context(), &form); err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %q", name))
			return nil
		},
	}
	cmd.Flags().StringVar(&photoPath, "photo", "", "image file stored as the property photo")
	return cmd
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/gerunddev/marktree/internal/config"
	"github.com/gerunddev/marktree/internal/render"
	"github.com/gerunddev/marktree/internal/state"
	"github.com/gerunddev/marktree/internal/styles"
)

// Status prints what the last check runs recorded for each file
func Status(env *Env) error {
	statePath := config.StateFilePath()
	st, err := state.Load(statePath)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	paths := st.Paths()

	fmt.Fprintln(env.Stdout, styles.TitleStyle.Render("marktree status"))
	fmt.Fprintf(env.Stdout, "  State file: %s\n", statePath)

	if len(paths) == 0 {
		fmt.Fprintln(env.Stdout, styles.DimStyle.Render("  No files checked yet. Run 'marktree check DIR' first."))
		return nil
	}

	var blocks, failures int
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Border))).
		Headers("File", "Blocks", "Modified", "Error").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, path := range paths {
		fs, _ := st.Get(path)
		blocks += fs.Blocks

		errText := styles.SuccessStyle.Render("✓")
		if fs.Error != "" {
			failures++
			errText = styles.ErrorStyle.Render(render.Truncate(fs.Error, 50))
		}

		t.Row(
			path,
			strconv.Itoa(fs.Blocks),
			humanize.Time(st.GetMTime(path)),
			errText,
		)
	}

	fmt.Fprintf(env.Stdout, "  Files: %d  Blocks: %s  Failures: %d\n\n",
		len(paths), humanize.Comma(int64(blocks)), failures)
	fmt.Fprintln(env.Stdout, t.Render())
	return nil
}

package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/scene"
	"github.com/inkscene/inkscene/pkg/scenefile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// shapes command
// =============================================================================

// shapesCommand creates the shapes command, an interactive browser over the
// resolved shapes of a scene.
func (c *CLI) shapesCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "shapes [scene.toml]",
		Short: "Browse the resolved shapes of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := scenefile.Load(args[0])
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			model := NewShapeListModel(canvas)
			if plain {
				fmt.Println(model.Table())
				return nil
			}

			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(ShapeListModel); ok && m.Selected != nil {
				printShapeDetail(canvas, m.Selected)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table without interaction")
	return cmd
}

// printShapeDetail prints the anchors of the selected shape.
func printShapeDetail(c *scene.Canvas, s *scene.Shape) {
	fmt.Println(StyleTitle.Render(s.ID))
	for _, name := range scene.AnchorsFor(s.Kind) {
		p, err := c.AnchorPoint(s.ID, name)
		if err != nil {
			printDetail("%s: %s", name, errors.UserMessage(err))
			continue
		}
		printDetail("%-14s (%.1f, %.1f)", name, p.X, p.Y)
	}
}

// =============================================================================
// ShapeListModel - Interactive shape browser
// =============================================================================

// shapeRow is one precomputed table row. Positions are resolved once when the
// model is built; unresolvable shapes show the error code instead.
type shapeRow struct {
	shape    *scene.Shape
	id       string
	kind     string
	binding  string
	position string
	surface  string
	z        string
}

// ShapeListModel is the bubbletea model for browsing scene shapes.
type ShapeListModel struct {
	Rows     []shapeRow
	Cursor   int
	Selected *scene.Shape
	Height   int
	Offset   int
}

// NewShapeListModel builds the model, resolving every shape's position.
func NewShapeListModel(c *scene.Canvas) ShapeListModel {
	shapes := c.Shapes()
	rows := make([]shapeRow, 0, len(shapes))
	for _, s := range shapes {
		row := shapeRow{
			shape:   s,
			id:      s.ID,
			kind:    string(s.Kind),
			binding: s.Binding().Mode().String(),
			surface: s.SurfaceID(),
			z:       fmt.Sprintf("%d", s.Z),
		}
		if row.surface == "" {
			row.surface = "—"
		}
		if p, err := c.Resolve(s.ID); err != nil {
			row.position = string(errors.GetCode(err))
		} else {
			row.position = fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
		}
		rows = append(rows, row)
	}
	return ShapeListModel{Rows: rows, Height: 15}
}

func (m ShapeListModel) Init() tea.Cmd {
	return nil
}

func (m ShapeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.Selected = m.Rows[m.Cursor].shape
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ShapeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Scene Shapes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ anchors  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable(true))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// Table renders the full shape table without cursor highlighting, for the
// --plain mode.
func (m ShapeListModel) Table() string {
	return m.renderTable(false)
}

func (m ShapeListModel) renderTable(interactive bool) string {
	start, end := 0, len(m.Rows)
	if interactive {
		start = m.Offset
		if e := m.Offset + m.Height; e < end {
			end = e
		}
	}

	rows := [][]string{}
	for i := start; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if interactive && i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.id, r.kind, r.binding, r.position, r.surface, r.z})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Shape", "Kind", "Binding", "Position", "Surface", "Z").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if interactive && start+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}

package cli

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/voltlab/sldraw/pkg/geom"
	"github.com/voltlab/sldraw/pkg/history"
	"github.com/voltlab/sldraw/pkg/layout"
	"github.com/voltlab/sldraw/pkg/sld"
	"github.com/voltlab/sldraw/pkg/viewport"
)

// Terminal cells are not square. One cell maps to this many world pixels
// at zoom 1, keeping diagram proportions roughly right on screen.
const (
	cellWidth  = 12.0
	cellHeight = 24.0
)

var (
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	nodeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	edgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newViewCmd creates the view command: an interactive terminal canvas for
// panning, zooming and dragging components. Edits are written back to the
// document file on save.
func newViewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "view <document.json>",
		Short: "Edit a diagram interactively in the terminal",
		Long: `View opens the document on an interactive canvas. Drag components with
the mouse, pan by dragging open canvas, zoom with the wheel. Moves snap
to the grid on release and can be undone.

Keys: u undo, ctrl+r redo, 0 reset view, s save, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := sld.ReadDocumentFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			engine, err := engineFromConfig(configPath)
			if err != nil {
				return err
			}

			result := engine.Layout(doc)
			doc.Components = result.Placed

			m := &viewModel{
				path:   args[0],
				doc:    doc,
				engine: engine,
				view:   viewport.New(engine.Options().GridSize),
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file overriding layout geometry and ranks")
	return cmd
}

type viewModel struct {
	path   string
	doc    *sld.Document
	engine *layout.Engine
	view   viewport.View
	undo   history.Log

	width, height int
	ghost         *viewport.Reposition // live drag position, unsnapped
	status        string
}

func (m *viewModel) Init() tea.Cmd { return nil }

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "u":
			if e, ok := m.undo.Undo(); ok && e.FromX != nil {
				m.doc.SetPosition(e.ComponentID, *e.FromX, *e.FromY)
				m.status = "undid move of " + e.ComponentID
			}
		case "ctrl+r":
			if e, ok := m.undo.Redo(); ok {
				m.doc.SetPosition(e.ComponentID, e.ToX, e.ToY)
				m.status = "redid move of " + e.ComponentID
			}
		case "0":
			m.view = m.view.Reset()
			m.status = "view reset"
		case "s":
			if err := sld.WriteDocumentFile(m.doc, m.path); err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.status = "saved " + m.path
			}
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *viewModel) handleMouse(msg tea.MouseMsg) {
	screen := geom.Point{X: float64(msg.X) * cellWidth, Y: float64(msg.Y) * cellHeight}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.view = m.view.PointerDown(screen, m.doc.Components)
		case tea.MouseButtonWheelUp:
			m.view = m.view.Zoom(1.1)
		case tea.MouseButtonWheelDown:
			m.view = m.view.Zoom(1 / 1.1)
		}
	case tea.MouseActionMotion:
		var ghost *viewport.Reposition
		m.view, ghost = m.view.PointerMove(screen)
		if ghost != nil {
			m.ghost = ghost
		}
	case tea.MouseActionRelease:
		view, commit := m.view.PointerUp(screen)
		m.view = view
		m.ghost = nil
		if commit != nil {
			if c := m.doc.Component(commit.ID); c != nil {
				m.undo.Record(commit.ID, c.X, c.Y, commit.X, commit.Y)
			}
			m.doc.SetPosition(commit.ID, commit.X, commit.Y)
			m.status = fmt.Sprintf("%s -> (%.0f, %.0f)", commit.ID, commit.X, commit.Y)
		}
	}
}

func (m *viewModel) View() string {
	if m.width == 0 || m.height < 2 {
		return ""
	}
	rows := m.height - 1
	grid := make([][]rune, rows)
	styles := make([][]*lipgloss.Style, rows)
	for i := range grid {
		grid[i] = make([]rune, m.width)
		styles[i] = make([]*lipgloss.Style, m.width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	centers := make(map[string]geom.Point, len(m.doc.Components))
	for i := range m.doc.Components {
		c := &m.doc.Components[i]
		if !c.Positioned() {
			continue
		}
		p := geom.Point{X: *c.X, Y: *c.Y}
		if m.ghost != nil && m.ghost.ID == c.ID {
			p = geom.Point{X: m.ghost.X, Y: m.ghost.Y}
		}
		centers[c.ID] = p
	}

	for _, conn := range m.doc.Connections {
		from, okFrom := centers[conn.From]
		to, okTo := centers[conn.To]
		if !okFrom || !okTo {
			continue
		}
		curve := geom.Route(from, to)
		for t := 0.0; t <= 1.0; t += 0.02 {
			m.plot(grid, styles, curve.At(t), '·', &edgeStyle)
		}
	}
	for i := range m.doc.Components {
		c := &m.doc.Components[i]
		p, ok := centers[c.ID]
		if !ok {
			continue
		}
		style := &nodeStyle
		if m.view.Selected == c.ID {
			style = &selectedStyle
		}
		m.plotLabel(grid, styles, p, nodeLabel(c), style)
	}

	var out []byte
	for i := range grid {
		for j := range grid[i] {
			cell := string(grid[i][j])
			if s := styles[i][j]; s != nil {
				cell = s.Render(cell)
			}
			out = append(out, cell...)
		}
		out = append(out, '\n')
	}
	status := fmt.Sprintf(" %s | zoom %.2f | %s ", m.view.Mode(), m.view.Scale, m.status)
	return string(out) + statusStyle.Render(status)
}

// plot draws one rune at the cell under the world point, if visible.
func (m *viewModel) plot(grid [][]rune, styles [][]*lipgloss.Style, world geom.Point, r rune, style *lipgloss.Style) {
	s := m.view.ScreenFromWorld(world)
	col := int(math.Round(s.X / cellWidth))
	row := int(math.Round(s.Y / cellHeight))
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return
	}
	grid[row][col] = r
	styles[row][col] = style
}

// plotLabel writes a node label centered on its world position.
func (m *viewModel) plotLabel(grid [][]rune, styles [][]*lipgloss.Style, world geom.Point, label string, style *lipgloss.Style) {
	s := m.view.ScreenFromWorld(world)
	row := int(math.Round(s.Y / cellHeight))
	col := int(math.Round(s.X/cellWidth)) - len(label)/2
	if row < 0 || row >= len(grid) {
		return
	}
	for i, r := range label {
		j := col + i
		if j < 0 || j >= len(grid[row]) {
			continue
		}
		grid[row][j] = r
		styles[row][j] = style
	}
}

func nodeLabel(c *sld.Component) string {
	label := c.Label
	if label == "" {
		label = c.ID
	}
	return "[" + label + "]"
}

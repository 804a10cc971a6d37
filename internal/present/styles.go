package present

import "github.com/charmbracelet/lipgloss"

var (
	green  = lipgloss.Color("#10B981")
	cyan   = lipgloss.Color("#22D3EE")
	yellow = lipgloss.Color("#F59E0B")
	red    = lipgloss.Color("#EF4444")
	muted  = lipgloss.Color("#6B7280")
	purple = lipgloss.Color("#A855F7")
)

// styles are bound to one renderer so colour support follows the writer.
type styles struct {
	r       *lipgloss.Renderer
	bold    lipgloss.Style
	dim     lipgloss.Style
	path    lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	header  lipgloss.Style
	current lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		r:       r,
		bold:    r.NewStyle().Bold(true),
		dim:     r.NewStyle().Foreground(muted),
		path:    r.NewStyle().Foreground(cyan),
		good:    r.NewStyle().Foreground(green),
		warn:    r.NewStyle().Foreground(yellow),
		bad:     r.NewStyle().Foreground(red),
		header:  r.NewStyle().Bold(true).Foreground(purple),
		current: r.NewStyle().Bold(true).Foreground(cyan),
	}
}

// panel draws body in a rounded box under a bold title.
func (s styles) panel(title string, border lipgloss.Color, body string) string {
	box := s.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	return box.Render(s.bold.Foreground(border).Render(title) + "\n\n" + body)
}

// label renders "Name: value" with a bold name.
func (s styles) label(name, value string) string {
	return s.bold.Render(name+":") + " " + value
}

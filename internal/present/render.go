package present

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/systemshift/svcs/internal/vcs"
)

const dateLayout = "2006-01-02 15:04:05"

// maxMessage is the longest commit message shown in a log table row.
const maxMessage = 50

// panelFiles caps the file list inside the commit panel.
const panelFiles = 5

func size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func signedSize(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return "+" + humanize.Bytes(uint64(n))
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}

func (p *Printer) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.st.dim).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.st.header.Padding(0, 1)
			}
			return p.st.r.NewStyle().Padding(0, 1)
		})
}

// Initialized reports a new repository.
func (p *Printer) Initialized(r *vcs.Repository) error {
	rep := InitReport{Root: r.Root(), Meta: r.MetaPath(), Hash: r.Config.Hash}
	if p.structured() {
		return p.emit(rep)
	}
	body := p.st.good.Render("SUCCESS") + " Repository initialized at " + p.st.path.Render(rep.Root) + "\n\n" +
		p.st.dim.Render("Structure created:") + "\n" +
		"  - " + vcs.MetaDir + "/objects/ - File storage\n" +
		"  - " + vcs.MetaDir + "/commits.json - Commit history\n" +
		"  - " + vcs.MetaDir + "/staging.json - Staged files\n" +
		"  - " + vcs.MetaDir + "/HEAD - Current commit\n" +
		"  - " + vcs.MetaDir + "/config.json - Settings (hash: " + string(rep.Hash) + ")"
	return p.println(p.st.panel("svcs repository", green, body))
}

// Added reports newly staged files.
func (p *Printer) Added(entries []vcs.StagingEntry) error {
	if p.structured() {
		return p.emit(fileReports(entries, nil))
	}
	for _, e := range entries {
		line := p.st.good.Render("Added:") + " " + p.st.path.Render(e.Path) + " " + p.st.dim.Render("("+size(e.Size)+")")
		if err := p.println(line); err != nil {
			return err
		}
	}
	return nil
}

// Committed reports a new commit.
func (p *Printer) Committed(c *vcs.Commit) error {
	if p.structured() {
		return p.emit(commitReport(c, c.ID, nil))
	}
	files := c.SortedFiles()
	var b strings.Builder
	b.WriteString(p.st.good.Bold(true).Render(fmt.Sprintf("Commit #%d", c.ID)) + "\n\n")
	b.WriteString(p.st.label("Message", c.Message) + "\n")
	b.WriteString(p.st.label("Files", fmt.Sprintf("%d file(s)", len(files))) + "\n")
	for i, f := range files {
		if i == panelFiles {
			b.WriteString("\n" + p.st.dim.Render(fmt.Sprintf("  ... and %d more file(s)", len(files)-panelFiles)))
			break
		}
		b.WriteString("\n  - " + p.st.path.Render(f.Path))
	}
	return p.println(p.st.panel("Commit successful", green, b.String()))
}

// Diff reports the differences between two commits.
func (p *Printer) Diff(d *vcs.DiffResult) error {
	if p.structured() {
		return p.emit(d)
	}
	title := p.st.header.Render(fmt.Sprintf("Changes between commit #%d and #%d", d.From, d.To))
	if d.Empty() {
		return p.println(title + "\n" + p.st.dim.Render("No differences found between commits"))
	}

	t := p.table("Change", "File", "Details")
	for _, path := range d.Added {
		t.Row(p.st.good.Render("+ Added"), path, "")
	}
	for _, path := range d.Deleted {
		t.Row(p.st.bad.Render("- Deleted"), path, "")
	}
	for _, m := range d.Modified {
		t.Row(p.st.warn.Render("M Modified"), m.Path, "Size change: "+signedSize(m.SizeDelta))
	}
	summary := fmt.Sprintf("Summary: %s, %s, %s",
		p.st.good.Render(fmt.Sprintf("%d added", len(d.Added))),
		p.st.warn.Render(fmt.Sprintf("%d modified", len(d.Modified))),
		p.st.bad.Render(fmt.Sprintf("%d deleted", len(d.Deleted))))
	return p.println(title + "\n" + t.Render() + "\n\n" + summary)
}

// Log reports commit history, newest first.
func (p *Printer) Log(l *vcs.LogResult, limit int) error {
	if p.structured() {
		reports := make([]*CommitReport, len(l.Commits))
		for i := range l.Commits {
			reports[i] = commitReport(&l.Commits[i], l.Head, nil)
		}
		return p.emit(reports)
	}

	width := maxMessage
	if narrow := p.width - 50; narrow < width {
		width = max(narrow, 20)
	}
	t := p.table("ID", "Date", "Message", "Files", "Parent")
	for _, c := range l.Commits {
		id := strconv.Itoa(c.ID)
		msg := truncate(c.Message, width)
		if c.ID == l.Head {
			id = p.st.current.Render("* " + id)
			msg = p.st.bold.Render(msg)
		}
		parent := "-"
		if c.Parent != 0 {
			parent = strconv.Itoa(c.Parent)
		}
		t.Row(id, c.Timestamp.Local().Format(dateLayout), msg, strconv.Itoa(len(c.Files)), parent)
	}
	out := p.st.header.Render("Commit history") + "\n" + t.Render()
	if limit > 0 && l.Total > limit {
		out += "\n\n" + p.st.dim.Render(fmt.Sprintf("Showing last %d of %d commits", limit, l.Total))
	}
	return p.println(out)
}

// Status reports HEAD, history size and staged files.
func (p *Printer) Status(s *vcs.Status, h *vcs.Hasher) error {
	rep := StatusReport{Root: s.Root, TotalCommits: s.TotalCommits, Staged: fileReports(s.Staged, h)}
	if s.Head != nil {
		rep.Head = commitReport(s.Head, s.Head.ID, h)
	}
	if p.structured() {
		return p.emit(rep)
	}

	current := p.st.warn.Render("None (no commits yet)")
	if s.Head != nil {
		current = p.st.good.Render(fmt.Sprintf("#%d", s.Head.ID)) + " " +
			p.st.dim.Render(fmt.Sprintf("(%s, %s)", s.Head.Message, humanize.Time(s.Head.Timestamp)))
	}
	body := p.st.label("Location", s.Root) + "\n" +
		p.st.label("Current commit", current) + "\n" +
		p.st.label("Total commits", strconv.Itoa(s.TotalCommits))
	out := p.st.panel("Repository status", cyan, body)

	if len(s.Staged) == 0 {
		out += "\n\n" + p.st.warn.Render("No files staged") + "\n" +
			p.st.dim.Render("Use 'svcs add <file>' to stage files for commit")
		return p.println(out)
	}
	t := p.table("File", "Size", "Modified", "Hash")
	for _, e := range s.Staged {
		t.Row(e.Path, size(e.Size), e.Modified.Local().Format(dateLayout), e.Hash.Short())
	}
	out += "\n\n" + p.st.header.Render("Staged files") + "\n" + t.Render() + "\n" +
		p.st.dim.Render(fmt.Sprintf("Ready to commit %d file(s)", len(s.Staged)))
	return p.println(out)
}

// Show reports one commit in full, with CIDs.
func (p *Printer) Show(c *vcs.Commit, head int, h *vcs.Hasher) error {
	rep := commitReport(c, head, h)
	if p.structured() {
		return p.emit(rep)
	}

	parent := "-"
	if c.Parent != 0 {
		parent = "#" + strconv.Itoa(c.Parent)
	}
	title := fmt.Sprintf("Commit #%d", c.ID)
	if rep.Current {
		title += " (HEAD)"
	}
	body := p.st.label("Message", c.Message) + "\n" +
		p.st.label("Date", c.Timestamp.Local().Format(dateLayout)+" "+p.st.dim.Render("("+humanize.Time(c.Timestamp)+")")) + "\n" +
		p.st.label("Parent", parent) + "\n" +
		p.st.label("Files", strconv.Itoa(len(rep.Files)))
	out := p.st.panel(title, cyan, body)

	if len(rep.Files) > 0 {
		t := p.table("File", "Size", "CID")
		for _, f := range rep.Files {
			t.Row(f.Path, size(f.Size), f.CID)
		}
		out += "\n" + t.Render()
	}
	return p.println(out)
}

// Reverted reports a revert.
func (p *Printer) Reverted(r *vcs.RevertResult) error {
	if p.structured() {
		return p.emit(r)
	}
	body := p.st.good.Bold(true).Render(fmt.Sprintf("Successfully reverted to commit #%d", r.Commit.ID)) + "\n\n" +
		p.st.label("Message", r.Commit.Message) + "\n" +
		p.st.label("Files restored", strconv.Itoa(len(r.Restored))) + "\n" +
		p.st.label("Date", r.Commit.Timestamp.Local().Format(dateLayout))
	border, title := green, "Revert complete"
	if len(r.Skipped) > 0 {
		border, title = yellow, "Revert completed with skipped files"
		body += "\n" + p.st.label("Files skipped", strconv.Itoa(len(r.Skipped)))
		for _, s := range r.Skipped {
			body += "\n  - " + p.st.warn.Render(s.Path) + " " + p.st.dim.Render("("+s.Reason+")")
		}
	}
	return p.println(p.st.panel(title, border, body))
}

// Snapshot reports a written archive.
func (p *Printer) Snapshot(s *vcs.SnapshotResult) error {
	if p.structured() {
		return p.emit(s)
	}
	body := p.st.good.Bold(true).Render("Snapshot created successfully") + "\n\n" +
		p.st.label("Location", p.st.path.Render(s.Path)) + "\n" +
		p.st.label("Size", size(s.Size)) + "\n" +
		p.st.label("Files", strconv.Itoa(s.Files))
	return p.println(p.st.panel("Snapshot created", green, body))
}

// Restored reports an extracted archive.
func (p *Printer) Restored(r *vcs.RestoreResult) error {
	if p.structured() {
		return p.emit(r)
	}
	body := p.st.good.Bold(true).Render("Repository restored successfully") + "\n\n" +
		p.st.label("Snapshot", p.st.path.Render(r.Archive)) + "\n" +
		p.st.label("Files restored", strconv.Itoa(r.Files))
	return p.println(p.st.panel("Restore complete", green, body))
}

// Compacted reports a compaction pass.
func (p *Printer) Compacted(c *vcs.CompactResult) error {
	if p.structured() {
		return p.emit(c)
	}
	if c.Processed == 0 {
		return p.println(p.st.warn.Render("WARNING: No objects to compress (files are too small)"))
	}
	body := p.st.good.Bold(true).Render("Compression completed successfully") + "\n\n" +
		p.st.label("Original size", size(c.OriginalSize)) + "\n" +
		p.st.label("New size", size(c.NewSize)) + "\n" +
		p.st.label("Space saved", p.st.good.Render(size(c.Saved))+" "+p.st.dim.Render(fmt.Sprintf("(%.1f%%)", c.SavedPercent))) + "\n" +
		p.st.label("Objects compressed", fmt.Sprintf("%d of %d", c.Packed, c.Processed))
	return p.println(p.st.panel("Compression complete", green, body))
}

// Verified reports an integrity check.
func (p *Printer) Verified(v *vcs.VerifyResult) error {
	if p.structured() {
		return p.emit(v)
	}
	if v.Clean() {
		return p.println(p.st.good.Render(fmt.Sprintf("OK: %d object(s) verified, no problems found", v.Checked)))
	}
	var b strings.Builder
	for _, d := range v.Corrupt {
		b.WriteString(p.st.bad.Render("corrupt") + "  " + string(d) + "\n")
	}
	for _, m := range v.Missing {
		where := "staging"
		if m.Commit != 0 {
			where = fmt.Sprintf("commit #%d", m.Commit)
		}
		b.WriteString(p.st.bad.Render("missing") + "  " + string(m.Hash) + "  " + m.Path + " " + p.st.dim.Render("("+where+")") + "\n")
	}
	b.WriteString(fmt.Sprintf("%d object(s) checked, %d corrupt, %d missing reference(s)", v.Checked, len(v.Corrupt), len(v.Missing)))
	return p.println(b.String())
}

// Mounted reports a live mount.
func (p *Printer) Mounted(dir string) error {
	if p.structured() {
		return p.emit(map[string]string{"mountpoint": dir})
	}
	return p.println("Mounted history at " + p.st.path.Render(dir) + " " + p.st.dim.Render("(Ctrl-C to unmount)"))
}

// tips suggest the next command after a no-op outcome.
var tips = map[error]string{
	vcs.ErrNothingStaged:       "Tip: Use 'svcs add <file>' to stage files",
	vcs.ErrNoCommits:           `Tip: Use 'svcs commit -m "message"' to create your first commit`,
	vcs.ErrInsufficientHistory: "Tip: Make another commit, or name two commits with --c1 and --c2",
}

// Warning reports a no-op outcome. Structured formats get a WarningReport
// on stdout; text goes to stderr.
func (p *Printer) Warning(err error) error {
	if p.structured() {
		return p.emit(WarningReport{Warning: err.Error()})
	}
	msg := p.st.warn.Render("WARNING: " + err.Error())
	for sentinel, tip := range tips {
		if errors.Is(err, sentinel) {
			msg += "\n" + p.st.dim.Render(tip)
			break
		}
	}
	_, werr := fmt.Fprintln(p.errOut, msg)
	return werr
}

// Error reports a failed command on stderr.
func (p *Printer) Error(err error) {
	msg := p.st.bad.Render("ERROR: " + err.Error())
	if errors.Is(err, vcs.ErrNotRepository) {
		msg += "\n" + p.st.dim.Render("Tip: Run 'svcs init' to initialize a repository")
	}
	fmt.Fprintln(p.errOut, msg)
}

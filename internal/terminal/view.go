// Package terminal renders the waitlist flows to a text terminal.
package terminal

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/DoyleJ11/waitlist/internal/page"
	"github.com/DoyleJ11/waitlist/pkg/types"
)

var (
	rankHeader = []string{"Position", "Name", "Email", "Referral Code", "Referred Persons"}
	topHeader  = []string{"Name", "Email", "Referrals"}

	lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag    = regexp.MustCompile(`<[^>]*>`)
)

// View implements page.SignupView and page.RankingView. Input values come from
// a fixed map; ranking rows are buffered until Flush.
type View struct {
	mu     sync.Mutex
	out    io.Writer
	values map[string]string

	shown        bool
	position     string
	referralCode string

	rows      [][]string
	notice    string
	noticeErr bool

	errColor *color.Color
}

func NewView(out io.Writer, values map[string]string) *View {
	return &View{
		out:      out,
		values:   values,
		errColor: color.New(color.FgHiRed, color.Bold),
	}
}

var (
	_ page.SignupView  = (*View)(nil)
	_ page.RankingView = (*View)(nil)
)

func (v *View) Value(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[id]
}

// SetResultHTML prints the result message as plain text.
func (v *View) SetResultHTML(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	text := PlainText(s)
	if strings.HasPrefix(text, "Error:") {
		v.errColor.Fprintln(v.out, text)
		return
	}
	fmt.Fprintln(v.out, text)
}

func (v *View) ShowSignupResult() {
	v.mu.Lock()
	v.shown = true
	v.mu.Unlock()
}

func (v *View) SetPosition(text string) {
	v.mu.Lock()
	v.position = text
	v.mu.Unlock()
}

func (v *View) SetReferralCode(text string) {
	v.mu.Lock()
	v.referralCode = text
	v.mu.Unlock()
}

// Result returns the echoed position and referral code once the result panel
// has been shown.
func (v *View) Result() (position, referralCode string, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.position, v.referralCode, v.shown
}

func (v *View) ClearRows() {
	v.mu.Lock()
	v.rows = nil
	v.notice = ""
	v.noticeErr = false
	v.mu.Unlock()
}

func (v *View) AppendRow(cells []string) {
	v.mu.Lock()
	v.rows = append(v.rows, append([]string(nil), cells...))
	v.mu.Unlock()
}

func (v *View) SetNotice(text string, isError bool) {
	v.mu.Lock()
	v.rows = nil
	v.notice = text
	v.noticeErr = isError
	v.mu.Unlock()
}

// Flush writes the buffered table, or the notice that replaced it.
func (v *View) Flush() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.notice != "" && v.noticeErr:
		_, err := v.errColor.Fprintln(v.out, v.notice)
		return err
	case v.notice != "":
		_, err := fmt.Fprintln(v.out, v.notice)
		return err
	}
	return renderTable(v.out, rankHeader, v.rows)
}

// RenderTop writes the top referrers table.
func RenderTop(out io.Writer, top []types.TopEntry) error {
	rows := make([][]string, 0, len(top))
	for _, t := range top {
		rows = append(rows, []string{t.Name, t.Email, strconv.Itoa(t.Referrals)})
	}
	return renderTable(out, topHeader, rows)
}

func renderTable(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	// header goes in as the first row
	if err := table.Append(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return err
		}
	}
	return table.Render()
}

// PlainText turns result markup into terminal text: line breaks become
// newlines, other tags are dropped and entities decoded.
func PlainText(s string) string {
	s = lineBreak.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

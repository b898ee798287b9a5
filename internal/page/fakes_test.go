package page

import (
	"sync"
)

type row struct {
	cells   []string
	notice  bool
	isError bool
}

// fakeView records what the flows render, standing in for the DOM.
type fakeView struct {
	mu           sync.Mutex
	values       map[string]string
	result       string
	panelVisible bool
	position     string
	referralCode string
	rows         []row
}

func newFakeView(values map[string]string) *fakeView {
	return &fakeView{values: values}
}

func (v *fakeView) Value(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[id]
}

func (v *fakeView) SetResultHTML(html string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = html
}

func (v *fakeView) ShowSignupResult() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panelVisible = true
}

func (v *fakeView) SetPosition(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.position = text
}

func (v *fakeView) SetReferralCode(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.referralCode = text
}

func (v *fakeView) ClearRows() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = nil
}

func (v *fakeView) AppendRow(cells []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = append(v.rows, row{cells: cells})
}

func (v *fakeView) SetNotice(text string, isError bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = []row{{cells: []string{text}, notice: true, isError: isError}}
}

//go:build js && wasm

package page

import (
	"context"
	"syscall/js"
)

// Document renders both flows into the browser DOM.
type Document struct {
	doc js.Value
}

func NewDocument() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) byID(id string) js.Value {
	return d.doc.Call("getElementById", id)
}

func (d *Document) setProp(id, prop, value string) {
	el := d.byID(id)
	if !el.Truthy() {
		return
	}
	el.Set(prop, value)
}

func (d *Document) Value(id string) string {
	el := d.byID(id)
	if !el.Truthy() {
		return ""
	}
	return el.Get("value").String()
}

func (d *Document) SetResultHTML(html string) { d.setProp(IDResult, "innerHTML", html) }
func (d *Document) SetPosition(text string) { d.setProp(IDPosition, "textContent", text) }
func (d *Document) SetReferralCode(text string) {
	d.setProp(IDReferralEcho, "textContent", text)
}

func (d *Document) ShowSignupResult() {
	el := d.byID(IDSignupResult)
	if !el.Truthy() {
		return
	}
	el.Get("style").Set("display", "block")
}

func (d *Document) ClearRows() { d.setProp(IDRankTableBody, "innerHTML", "") }

func (d *Document) AppendRow(cells []string) {
	body := d.byID(IDRankTableBody)
	if !body.Truthy() {
		return
	}
	row := d.doc.Call("createElement", "tr")
	for _, c := range cells {
		td := d.doc.Call("createElement", "td")
		td.Set("textContent", c)
		row.Call("appendChild", td)
	}
	body.Call("appendChild", row)
}

func (d *Document) SetNotice(text string, isError bool) {
	body := d.byID(IDRankTableBody)
	if !body.Truthy() {
		return
	}
	body.Set("innerHTML", "")

	td := d.doc.Call("createElement", "td")
	td.Set("colSpan", RankColumns)
	td.Set("textContent", text)
	style := td.Get("style")
	style.Set("textAlign", "center")
	if isError {
		style.Set("color", "red")
	}

	row := d.doc.Call("createElement", "tr")
	row.Call("appendChild", td)
	body.Call("appendChild", row)
}

// Bind attaches the flows to the document. Either flow may be nil, and pages
// that lack the form or the table simply skip that flow. The returned func
// releases the JS callbacks.
func Bind(ctx context.Context, d *Document, signup *SignupSubmitter, ranking *RankingLoader) func() {
	var funcs []js.Func

	if form := d.byID(IDSignupForm); signup != nil && form.Truthy() {
		onSubmit := js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) > 0 {
				args[0].Call("preventDefault")
			}
			// fetch blocks, so the flow cannot run on the callback goroutine
			go signup.Submit(ctx)
			return nil
		})
		form.Call("addEventListener", "submit", onSubmit)
		funcs = append(funcs, onSubmit)
	}

	if ranking != nil {
		load := func() {
			if d.byID(IDRankTableBody).Truthy() {
				go ranking.Load(ctx)
			}
		}
		if d.doc.Get("readyState").String() == "loading" {
			onReady := js.FuncOf(func(this js.Value, args []js.Value) any {
				load()
				return nil
			})
			d.doc.Call("addEventListener", "DOMContentLoaded", onReady, map[string]any{"once": true})
			funcs = append(funcs, onReady)
		} else {
			load()
		}
	}

	return func() {
		for _, f := range funcs {
			f.Release()
		}
	}
}

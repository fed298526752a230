package web

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const loginCSS = `body{font-family:system-ui,sans-serif;background:#f4f6f8;margin:0}
.login-wrap{max-width:360px;margin:10vh auto;background:#fff;padding:2rem;border-radius:8px;box-shadow:0 1px 4px rgba(0,0,0,.1)}
.login-form{display:flex;flex-direction:column;gap:.5rem}
.login-form input{padding:.5rem;font-size:1rem}
.login-form button{margin-top:1rem;padding:.6rem;font-size:1rem}
.error{color:#b00020}`

func loginPage(siteName string, lf loginForm, next, errMsg string) g.Node {
	inputType := "text"
	if lf.field == "phone" {
		inputType = "tel"
	}

	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(lf.title+" | "+siteName)),
				h.StyleEl(g.Raw(loginCSS)),
			),
			h.Body(
				h.Main(h.Class("login-wrap"),
					h.H1(g.Text(siteName)),
					h.P(g.Text(lf.title)),
					g.If(errMsg != "", h.P(h.Class("error"), h.Role("alert"), g.Text(errMsg))),
					h.Form(
						h.Method("post"),
						h.Action(lf.path),
						h.Class("login-form"),
						h.Label(h.For(lf.field), g.Text(lf.fieldLabel)),
						h.Input(h.ID(lf.field), h.Name(lf.field), h.Type(inputType), h.Required(), h.AutoComplete("username")),
						h.Label(h.For("password"), g.Text("Password")),
						h.Input(h.ID("password"), h.Name("password"), h.Type("password"), h.Required(), h.AutoComplete("current-password")),
						g.If(next != "", h.Input(h.Type("hidden"), h.Name("next"), h.Value(next))),
						h.Button(h.Type("submit"), g.Text("Sign in")),
					),
				),
			),
		),
	)
}

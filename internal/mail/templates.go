package mail

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// ConfirmationSubject is the subject of the account verification email
const ConfirmationSubject = "Verify your email at Personal CRM (PRM)"

// ConfirmationData fills the verification templates
type ConfirmationData struct {
	FirstName string
	Username  string
	Token     string
	Link      string
}

const confirmationText = `Hi {{.FirstName}},

Welcome to Personal CRM. Confirm your account "{{.Username}}" by sending this token to {{.Link}}:

{{.Token}}

The token expires in three days.
`

const confirmationHTML = `<!DOCTYPE html>
<html>
<body>
<p>Hi {{.FirstName}},</p>
<p>Welcome to Personal CRM. Confirm your account <strong>{{.Username}}</strong> by sending this token to <a href="{{.Link}}">{{.Link}}</a>:</p>
<pre>{{.Token}}</pre>
<p>The token expires in three days.</p>
</body>
</html>
`

var (
	confirmationTextTmpl = texttemplate.Must(texttemplate.New("confirmation.txt").Parse(confirmationText))
	confirmationHTMLTmpl = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(confirmationHTML))
)

// NewConfirmation renders the verification email for one recipient
func NewConfirmation(from, to string, data ConfirmationData) (*Message, error) {
	var text, html bytes.Buffer
	if err := confirmationTextTmpl.Execute(&text, data); err != nil {
		return nil, err
	}
	if err := confirmationHTMLTmpl.Execute(&html, data); err != nil {
		return nil, err
	}
	return &Message{
		From:    from,
		To:      []string{to},
		Subject: ConfirmationSubject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

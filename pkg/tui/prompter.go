package tui

// modalPrompter bridges the session's synchronous prompts to the model's
// modals. It keeps only the alert on screen and the answer the user gave to
// the confirmation being resolved.
type modalPrompter struct {
	alert  string
	answer bool
}

func (p *modalPrompter) Alert(msg string) { p.alert = msg }

// Confirm consumes the pending answer so a later prompt never inherits it.
func (p *modalPrompter) Confirm(string) bool {
	answer := p.answer
	p.answer = false
	return answer
}

func (p *modalPrompter) dismiss() { p.alert = "" }

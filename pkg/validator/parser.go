package validator

import "strings"

// Step is one parsed rule reference, e.g. "!match[eq, password]".
type Step struct {
	Method string
	Negate bool
	// Or joins this step with the next one: the run passes when any member passes.
	Or     bool
	Params []string
}

// Chain is a parsed rule string.
type Chain struct {
	// Display is the optional "Name:" prefix used as {0} in messages.
	Display string
	Steps   []Step
}

// Parse turns a rule string into a Chain. It never fails: unknown characters
// between steps are skipped, and an unterminated bracket takes the rest of the
// string as its parameter.
//
//	Parse("Password: required; length[6~16]")
//	Parse("email | mobile; !required")
//	Parse("match(gte, start_date, date)")
func Parse(rule string) Chain {
	var chain Chain
	rest := rule
	if display, tail, ok := splitDisplay(rule); ok {
		chain.Display = display
		rest = tail
	}

	s := scanner{src: rest}
	for {
		step, ok := s.step()
		if !ok {
			break
		}
		chain.Steps = append(chain.Steps, step)
	}
	return chain
}

// splitDisplay extracts "Name:" when the colon comes before any step syntax.
func splitDisplay(rule string) (string, string, bool) {
	i := strings.IndexAny(rule, ":[(;|&")
	if i < 0 || rule[i] != ':' {
		return "", rule, false
	}
	display := strings.TrimSpace(rule[:i])
	if display == "" {
		return "", rule[i+1:], false
	}
	return display, rule[i+1:], true
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) peek() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return rune(s.src[s.pos]), true
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// step scans the next step, skipping anything that cannot start one.
func (s *scanner) step() (Step, bool) {
	for s.pos < len(s.src) {
		s.skipSpace()
		start := s.pos
		var st Step
		if c, ok := s.peek(); ok && c == '!' {
			st.Negate = true
			s.pos++
			s.skipSpace()
		}
		name := s.word()
		if name == "" {
			// not a step: drop one character and retry
			s.pos = start + 1
			continue
		}
		st.Method = name

		s.skipSpace()
		if c, ok := s.peek(); ok && (c == '[' || c == '(') {
			st.Params = splitParams(s.bracket(byte(c)))
		}

		s.skipSpace()
		if c, ok := s.peek(); ok {
			switch c {
			case '|':
				st.Or = true
				s.pos++
			case ';', '&':
				s.pos++
			}
		}
		return st, true
	}
	return Step{}, false
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.src) {
		if !isWordChar(s.src[s.pos]) {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// bracket consumes a balanced [..] or (..) group starting at the opening
// character and returns its contents.
func (s *scanner) bracket(open byte) string {
	closing := byte(']')
	if open == '(' {
		closing = ')'
	}
	s.pos++
	start := s.pos
	depth := 1
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				body := s.src[start:s.pos]
				s.pos++
				return body
			}
		}
		s.pos++
	}
	return s.src[start:]
}

// splitParams splits on top-level commas and trims each argument.
// An empty body yields no parameters.
func splitParams(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	var (
		params []string
		depth  int
		start  int
	)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				params = append(params, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	return append(params, strings.TrimSpace(body[start:]))
}

func isWordChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// String renders the step back into rule syntax, without the OR separator.
func (s Step) String() string {
	var b strings.Builder
	if s.Negate {
		b.WriteByte('!')
	}
	b.WriteString(s.Method)
	if len(s.Params) > 0 {
		body := strings.Join(s.Params, ", ")
		if strings.ContainsAny(body, "[]") {
			b.WriteString("(" + body + ")")
		} else {
			b.WriteString("[" + body + "]")
		}
	}
	return b.String()
}

// String renders the chain back into a rule string that parses to the same Chain.
func (c Chain) String() string {
	var b strings.Builder
	if c.Display != "" {
		b.WriteString(c.Display)
		b.WriteString(": ")
	}
	for i, st := range c.Steps {
		b.WriteString(st.String())
		if i == len(c.Steps)-1 {
			if st.Or {
				b.WriteString(" |")
			}
			break
		}
		if st.Or {
			b.WriteString(" | ")
		} else {
			b.WriteString("; ")
		}
	}
	return b.String()
}

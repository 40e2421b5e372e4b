package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/token"
)

// strLit: разобранный строковый токен
type strLit struct {
	raw, bytes, fmt bool
	body            string
	bodyStart       uint32 // абсолютное смещение body в файле
}

func splitString(tok token.Token) strLit {
	text := tok.Text
	n := 0
	var lit strLit
	for n < len(text) && text[n] != '\'' && text[n] != '"' {
		switch text[n] {
		case 'r', 'R':
			lit.raw = true
		case 'b', 'B':
			lit.bytes = true
		case 'f', 'F':
			lit.fmt = true
		}
		n++
	}
	if n >= len(text) {
		return lit
	}
	q := text[n : n+1]
	if strings.HasPrefix(text[n:], strings.Repeat(q, 3)) && len(text)-n >= 6 {
		q = text[n : n+3]
	}
	body := text[n+len(q):]
	// незакрытая строка уже отрепорчена лексером
	body = strings.TrimSuffix(body, q)
	lit.body = body
	lit.bodyStart = tok.Span.Start + uint32(n+len(q)) // #nosec G115 -- token text is bounded by the file size
	return lit
}

// parseStrings склеивает соседние строковые литералы: обычные в Constant,
// с хотя бы одной f-строкой в JoinedStr.
func (p *Parser) parseStrings() pyast.ExprID {
	start := p.peek().Span
	var toks []token.Token
	hasF, hasBytes, hasStr := false, false, false
	for p.peek().IsString() {
		tok := p.advance()
		toks = append(toks, tok)
		switch tok.Kind {
		case token.FStringLit:
			hasF = true
		case token.BytesLit:
			hasBytes = true
		default:
			hasStr = true
		}
	}
	sp := p.spanFrom(start)
	if hasBytes && (hasStr || hasF) {
		p.errAt(diag.SynUnexpectedToken, sp, "cannot mix bytes and nonbytes literals")
		return pyast.NoExprID
	}
	if !hasF {
		var text, value strings.Builder
		for i, tok := range toks {
			if i > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(tok.Text)
			lit := splitString(tok)
			if lit.raw {
				value.WriteString(lit.body)
			} else {
				value.WriteString(decodeEscapes(lit.body, lit.bytes))
			}
		}
		kind := pyast.LitStr
		if hasBytes {
			kind = pyast.LitBytes
		}
		return p.exprs().NewConstant(sp, pyast.ConstantData{Kind: kind, Text: text.String(), Str: value.String()})
	}

	fs := &fstringState{p: p}
	for _, tok := range toks {
		lit := splitString(tok)
		if !lit.fmt {
			fs.addLiteral(tok.Span, decodeLiteral(lit.body, lit.raw))
			continue
		}
		if _, ok := fs.parseBody(lit, 0, false); !ok {
			return pyast.NoExprID
		}
	}
	fs.flush()
	return p.exprs().NewJoinedStr(sp, fs.values)
}

func decodeLiteral(s string, raw bool) string {
	if raw {
		return s
	}
	return decodeEscapes(s, false)
}

// decodeEscapes раскрывает escape-последовательности. Неизвестные
// последовательности остаются как есть, \N{...} не раскрывается.
func decodeEscapes(s string, bytes bool) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			writeCode(&b, rune(v), bytes)
			i = j - 1
		case 'x':
			if v, ok := hexAt(s, i+1, 2); ok {
				writeCode(&b, v, bytes)
				i += 2
			} else {
				b.WriteString(`\x`)
			}
		case 'u', 'U':
			width := 4
			if e == 'U' {
				width = 8
			}
			if v, ok := hexAt(s, i+1, width); ok && !bytes && utf8.ValidRune(v) {
				b.WriteRune(v)
				i += width
			} else {
				b.WriteByte('\\')
				b.WriteByte(e)
			}
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

func hexAt(s string, at, width int) (rune, bool) {
	if at+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true // #nosec G115 -- at most 8 hex digits
}

func writeCode(b *strings.Builder, r rune, bytes bool) {
	if bytes {
		b.WriteByte(byte(r)) // #nosec G115 -- octal/hex byte escapes fit in a byte
		return
	}
	b.WriteRune(r)
}

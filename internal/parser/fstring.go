package parser

import (
	"strings"

	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/source"
	"algotex/internal/token"
)

// fstringState накапливает части JoinedStr: литеральный текст склеивается
// между полями, поля разбираются отдельным парсером по диапазону файла.
type fstringState struct {
	p       *Parser
	values  []pyast.ExprID
	lit     strings.Builder
	litSpan source.Span
	hasLit  bool
}

func (fs *fstringState) addLiteral(sp source.Span, s string) {
	if s == "" {
		return
	}
	if fs.hasLit {
		fs.litSpan = fs.litSpan.Cover(sp)
	} else {
		fs.litSpan = sp
		fs.hasLit = true
	}
	fs.lit.WriteString(s)
}

func (fs *fstringState) flush() {
	if !fs.hasLit {
		return
	}
	text := fs.lit.String()
	fs.values = append(fs.values, fs.p.exprs().NewConstant(fs.litSpan, pyast.ConstantData{
		Kind: pyast.LitStr, Text: text, Str: text,
	}))
	fs.lit.Reset()
	fs.hasLit = false
}

func (fs *fstringState) fail(off uint32, msg string) bool {
	fs.p.errAt(diag.SynBadFString, source.At(fs.p.file.ID, off), "f-string: "+msg)
	return false
}

// parseBody разбирает тело f-строки начиная с from. В режиме спецификации
// формата (inSpec) одиночная '}' завершает разбор; возвращается её индекс.
func (fs *fstringState) parseBody(lit strLit, from int, inSpec bool) (int, bool) {
	body := lit.body
	var chunk strings.Builder
	chunkStart := from
	emit := func(end int) {
		if chunk.Len() == 0 {
			return
		}
		sp := source.Span{File: fs.p.file.ID, Start: lit.bodyStart + uint32(chunkStart), End: lit.bodyStart + uint32(end)} // #nosec G115 -- offsets inside a token
		fs.addLiteral(sp, decodeLiteral(chunk.String(), lit.raw))
		chunk.Reset()
	}
	i := from
	for i < len(body) {
		c := body[i]
		switch {
		case c == '{' && i+1 < len(body) && body[i+1] == '{':
			chunk.WriteByte('{')
			i += 2
		case c == '}' && !inSpec && i+1 < len(body) && body[i+1] == '}':
			chunk.WriteByte('}')
			i += 2
		case c == '{':
			emit(i)
			fs.flush()
			end, ok := fs.parseField(lit, i)
			if !ok {
				return i, false
			}
			i = end
			chunkStart = i
		case c == '}':
			if inSpec {
				emit(i)
				return i, true
			}
			return i, fs.fail(lit.bodyStart+uint32(i), "single '}' is not allowed") // #nosec G115 -- offsets inside a token
		default:
			chunk.WriteByte(c)
			i++
		}
	}
	if inSpec {
		return i, fs.fail(lit.bodyStart+uint32(i), "expecting '}'") // #nosec G115 -- offsets inside a token
	}
	emit(i)
	return i, true
}

// parseField разбирает {expr[=][!conv][:spec]} начиная с '{'; возвращает
// индекс после закрывающей '}'.
func (fs *fstringState) parseField(lit strLit, open int) (int, bool) {
	body := lit.body
	base := lit.bodyStart
	at := func(i int) uint32 { return base + uint32(i) } // #nosec G115 -- offsets inside a token

	exprStart := open + 1
	j, debug := scanFieldExpr(body, exprStart)
	if j >= len(body) {
		return j, fs.fail(at(open), "expecting '}'")
	}
	exprEnd := j
	if strings.TrimSpace(body[exprStart:exprEnd]) == "" {
		return j, fs.fail(at(exprStart), "empty expression not allowed")
	}
	conv := pyast.NoConversion
	if debug {
		j++ // '='
		for j < len(body) && body[j] == ' ' {
			j++
		}
		fs.addLiteral(source.Span{File: fs.p.file.ID, Start: at(exprStart), End: at(j)}, body[exprStart:j])
		fs.flush()
	}
	if j < len(body) && body[j] == '!' {
		if j+1 >= len(body) || !strings.ContainsRune("sra", rune(body[j+1])) {
			return j, fs.fail(at(j), "invalid conversion character: expected 's', 'r', or 'a'")
		}
		conv = pyast.Conversion(body[j+1])
		j += 2
	}
	spec := pyast.NoExprID
	if j < len(body) && body[j] == ':' {
		inner := &fstringState{p: fs.p}
		end, ok := inner.parseBody(lit, j+1, true)
		if !ok {
			return end, false
		}
		inner.flush()
		spec = fs.p.exprs().NewJoinedStr(source.Span{File: fs.p.file.ID, Start: at(j + 1), End: at(end)}, inner.values)
		j = end
	}
	if j >= len(body) || body[j] != '}' {
		return j, fs.fail(at(j), "expecting '}'")
	}
	j++
	if debug && conv == pyast.NoConversion && spec == pyast.NoExprID {
		conv = pyast.Conversion('r')
	}

	sub := fs.p.sub(at(exprStart), at(exprEnd))
	var value pyast.ExprID
	if sub.at(token.KwYield) {
		value = sub.parseYield()
	} else {
		value = sub.parseTestList()
	}
	if value == pyast.NoExprID {
		return j, false
	}
	if !sub.at(token.EOF) {
		return j, fs.fail(sub.peek().Span.Start, "invalid expression")
	}
	fs.values = append(fs.values, fs.p.exprs().NewFormattedValue(
		source.Span{File: fs.p.file.ID, Start: at(open), End: at(j)}, value, conv, spec))
	return j, true
}

// scanFieldExpr ищет конец выражения поля: '}', '!', ':' или '=' на нулевой
// глубине скобок вне вложенных строк. debug == true для `{expr=}`.
func scanFieldExpr(body string, j int) (int, bool) {
	depth := 0
	var quote string
	for j < len(body) {
		if quote != "" {
			if strings.HasPrefix(body[j:], quote) {
				j += len(quote)
				quote = ""
				continue
			}
			if body[j] == '\\' {
				j++
			}
			j++
			continue
		}
		c := body[j]
		next := byte(0)
		if j+1 < len(body) {
			next = body[j+1]
		}
		switch c {
		case '\'', '"':
			quote = body[j : j+1]
			if strings.HasPrefix(body[j:], strings.Repeat(quote, 3)) {
				quote = body[j : j+3]
			}
			j += len(quote)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				return j, false
			}
			depth--
		case '!':
			if next == '=' {
				j += 2
				continue
			}
			if depth == 0 {
				return j, false
			}
		case ':':
			if depth == 0 {
				return j, false
			}
		case '=', '<', '>':
			if next == '=' {
				j += 2
				continue
			}
			if c == '=' && depth == 0 {
				return j, true
			}
		}
		j++
	}
	return j, false
}

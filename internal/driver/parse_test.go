package driver_test

import (
	"strings"
	"testing"

	"algotex/internal/driver"
	"algotex/internal/token"
)

func TestTokenize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.py", "x = 1\n")
	res, err := driver.Tokenize(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Tokens[0].Kind != token.Ident || res.Tokens[len(res.Tokens)-1].Kind != token.EOF {
		t.Errorf("tokens = %v", res.Tokens)
	}
}

func TestCollectNames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "n.py", "def walk(g):\n    visit(g)\n    print(g)\n")
	_, names, err := driver.CollectNames(path, []string{"print"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(names, ","); got != "Walk,Visit,print" {
		t.Errorf("names = %s", got)
	}
}

func TestCollectNamesSyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.py", "def (:\n")
	res, names, err := driver.CollectNames(path, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if names != nil || !res.Bag.HasErrors() {
		t.Errorf("names=%v diagnostics=%d", names, res.Bag.Len())
	}
}

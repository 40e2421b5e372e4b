package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds cover every construct the renderer accepts plus a few it
// rejects on purpose.
var languageSeeds = []string{
	"x = 1\n",
	"x = 1; y = 2\n",
	"a, b = b, a\n",
	"x += 1\nx: int = 2\ny: int\n",
	"del x, y[0]\n",
	"if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n",
	"for i in range(n):\n    s += i\nelse:\n    pass\n",
	"while lo < hi:\n    mid = (lo + hi) // 2\n    break\n",
	"def walk(g, *args, start=0, **kw):\n    \"\"\"Visit every node.\"\"\"\n    return visit(g)\n",
	"def gen():\n    yield 1\n    yield from other()\n",
	"print(len(xs), abs(-x), min(a, b), math.ceil(x / 2))\n",
	"y = [x * x for x in xs if x > 0]\n",
	"d = {k: v for k, v in items}\ns = {1, 2}\n",
	"f = lambda x, y: x ** y\n",
	"z = a if cond else b\n",
	"msg = f'{name!r:>10} = {value}'\n",
	"n = 1_000_000 + 0x_ff + 1e-3 + 2j\n",
	"if (n := len(xs)) > 10:\n    pass\n",
	"x = not a and (b or c) is not None\n",
	"s = 'a\\tb' \"c\" r'\\d+'\n",
	"import math\nfrom collections import deque\nglobal g\n",
	"x = a[1:2, ::3]\n",
	"x = obj.attr.method(1)[0]\n",
	"class A:\n    pass\n",
	"try:\n    pass\nexcept E:\n    pass\n",
	"def f(:\n",
	"x = (\n",
	"\tif x:\n  y\n",
	"s = '''unterminated\n",
	"x = ((((((((((((((((((((1))))))))))))))))))))\n",
	"# comment only\n\n\n",
	"x = 1 \\\n    + 2\n",
	"\xef\xbb\xbfx = 1\r\n",
	"π = 3.14\nℌ = 1\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.py file under testdata/seeds.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		// #nosec G304 -- path comes from the testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

package fuzztests

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 4 << 10  // одно выражение, не файл
	maxFuzzInput = 16 << 10 // длиннее не интересно
)

// expressionSeeds cover every grammar production at least once.
var expressionSeeds = []string{
	"",
	"1 + 2 * 3",
	"-(-2) ^ 2",
	"2 ^ 3 ^ 2",
	"F = 5 kg * 9.8 m/s^2",
	"v = 3 m / 1 s",
	"sqrt(16 m^2)",
	"atan2(1, 1)",
	"convert(100 degC, 1 K)",
	"convert(1 km, 1 m)",
	"2 m^(1/2)",
	"1.5e3 mV",
	".5 s + 250 ms",
	"10 µs",
	"1 kΩ * 2 mA",
	"sin(pi / 2)",
	"((((1))))",
	"x = y = 2",
	"1 / 0",
	"5 m + 3 s",
	"(1 + 2",
	"1 2 3",
	"sin(1, 2)",
	"2 $ 3",
	"9.8m/s^2",
	"1e400",
	"2 ^ 1e9",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range expressionSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every line of testdata/*.expr as its own seed.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".expr" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		sc := bufio.NewScanner(bytes.NewReader(src))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			f.Add(clampSeed([]byte(line)))
		}
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

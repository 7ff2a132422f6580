package generate

import (
	"context"
	"fmt"
	"os"
)

// StaticGenerator returns the contents of a fixed script file on every call.
// It runs a hand-written routine through the same loop a model-backed session
// uses, which makes offline runs and debugging possible.
type StaticGenerator struct {
	sourceFile string
}

// NewStaticGenerator creates a generator serving the given script file.
func NewStaticGenerator(sourceFile string) *StaticGenerator {
	return &StaticGenerator{sourceFile: sourceFile}
}

// Generate reads the script file. The critique is ignored; a static script
// cannot be revised.
func (g *StaticGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	data, err := os.ReadFile(g.sourceFile)
	if err != nil {
		return "", fmt.Errorf("reading routine source: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("routine source %s is empty", g.sourceFile)
	}
	return string(data), nil
}

package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// converter is the external SVG conversion tool.
const converter = "rsvg-convert"

// Available reports whether the external converter is installed.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert. The page takes the
// size of the SVG canvas.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", converter, err, errBuf.String())
	}
	return out.Bytes(), nil
}

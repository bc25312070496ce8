package renderer

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"mew.ai/puml-api-gateway/config/environment_variables"
)

const defaultPlantUMLBin = "plantuml"

// PlantUMLRenderer shells out to the plantuml executable in pipe mode. The
// diagram source goes to stdin and the rendered bytes come back on stdout,
// so no temp files are involved.
type PlantUMLRenderer struct {
	bin string
}

func NewPlantUMLRenderer() *PlantUMLRenderer {
	bin := environment_variables.EnvironmentVariables.PLANTUML_BIN
	if bin == "" {
		bin = defaultPlantUMLBin
	}
	return &PlantUMLRenderer{bin: bin}
}

func formatFlag(format Format) string {
	switch format {
	case FormatSVG:
		return "-tsvg"
	case FormatPNG:
		return "-tpng"
	default:
		return "-tutxt"
	}
}

func (r *PlantUMLRenderer) Render(ctx context.Context, puml string, format Format) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.bin, "-pipe", formatFlag(format))
	cmd.Stdin = strings.NewReader(puml)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &RenderError{
			Format:          format,
			GraphvizMissing: mentionsGraphviz(stderr.String()) || mentionsGraphviz(err.Error()),
			Err:             err,
		}
	}
	return stdout.Bytes(), nil
}

// mentionsGraphviz detects the missing-layout-tool failure mode from the
// PlantUML error output.
func mentionsGraphviz(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "graphviz") || strings.Contains(lower, "dot executable")
}

package viz

import (
	"html/template"
	"strings"
)

// PlotConfig holds page dimensions and the plotly.js bundle location.
type PlotConfig struct {
	Width     int
	Height    int
	FontSize  int
	PlotlyURL string
}

// DefaultPlotConfig returns sensible defaults.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Width: 1200, Height: 800, FontSize: 12,
		PlotlyURL: "https://cdn.plot.ly/plotly-2.35.2.min.js",
	}
}

// pageData contains all data needed for HTML template rendering.
type pageData struct {
	Config  PlotConfig
	Title   string
	Payload template.JS
}

// Page template drawing a single sankey trace.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script src="{{.Config.PlotlyURL}}"></script>
  <style>
    body { margin: 0; font-family: sans-serif; }
    #diagram { width: {{.Config.Width}}px; height: {{.Config.Height}}px; }
  </style>
</head>
<body>
  <div id="diagram"></div>
  <script>
    const payload = {{.Payload}};
    Plotly.newPlot("diagram", [Object.assign({type: "sankey"}, payload)], {
      title: {text: {{.Title}}},
      font: {size: {{.Config.FontSize}}},
    });
  </script>
</body>
</html>
`

// PlotlyGenerator renders a standalone HTML page that draws the diagram
// with plotly.js.
type PlotlyGenerator struct {
	config   PlotConfig
	template *template.Template
}

func NewPlotlyGenerator(config PlotConfig) *PlotlyGenerator {
	tmpl := template.Must(template.New("sankey").Parse(pageTemplate))
	return &PlotlyGenerator{config: config, template: tmpl}
}

// Generate creates the HTML page.
func (g *PlotlyGenerator) Generate(title string, d *Diagram) (string, error) {
	payload, err := d.JSON()
	if err != nil {
		return "", err
	}
	var result strings.Builder
	err = g.template.Execute(&result, pageData{
		Config:  g.config,
		Title:   title,
		Payload: template.JS(payload),
	})
	return result.String(), err
}

// JSONGenerator renders the raw renderer payload.
type JSONGenerator struct{}

func (g *JSONGenerator) Generate(_ string, d *Diagram) (string, error) {
	data, err := d.JSON()
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

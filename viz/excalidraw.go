package viz

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

// --- Excalidraw Generator ---

// ExcalidrawGenerator lays stocks out in columns by their distance from
// the stocks that only send, and draws one bound arrow per link. Output is
// deterministic for a given Seed.
type ExcalidrawGenerator struct {
	Seed int64
}

func (g *ExcalidrawGenerator) Generate(title string, d *Diagram) (string, error) {
	scene := newExcalidrawScene(g.Seed)
	layout := struct {
		startX, startY, elementWidth, elementHeight, gapX, gapY float64
	}{
		startX: 50.0, startY: 80.0,
		elementWidth: 200.0, elementHeight: 80.0,
		gapX: 160.0, gapY: 60.0,
	}

	if title != "" {
		scene.addText(layout.startX, 20, 600, 32, title, nil)
	}

	columns := nodeColumns(d)
	rowsUsed := map[int]int{}
	nodeToRectID := make([]string, len(d.Node.Label))
	for i, name := range d.Node.Label {
		col := columns[i]
		row := rowsUsed[col]
		rowsUsed[col]++
		x := layout.startX + float64(col)*(layout.elementWidth+layout.gapX)
		y := layout.startY + float64(row)*(layout.elementHeight+layout.gapY)

		fill := "#f8f9fa"
		if i < len(d.Node.Color) {
			hex, err := hexOf(d.Node.Color[i])
			if err != nil {
				return "", fmt.Errorf("error adding node %s to Excalidraw scene: %w", name, err)
			}
			fill = hex
		}
		rect := scene.addRectangle(x, y, layout.elementWidth, layout.elementHeight, name, fill)
		nodeToRectID[i] = rect.ID
	}

	maxValue := 0.0
	for _, v := range d.Link.Value {
		maxValue = math.Max(maxValue, v)
	}
	for i := range d.Link.Source {
		src, dst := d.Link.Source[i], d.Link.Target[i]
		if src < 0 || src >= len(nodeToRectID) || dst < 0 || dst >= len(nodeToRectID) {
			return "", fmt.Errorf("could not find Excalidraw ID for link %d (%d -> %d)", i, src, dst)
		}
		stroke := "#1e1e1e"
		if i < len(d.Link.Color) {
			hex, err := hexOf(d.Link.Color[i])
			if err != nil {
				return "", fmt.Errorf("error adding link %d to Excalidraw scene: %w", i, err)
			}
			stroke = hex
		}
		width := 1
		if maxValue > 0 {
			width += int(math.Round(3 * d.Link.Value[i] / maxValue))
		}
		scene.addArrow(nodeToRectID[src], nodeToRectID[dst], linkCaption(d, i), stroke, width)
	}
	return scene.toJSON()
}

// nodeColumns assigns each node the length of the longest chain of links
// leading into it. Cycles are cut after len(nodes) relaxation rounds.
func nodeColumns(d *Diagram) []int {
	n := len(d.Node.Label)
	cols := make([]int, n)
	for round := 0; round < n; round++ {
		changed := false
		for i := range d.Link.Source {
			src, dst := d.Link.Source[i], d.Link.Target[i]
			if src == dst || src < 0 || src >= n || dst < 0 || dst >= n {
				continue
			}
			if cols[dst] < cols[src]+1 && cols[src]+1 < n {
				cols[dst] = cols[src] + 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return cols
}

// --- Excalidraw Helper Structs and Methods ---

type ExcalidrawElement struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	X               float64         `json:"x"`
	Y               float64         `json:"y"`
	Width           float64         `json:"width"`
	Height          float64         `json:"height"`
	Angle           float64         `json:"angle,omitempty"`
	StrokeColor     string          `json:"strokeColor"`
	BackgroundColor string          `json:"backgroundColor"`
	FillStyle       string          `json:"fillStyle"`
	StrokeWidth     int             `json:"strokeWidth"`
	StrokeStyle     string          `json:"strokeStyle"`
	Roughness       int             `json:"roughness"`
	Opacity         int             `json:"opacity"`
	Seed            int64           `json:"seed"`
	Version         int             `json:"version"`
	VersionNonce    int64           `json:"versionNonce"`
	BoundElements   []*BoundElement `json:"boundElements,omitempty"`
	StartBinding    *Binding        `json:"startBinding,omitempty"`
	EndBinding      *Binding        `json:"endBinding,omitempty"`
	Points          [][]float64     `json:"points,omitempty"`
	Text            string          `json:"text,omitempty"`
	FontSize        float64         `json:"fontSize,omitempty"`
	FontFamily      int             `json:"fontFamily,omitempty"`
	TextAlign       string          `json:"textAlign,omitempty"`
	VerticalAlign   string          `json:"verticalAlign,omitempty"`
	ContainerId     *string         `json:"containerId,omitempty"`
	OriginalText    string          `json:"originalText,omitempty"`
	EndArrowhead    *string         `json:"endArrowhead,omitempty"`
}

type Binding struct {
	ElementID string  `json:"elementId"`
	Focus     float64 `json:"focus"`
	Gap       float64 `json:"gap"`
}

type BoundElement struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type ExcalidrawFile struct {
	Type     string               `json:"type"`
	Version  int                  `json:"version"`
	Source   string               `json:"source"`
	Elements []*ExcalidrawElement `json:"elements"`
	AppState map[string]any       `json:"appState"`
	Files    map[string]any       `json:"files"`
}

type ExcalidrawScene struct {
	elements     []*ExcalidrawElement
	elementIDMap map[string]*ExcalidrawElement
	randSource   *rand.Rand
}

func newExcalidrawScene(seed int64) *ExcalidrawScene {
	return &ExcalidrawScene{
		elements:     make([]*ExcalidrawElement, 0),
		elementIDMap: make(map[string]*ExcalidrawElement),
		randSource:   rand.New(rand.NewSource(seed)),
	}
}
func (s *ExcalidrawScene) newSeed() int64 { return s.randSource.Int63n(2147483646) + 1 }
func (s *ExcalidrawScene) newElementID(prefix string) string {
	return prefix + "_" + strconv.FormatInt(s.newSeed(), 36)
}
func (s *ExcalidrawScene) addElement(element *ExcalidrawElement) {
	if element.ID == "" {
		element.ID = s.newElementID(element.Type)
	}
	s.elements = append(s.elements, element)
	s.elementIDMap[element.ID] = element
}
func (s *ExcalidrawScene) getElement(id string) *ExcalidrawElement { return s.elementIDMap[id] }
func (s *ExcalidrawScene) addRectangle(x, y, w, h float64, label, fill string) *ExcalidrawElement {
	rect := &ExcalidrawElement{
		Type: "rectangle", X: x, Y: y, Width: w, Height: h, StrokeColor: "#1e1e1e", BackgroundColor: fill,
		FillStyle: "solid", StrokeWidth: 1, StrokeStyle: "solid", Roughness: 1,
		Seed: s.newSeed(), Version: 2, VersionNonce: s.newSeed(), Opacity: 100,
	}
	s.addElement(rect)
	if label != "" {
		text := s.addText(x+10, y+(h-24)/2, w-20, 24, label, &rect.ID)
		rect.BoundElements = append(rect.BoundElements, &BoundElement{Type: "text", ID: text.ID})
	}
	return rect
}
func (s *ExcalidrawScene) addText(x, y, w, h float64, text string, containerID *string) *ExcalidrawElement {
	textEl := &ExcalidrawElement{
		Type: "text", X: x, Y: y, Width: w, Height: h, Text: text, OriginalText: text, ContainerId: containerID,
		StrokeColor: "#1e1e1e", BackgroundColor: "transparent", FontSize: 16, FontFamily: 1, TextAlign: "center", VerticalAlign: "middle",
		Seed: s.newSeed(), Version: 2, VersionNonce: s.newSeed(), Opacity: 100,
	}
	s.addElement(textEl)
	return textEl
}
func (s *ExcalidrawScene) addArrow(from, to, label, stroke string, width int) *ExcalidrawElement {
	source := s.getElement(from)
	target := s.getElement(to)
	x1, y1 := source.X+source.Width, source.Y+source.Height/2
	x2, y2 := target.X, target.Y+target.Height/2
	ah := "arrow"
	arrow := &ExcalidrawElement{
		Type: "arrow", X: x1, Y: y1, Width: math.Abs(x2 - x1), Height: math.Abs(y2 - y1),
		Points:       [][]float64{{0, 0}, {x2 - x1, y2 - y1}},
		EndArrowhead: &ah,
		StartBinding: &Binding{ElementID: source.ID, Focus: 0.5, Gap: 1},
		EndBinding:   &Binding{ElementID: target.ID, Focus: 0.5, Gap: 1},
		StrokeColor:  stroke, BackgroundColor: "transparent", FillStyle: "solid", StrokeWidth: width, StrokeStyle: "solid",
		Seed: s.newSeed(), Version: 2, VersionNonce: s.newSeed(), Opacity: 100,
	}
	s.addElement(arrow)
	source.BoundElements = append(source.BoundElements, &BoundElement{Type: "arrow", ID: arrow.ID})
	if target != source {
		target.BoundElements = append(target.BoundElements, &BoundElement{Type: "arrow", ID: arrow.ID})
	}
	if label != "" {
		text := s.addText(x1+(x2-x1)/2-50, y1+(y2-y1)/2-12, 100, 24, label, &arrow.ID)
		arrow.BoundElements = append(arrow.BoundElements, &BoundElement{Type: "text", ID: text.ID})
	}
	return arrow
}
func (s *ExcalidrawScene) toJSON() (string, error) {
	file := ExcalidrawFile{
		Type: "excalidraw", Version: 2, Source: "https://github.com/sakib/mankey",
		Elements: s.elements, AppState: map[string]any{"viewBackgroundColor": "#FFFFFF"},
		Files: map[string]any{},
	}
	data, err := json.MarshalIndent(file, "", "  ")
	return string(data), err
}

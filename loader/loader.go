package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sakib/mankey/core"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a record file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported record file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Dataset is the pair of sequences a System is built from.
type Dataset struct {
	Stocks []core.Stock
	Flows  []core.Flow
}

// Loader reads stock and flow record files.
type Loader struct {
	resolver FileResolver

	// Stop collecting violations per file after this many (0 => no limit)
	MaxErrors int
}

// NewLoader creates a loader. A nil resolver reads local files from disk
// and URLs over HTTP.
func NewLoader(resolver FileResolver) *Loader {
	if resolver == nil {
		resolver = NewDefaultResolver()
	}
	return &Loader{resolver: resolver}
}

// Load reads both files and returns the violations of both together.
func (l *Loader) Load(stocksPath, flowsPath string) (*Dataset, error) {
	stocks, stockErr := l.LoadStocks(stocksPath)
	flows, flowErr := l.LoadFlows(flowsPath)
	if err := errors.Join(stockErr, flowErr); err != nil {
		return nil, err
	}
	return &Dataset{Stocks: stocks, Flows: flows}, nil
}

// LoadStocks reads and validates a stocks file.
func (l *Loader) LoadStocks(path string) ([]core.Stock, error) {
	var records []StockRecord
	if err := l.read("loader.load_stocks", path, &records); err != nil {
		return nil, err
	}
	collector := &ErrorCollector{MaxErrors: l.MaxErrors}
	stocks := make([]core.Stock, 0, len(records))
	for i, r := range records {
		s, errs := r.Stock()
		stocks = append(stocks, s)
		if !collector.Add(i, errs) {
			break
		}
	}
	if err := collector.Err(); err != nil {
		return nil, &FileError{Op: "loader.load_stocks", Path: path, Err: err}
	}
	slog.Debug("loader.stocks_loaded", "path", path, "count", len(stocks))
	return stocks, nil
}

// LoadFlows reads and validates a flows file.
func (l *Loader) LoadFlows(path string) ([]core.Flow, error) {
	var records []FlowRecord
	if err := l.read("loader.load_flows", path, &records); err != nil {
		return nil, err
	}
	collector := &ErrorCollector{MaxErrors: l.MaxErrors}
	flows := make([]core.Flow, 0, len(records))
	for i, r := range records {
		f, errs := r.Flow()
		flows = append(flows, f)
		if !collector.Add(i, errs) {
			break
		}
	}
	if err := collector.Err(); err != nil {
		return nil, &FileError{Op: "loader.load_flows", Path: path, Err: err}
	}
	slog.Debug("loader.flows_loaded", "path", path, "count", len(flows))
	return flows, nil
}

func (l *Loader) read(op, path string, out any) error {
	format, err := FormatOf(path)
	if err != nil {
		return &FileError{Op: op, Path: path, Err: err}
	}
	content, canonical, err := l.resolver.Resolve(path)
	if err != nil {
		return &FileError{Op: op, Path: canonical, Err: err}
	}
	defer content.Close()

	if err := Decode(content, format, out); err != nil {
		return &FileError{Op: op, Path: canonical, Err: err}
	}
	return nil
}

// Decode reads a record array in the given format, rejecting unknown keys.
func Decode(r io.Reader, format Format, out any) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Encode writes records in the given format.
func Encode(w io.Writer, format Format, records any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

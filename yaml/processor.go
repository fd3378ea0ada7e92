package yamlprocessor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"aprsfi-client/aprsfi"
	"aprsfi-client/failure"

	"gopkg.in/yaml.v3"
)

const maxSourceBytes = 10 << 20

// Document is the top level of a source file.
type Document struct {
	Objects []aprsfi.Object `yaml:"objects"`
}

// Poster uploads a single object. Implementations log their own outcome.
type Poster interface {
	PostObject(ctx context.Context, obj aprsfi.Object) error
}

// Processor loads source documents and hands each object to a Poster.
type Processor struct {
	poster   Poster
	http     *http.Client
	logger   *slog.Logger
	maxBytes int64
}

func New(poster Poster, logger *slog.Logger) *Processor {
	return &Processor{
		poster:   poster,
		http:     &http.Client{Timeout: aprsfi.RequestTimeout},
		logger:   logger,
		maxBytes: maxSourceBytes,
	}
}

// ProcessFile posts every object in the YAML file at path. A read or parse
// failure is logged once and returned; per-object failures are not.
func (p *Processor) ProcessFile(ctx context.Context, path string) error {
	data, err := p.readFile(path)
	if err != nil {
		p.logger.ErrorContext(ctx, "YAML read failure", "source", path, "error", err)
		return err
	}

	return p.process(ctx, path, data)
}

// ProcessURL fetches a YAML document with one GET and posts every object in it.
func (p *Processor) ProcessURL(ctx context.Context, rawURL string) error {
	data, err := p.fetch(ctx, rawURL)
	if err != nil {
		p.logger.ErrorContext(ctx, "YAML HTTP error", "source", rawURL, "error", err)
		return err
	}

	return p.process(ctx, rawURL, data)
}

func (p *Processor) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, failure.New(failure.KindSourceFetch, fmt.Errorf("failed to open file: %w", err))
	}
	defer file.Close()

	data, err := p.readAll(file)
	if err != nil {
		return nil, failure.New(failure.KindSourceFetch, fmt.Errorf("failed to read file: %w", err))
	}
	return data, nil
}

func (p *Processor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, failure.New(failure.KindSourceFetch, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, failure.New(failure.KindSourceFetch, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if err := failure.CheckStatus(resp.StatusCode, resp.Status); err != nil {
		return nil, failure.New(failure.KindSourceFetch, err)
	}

	data, err := p.readAll(resp.Body)
	if err != nil {
		return nil, failure.New(failure.KindSourceFetch, fmt.Errorf("failed to read response body: %w", err))
	}
	return data, nil
}

// readAll reads r fully, failing instead of truncating when r holds more
// than p.maxBytes.
func (p *Processor) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("source exceeds %d bytes", p.maxBytes)
	}
	return data, nil
}

func (p *Processor) process(ctx context.Context, source string, data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		p.logger.ErrorContext(ctx, "YAML failure", "source", source, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "YAML source loaded", "source", source, "objects", len(doc.Objects))

	for _, obj := range doc.Objects {
		// The poster has already logged the outcome.
		_ = p.poster.PostObject(ctx, obj)
	}
	return nil
}

// Decode parses a source document. An empty document, a missing "objects"
// key or a null list all yield zero objects. A stream holding more than one
// document is rejected.
func Decode(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return Document{}, nil
		}
		return Document{}, failure.New(failure.KindSourceParse, fmt.Errorf("failed to decode YAML: %w", err))
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errors.New("expected a single document in the stream")
		}
		return Document{}, failure.New(failure.KindSourceParse, fmt.Errorf("failed to decode YAML: %w", err))
	}
	return doc, nil
}

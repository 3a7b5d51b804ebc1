package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/skilltree/pkg/buildinfo"
	"github.com/matzehuels/skilltree/pkg/catalog"
	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// TreeInfo is one entry of GET /trees.
type TreeInfo struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Active  bool                `json:"active"`
	Summary progression.Summary `json:"summary"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"trees":   s.mgr.Len(),
	})
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	active := s.mgr.ActiveID()
	trees := s.mgr.List()
	out := make([]TreeInfo, len(trees))
	for i, t := range trees {
		out[i] = TreeInfo{
			ID:      t.ID,
			Name:    t.Name,
			Active:  t.ID == active,
			Summary: progression.Summarize(t),
		}
	}
	writeData(w, out)
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := json.Unmarshal(data, &body); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := s.mgr.SetActive(body.ID); err != nil {
		writeError(w, err)
		return
	}
	s.writeSnapshot(w, r, body.ID)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, r, chi.URLParam(r, "id"))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "unsupported render format %q", format))
		return
	}

	snap, err := s.snapshot(r.Context(), r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := s.options(r)
	opts.Formats = []string{format}
	opts.Detailed, _ = strconv.ParseBool(r.URL.Query().Get("detailed"))

	artifacts, err := s.runner.Render(r.Context(), snap, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(artifacts[format])
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.mgr.Upgrade(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "skill"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeTree(w, r, t)
}

func (s *Server) handleDowngrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.mgr.Downgrade(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "skill"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeTree(w, r, t)
}

// handleLayout lays out a catalog posted in the body without hosting it.
// The catalog format comes from ?format= or the Content-Type, default JSON.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	f, err := requestFormat(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := catalog.Read(bytes.NewReader(data), f)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.runner.Snapshot(r.Context(), t, s.options(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, snap)
}

func requestFormat(r *http.Request) (catalog.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return catalog.ParseFormat(q)
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return catalog.YAML, nil
	case "application/toml":
		return catalog.TOML, nil
	}
	return catalog.JSON, nil
}

// readBody reads at most maxCatalogBytes of the request body. A larger body
// is a TOO_LARGE error.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCatalogBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return nil, errs.Wrap(errs.ErrCodeTooLarge, err, "request body exceeds %d bytes", tooLarge.Limit)
	case err != nil:
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, id string) {
	t, err := s.mgr.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeTree(w, r, t)
}

// writeTree answers with the snapshot of t as given, without rereading the
// manager.
func (s *Server) writeTree(w http.ResponseWriter, r *http.Request, t skilltree.Tree) {
	snap, err := s.runner.Snapshot(r.Context(), t, s.options(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, snap)
}

func (s *Server) snapshot(ctx context.Context, r *http.Request, id string) (*pipeline.Snapshot, error) {
	t, err := s.mgr.Get(id)
	if err != nil {
		return nil, err
	}
	return s.runner.Snapshot(ctx, t, s.options(r))
}

// options returns the configured layout options with a ?direction= override.
func (s *Server) options(r *http.Request) pipeline.Options {
	opts := s.cfg.Layout
	opts.Formats = nil
	if d := r.URL.Query().Get("direction"); d != "" {
		opts.Direction = d
	}
	opts.Logger = s.logger
	return opts
}

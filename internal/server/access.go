package server

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"ecommerce-keyword-report/internal/fetch"
)

var (
	ErrForbiddenSource = errors.New("source not allowed")
	ErrUnknownPreset   = errors.New("unknown preset")
)

// Preset is a quick analysis offered as a button in the UI.
type Preset struct {
	Name   string
	Source string
	Sheet  string
	Column string
}

func (s *Server) preset(name string) (Preset, error) {
	for _, p := range s.opts.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// checkSource applies DataRoot and AllowedHosts to a user supplied source and
// returns the path to open. Presets and uploads do not pass through here.
func (s *Server) checkSource(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	if fetch.IsRemote(src) {
		u, err := url.Parse(src)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrForbiddenSource, err)
		}
		if !fetch.HostAllowed(u.Hostname(), s.opts.AllowedHosts) {
			return "", fmt.Errorf("%w: host %q", ErrForbiddenSource, u.Hostname())
		}
		return src, nil
	}
	if s.opts.DataRoot == "" {
		return src, nil
	}
	return underRoot(s.opts.DataRoot, src)
}

// underRoot resolves relative paths against root and rejects anything that
// escapes it, following symlinks where the target exists.
func underRoot(root, src string) (string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}

	p := src
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)
	if r, err := filepath.EvalSymlinks(p); err == nil {
		p = r
	}

	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the data root", ErrForbiddenSource, src)
	}
	return p, nil
}

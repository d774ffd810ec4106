package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/scale"
)

// ProjectDir holds the project configuration file.
const ProjectDir = ".uitokens"

// EnvFile is the dotenv file read from the project root.
const EnvFile = ".env"

// projectFiles are tried in order; the first one present wins.
var projectFiles = []string{"config.yaml", "config.yml", "config.toml"}

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load builds the configuration for the project rooted at dir: defaults,
// then .uitokens/config.(yaml|yml|toml), then dir/.env, then UITOKENS_*
// variables from the process environment. The .env file never overrides a
// variable already set in the environment.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if _, err := cfg.loadProjectFile(dir); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(filepath.Join(dir, EnvFile))
	if err != nil {
		return nil, err
	}

	src := envSource{dotenv: dotenv}
	cfg.applyEnv(&src)

	errs := append(src.errs, cfg.Validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return &cfg, nil
}

// ProjectFile returns the project file in dir, or "" when there is none.
func ProjectFile(dir string) string {
	for _, name := range projectFiles {
		path := filepath.Join(dir, ProjectDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// WatchPaths lists the files whose changes affect Load for dir.
func WatchPaths(dir string) []string {
	paths := make([]string, 0, len(projectFiles)+1)
	for _, name := range projectFiles {
		paths = append(paths, filepath.Join(dir, ProjectDir, name))
	}
	return append(paths, filepath.Join(dir, EnvFile))
}

// loadProjectFile applies the project file over c. Returns the path read,
// or "" if none.
func (c *Config) loadProjectFile(dir string) (string, error) {
	path := ProjectFile(dir)
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fc fileConfig
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	fc.apply(c)
	return path, nil
}

func readDotenv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return env, nil
}

// envSource reads keys from the process environment, then the dotenv map,
// and collects parse errors instead of silently keeping defaults.
type envSource struct {
	dotenv map[string]string
	errs   []error
}

func (s *envSource) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true
	}
	v, ok := s.dotenv[key]
	return v, ok && v != ""
}

func (s *envSource) setString(key string, dst *string) {
	if v, ok := s.lookup(key); ok {
		*dst = v
	}
}

func (s *envSource) setFloat(key string, dst *float64) {
	v, ok := s.lookup(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not a number", key, v))
		return
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not a finite number", key, v))
		return
	}
	*dst = f
}

func (s *envSource) setBool(key string, dst *bool) {
	v, ok := s.lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not a boolean", key, v))
		return
	}
	*dst = b
}

func (s *envSource) setList(key string, dst *[]string) {
	if v, ok := s.lookup(key); ok {
		*dst = splitList(v)
	}
}

// pairs parses "k<sep>v,k<sep>v".
func (s *envSource) pairs(key, sep string) ([][2]string, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	var out [][2]string
	for _, item := range splitList(v) {
		k, val, found := strings.Cut(item, sep)
		if !found || strings.TrimSpace(k) == "" {
			s.errs = append(s.errs, fmt.Errorf("%s: %q is not of the form key%svalue", key, item, sep))
			return nil, false
		}
		out = append(out, [2]string{strings.TrimSpace(k), strings.TrimSpace(val)})
	}
	return out, true
}

func (s *envSource) setColumns(key string, dst *[]scale.SizeColumns) {
	ps, ok := s.pairs(key, ":")
	if !ok {
		return
	}
	cols := make([]scale.SizeColumns, 0, len(ps))
	for _, p := range ps {
		n, err := strconv.Atoi(p[1])
		if err != nil {
			s.errs = append(s.errs, fmt.Errorf("%s: %q is not a column count", key, p[1]))
			return
		}
		cols = append(cols, scale.SizeColumns{Key: p[0], Columns: n})
	}
	*dst = cols
}

// setDensities sets the min height of the named tiers; ceilings are kept.
func (s *envSource) setDensities(key string, dst []scale.DensityMode) {
	ps, ok := s.pairs(key, ":")
	if !ok {
		return
	}
	for _, p := range ps {
		h, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			s.errs = append(s.errs, fmt.Errorf("%s: %q is not a height", key, p[1]))
			return
		}
		found := false
		for i := range dst {
			if dst[i].Name == p[0] {
				dst[i].MinHeight, found = h, true
			}
		}
		if !found {
			s.errs = append(s.errs, fmt.Errorf("%s: unknown density %q", key, p[0]))
		}
	}
}

func (s *envSource) setSeeds(key string, dst *[]generator.Seed) {
	ps, ok := s.pairs(key, "=")
	if !ok {
		return
	}
	seeds := make([]generator.Seed, 0, len(ps))
	for _, p := range ps {
		seeds = append(seeds, generator.Seed{Name: p[0], Hex: p[1]})
	}
	*dst = seeds
}

func (c *Config) applyEnv(s *envSource) {
	s.setFloat(EnvMinColumnWidth, &c.MinColumnWidth)
	s.setFloat(EnvGutter, &c.Gutter)
	s.setFloat(EnvHorizontalPadding, &c.HorizontalPadding)
	s.setFloat(EnvMinViewportHeight, &c.MinViewportHeight)
	s.setFloat(EnvLargestMinWidth, &c.LargestMinWidth)
	s.setFloat(EnvOpenMaxWidth, &c.OpenMaxWidth)
	s.setColumns(EnvColumns, &c.Columns)

	s.setFloat(EnvBaselineGrid, &c.BaselineGrid)
	s.setFloat(EnvBaseFontSize, &c.BaseFontSize)
	s.setFloat(EnvMaxContentHeight, &c.MaxContentHeight)
	s.setFloat(EnvOffsetHeight, &c.OffsetHeight)
	c.Densities = append([]scale.DensityMode(nil), c.Densities...)
	s.setDensities(EnvDensities, c.Densities)

	s.setSeeds(EnvBrand, &c.Brand)
	s.setSeeds(EnvFeedback, &c.Feedback)
	s.setFloat(EnvGreyHue, &c.GreyHue)
	s.setBool(EnvFineShades, &c.FineShades)

	s.setList(EnvCollections, &c.Collections)
	s.setString(EnvOutputDir, &c.OutputDir)
	s.setList(EnvInclude, &c.Include)
	s.setString(EnvImportDir, &c.ImportDir)

	s.setString(EnvLogLevel, &c.LogLevel)
	s.setString(EnvLogFormat, &c.LogFormat)
	s.setString(EnvMCPLog, &c.MCPLogPath)
	s.setString(EnvMetricsAddr, &c.MetricsAddr)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

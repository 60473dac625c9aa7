package projects

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchsync/internal/repos/shared"
)

const (
	projectsKeyConstant                   = "projects"
	yamlExtensionConstant                 = ".yaml"
	ymlExtensionConstant                  = ".yml"
	jsonExtensionConstant                 = ".json"
	tomlExtensionConstant                 = ".toml"
	readProjectFileErrorTemplateConstant  = "failed to read project file %s: %w"
	parseProjectFileErrorTemplateConstant = "failed to parse project file %s: %w"
	decodeProjectsErrorTemplateConstant   = "failed to decode project entries: %w"
	conflictingURLErrorTemplateConstant   = "project entry %d: repo_url %q and repo %q disagree"
	unsupportedFormatTemplateConstant     = "unsupported project file format %q"
)

var (
	// ErrFileSystemNotConfigured indicates that the loader lacks a filesystem.
	ErrFileSystemNotConfigured = errors.New("project loader requires a filesystem")
	// ErrProjectListShape indicates a document that is neither a list nor a mapping with a projects key.
	ErrProjectListShape = errors.New("project list must be a sequence or contain a \"projects\" sequence")
)

type projectEntry struct {
	Path          string `mapstructure:"path"`
	RepositoryURL string `mapstructure:"repo_url"`
	Repository    string `mapstructure:"repo"`
}

// Loader reads project lists from disk.
type Loader struct {
	fileSystem shared.FileSystem
}

// NewLoader constructs a Loader backed by the provided filesystem.
func NewLoader(fileSystem shared.FileSystem) (*Loader, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Loader{fileSystem: fileSystem}, nil
}

// LoadFile reads a YAML, JSON, or TOML project list. The document may be a bare sequence or a mapping whose
// "projects" key holds the sequence; TOML files use [[projects]] tables.
func (loader *Loader) LoadFile(filePath string) ([]ProjectSpec, error) {
	contentBytes, readError := loader.fileSystem.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf(readProjectFileErrorTemplateConstant, filePath, readError)
	}

	var document any
	switch strings.ToLower(filepath.Ext(filePath)) {
	case yamlExtensionConstant, ymlExtensionConstant, jsonExtensionConstant:
		if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
			return nil, fmt.Errorf(parseProjectFileErrorTemplateConstant, filePath, unmarshalError)
		}
	case tomlExtensionConstant:
		tomlDocument := map[string]any{}
		if unmarshalError := toml.Unmarshal(contentBytes, &tomlDocument); unmarshalError != nil {
			return nil, fmt.Errorf(parseProjectFileErrorTemplateConstant, filePath, unmarshalError)
		}
		document = tomlDocument
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplateConstant, filepath.Ext(filePath))
	}

	entries, shapeError := extractEntries(document)
	if shapeError != nil {
		return nil, fmt.Errorf(parseProjectFileErrorTemplateConstant, filePath, shapeError)
	}
	return DecodeEntries(entries)
}

// DecodeEntries converts generic project entries into ProjectSpec values. Unknown keys are rejected and
// "repo" is accepted as an alias of "repo_url".
func DecodeEntries(rawEntries any) ([]ProjectSpec, error) {
	if rawEntries == nil {
		return nil, nil
	}

	var entries []projectEntry
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		Result:           &entries,
	})
	if decoderError != nil {
		return nil, fmt.Errorf(decodeProjectsErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(rawEntries); decodeError != nil {
		return nil, fmt.Errorf(decodeProjectsErrorTemplateConstant, decodeError)
	}

	specs := make([]ProjectSpec, 0, len(entries))
	for entryIndex, entry := range entries {
		repositoryURL := strings.TrimSpace(entry.RepositoryURL)
		alias := strings.TrimSpace(entry.Repository)
		switch {
		case len(repositoryURL) == 0:
			repositoryURL = alias
		case len(alias) > 0 && alias != repositoryURL:
			return nil, fmt.Errorf(conflictingURLErrorTemplateConstant, entryIndex+1, repositoryURL, alias)
		}
		specs = append(specs, ProjectSpec{Path: entry.Path, RepositoryURL: repositoryURL})
	}
	return specs, nil
}

func extractEntries(document any) (any, error) {
	switch typedDocument := document.(type) {
	case nil:
		return nil, nil
	case []any:
		return typedDocument, nil
	case map[string]any:
		entries, found := typedDocument[projectsKeyConstant]
		if !found {
			return nil, ErrProjectListShape
		}
		return entries, nil
	default:
		return nil, ErrProjectListShape
	}
}

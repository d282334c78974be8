package constellation

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Listening is one listener's history as stored in a file. A file holds
// either this document or a bare list of artists; JSON parses the same way.
type Listening struct {
	Username   string          `yaml:"username" json:"username,omitempty"`
	Artists    []Artist        `yaml:"artists" json:"artists"`
	Similarity SimilarityTable `yaml:"similarity" json:"similarity,omitempty"`
}

// ReadListening loads a listening file.
func ReadListening(path string) (*Listening, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := ParseListening(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ParseListening decodes YAML or JSON. Every artist needs an id and a name.
func ParseListening(data []byte) (*Listening, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, errors.New("empty file")
	}

	l := &Listening{}
	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&l.Artists); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		if err := doc.Decode(l); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("expected a list of artists or a mapping with an artists key")
	}

	if len(l.Artists) == 0 {
		return nil, errors.New("no artists")
	}
	for i, a := range l.Artists {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("artist %d: id and name are required", i)
		}
	}
	return l, nil
}

package clusters

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed clusters.yaml
var defaultClusters []byte

var ErrClusterNotFound = errors.New("cluster not found")

type Cluster struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Subjects    []string `yaml:"subjects" json:"subjects"`
}

type file struct {
	Clusters []Cluster `yaml:"clusters"`
}

// Registry is a read-only set of named clusters.
type Registry struct {
	byName map[string]Cluster
}

// Load reads cluster definitions from path, or the built-in set when path is empty.
func Load(path string) (*Registry, error) {
	data := defaultClusters
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read clusters file: %w", err)
		}
		data = raw
	}

	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse clusters: %w", err)
	}

	reg := &Registry{byName: make(map[string]Cluster, len(f.Clusters))}
	for _, c := range f.Clusters {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, errors.New("parse clusters: cluster without name")
		}
		if len(c.Subjects) == 0 {
			return nil, fmt.Errorf("parse clusters: cluster %q has no subjects", name)
		}
		if _, dup := reg.byName[name]; dup {
			return nil, fmt.Errorf("parse clusters: duplicate cluster %q", name)
		}

		subjects := make([]string, 0, len(c.Subjects))
		for _, s := range c.Subjects {
			subjects = append(subjects, strings.ToUpper(strings.TrimSpace(s)))
		}
		c.Name = name
		c.Subjects = subjects
		reg.byName[name] = c
	}

	return reg, nil
}

func (r *Registry) Get(name string) (Cluster, error) {
	c, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Cluster{}, ErrClusterNotFound
	}
	return c, nil
}

// All returns the clusters sorted by name.
func (r *Registry) All() []Cluster {
	out := make([]Cluster, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Package seed holds the built-in employee directory, starter tasks and
// login credentials.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/yukikurage/staffdesk/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var builtin []byte

type Data struct {
	Employees   []models.Employee        `yaml:"employees"`
	Tasks       []models.Task            `yaml:"tasks"`
	Credentials []models.LoginCredential `yaml:"credentials"`
}

// Parse decodes seed data from YAML.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	for _, t := range data.Tasks {
		if !t.Status.Valid() || !t.Priority.Valid() {
			return nil, fmt.Errorf("seed: task %s has invalid status or priority", t.ID)
		}
	}
	return &data, nil
}

// Builtin returns a fresh copy of the embedded seed data.
func Builtin() *Data {
	data, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return data
}

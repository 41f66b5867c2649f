package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteBlueprint writes a blueprint to a YAML file
func WriteBlueprint(bp *Blueprint, path string) error {
	data, err := yaml.Marshal(bp)
	if err != nil {
		return fmt.Errorf("marshal blueprint: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadBlueprint reads a blueprint from a YAML file
func ReadBlueprint(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("parse blueprint %s: %w", path, err)
	}

	return &bp, nil
}

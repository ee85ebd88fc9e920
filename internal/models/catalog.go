package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogQuestion is the YAML shape of one seed-file entry.
type CatalogQuestion struct {
	ID      int64  `yaml:"id"`
	Text    string `yaml:"text"`
	OptionA string `yaml:"option_a"`
	OptionB string `yaml:"option_b"`
	OptionC string `yaml:"option_c"`
	OptionD string `yaml:"option_d"`
	Correct string `yaml:"correct"`
	Topic   string `yaml:"topic"`
	Source  string `yaml:"source"`
}

// Catalog holds the parsed question seed file.
type Catalog struct {
	Questions []CatalogQuestion `yaml:"questions"`
}

// LoadCatalog reads and parses the questions seed file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}

	for i, q := range catalog.Questions {
		if !ValidOption(q.Correct) {
			return nil, fmt.Errorf("catalog entry %d (%q): invalid correct option %q", i, q.Text, q.Correct)
		}
	}
	return &catalog, nil
}

// Question converts a seed entry to its persisted form.
func (c CatalogQuestion) Question() Question {
	return Question{
		ID:            c.ID,
		Text:          c.Text,
		OptionA:       c.OptionA,
		OptionB:       c.OptionB,
		OptionC:       c.OptionC,
		OptionD:       c.OptionD,
		CorrectOption: c.Correct,
		Topic:         c.Topic,
		Source:        c.Source,
	}
}

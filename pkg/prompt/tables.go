package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TableDescriptor documents one warehouse table for the model: what it holds,
// its columns, and which columns need fuzzy matching before filtering.
type TableDescriptor struct {
	TableID            string   `yaml:"table_id"`
	DatasetID          string   `yaml:"dataset_id"`
	TableDescription   string   `yaml:"table_description"`
	Headers            []string `yaml:"headers"`
	StringLookupFields []string `yaml:"string_lookup_fields"`
}

// LoadDescriptors reads every .yaml/.yml file in dir as a table descriptor,
// in filename order so the rendered guidance is stable.
func LoadDescriptors(dir string) ([]TableDescriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read table descriptor directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	descriptors := make([]TableDescriptor, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read table descriptor %s: %w", path, err)
		}
		var desc TableDescriptor
		if err := yaml.Unmarshal(data, &desc); err != nil {
			return nil, fmt.Errorf("failed to parse table descriptor %s: %w", path, err)
		}
		if desc.TableID == "" {
			return nil, fmt.Errorf("table descriptor %s has no table_id", path)
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// DescribeTables renders the dataset guidance appended to the SQL tool
// description.
func DescribeTables(descriptors []TableDescriptor) string {
	if len(descriptors) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("The Data Set has the following tables")
	for i, desc := range descriptors {
		fmt.Fprintf(&b, "\nTable no %d\n", i)
		b.WriteString(desc.describe())
	}
	return b.String()
}

func (d TableDescriptor) describe() string {
	return fmt.Sprintf(`This is a warehouse table.
The table is named %s and is part of the schema %s.
This table is about %s
The table has the following columns
%s
Out of these the following string_lookup_fields columns require **fuzzy string matching** (i.e., user input may be partial, misspelled, or case-insensitive) when used in a where clause
%s
`,
		d.TableID,
		d.DatasetID,
		d.TableDescription,
		strings.Join(d.Headers, ", "),
		strings.Join(d.StringLookupFields, ", "))
}

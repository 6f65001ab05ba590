package policydef

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Issue is one validation finding against a policy definition file.
type Issue struct {
	File    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.File, i.Message)
}

var requiredFields = []string{"displayName", "description", "mode", "policyRule"}

var validParameterTypes = map[string]bool{
	"String":   true,
	"Array":    true,
	"Object":   true,
	"Boolean":  true,
	"Integer":  true,
	"Float":    true,
	"DateTime": true,
}

var validEffects = map[string]bool{
	"Audit":             true,
	"Deny":              true,
	"Disabled":          true,
	"AuditIfNotExists":  true,
	"DeployIfNotExists": true,
	"Append":            true,
	"Modify":            true,
}

// ValidateFile parses and validates one policy definition JSON file.
// Parse failures are validation issues, not errors; the error return is
// reserved for unreadable files.
func ValidateFile(path string) ([]Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	name := filepath.Base(path)

	var definition map[string]any
	if err := json.Unmarshal(data, &definition); err != nil {
		return []Issue{{File: name, Message: fmt.Sprintf("invalid JSON: %v", err)}}, nil
	}

	issues := Validate(name, definition)
	issues = append(issues, validateFileName(name)...)
	return issues, nil
}

// ValidateDir validates every .json file in a directory. Files named
// *-parameters.json or *-rule.json are fragments, not complete
// definitions, and are skipped.
func ValidateDir(dir string) ([]Issue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy directory: %w", err)
	}

	var issues []Issue
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if strings.HasSuffix(name, "-parameters.json") || strings.HasSuffix(name, "-rule.json") {
			continue
		}
		fileIssues, err := ValidateFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		issues = append(issues, fileIssues...)
	}
	return issues, nil
}

// Validate checks a parsed policy definition for structural problems:
// missing required fields, undescriptive names, bad modes, invalid
// parameter types, invalid effects and a malformed policy rule.
func Validate(name string, definition map[string]any) []Issue {
	var issues []Issue
	add := func(format string, args ...any) {
		issues = append(issues, Issue{File: name, Message: fmt.Sprintf(format, args...)})
	}

	for _, field := range requiredFields {
		if _, ok := definition[field]; !ok {
			add("Missing required field: %s", field)
		}
	}

	if displayName, ok := definition["displayName"].(string); ok {
		if len(displayName) < 10 {
			add("displayName too short: %q", displayName)
		}
	}
	if description, ok := definition["description"].(string); ok {
		if len(description) < 20 {
			add("description too short: %q", description)
		}
	}
	if mode, ok := definition["mode"].(string); ok {
		if mode != "All" && mode != "Indexed" {
			add("mode must be 'All' or 'Indexed', got %q", mode)
		}
	}

	issues = append(issues, validateParameters(name, definition)...)
	issues = append(issues, validateRule(name, definition)...)
	return issues
}

func validateParameters(name string, definition map[string]any) []Issue {
	parameters, ok := definition["parameters"].(map[string]any)
	if !ok {
		return nil
	}

	var issues []Issue
	add := func(format string, args ...any) {
		issues = append(issues, Issue{File: name, Message: fmt.Sprintf(format, args...)})
	}

	names := make([]string, 0, len(parameters))
	for paramName := range parameters {
		names = append(names, paramName)
	}
	sort.Strings(names)

	for _, paramName := range names {
		param, ok := parameters[paramName].(map[string]any)
		if !ok {
			add("parameter %q is not an object", paramName)
			continue
		}

		paramType, ok := param["type"].(string)
		if !ok {
			add("parameter %q missing required 'type' field", paramName)
		} else if !validParameterTypes[paramType] {
			add("parameter %q has invalid type %q", paramName, paramType)
		}

		if !strings.Contains(strings.ToLower(paramName), "effect") {
			continue
		}

		allowed, ok := param["allowedValues"].([]any)
		if !ok {
			add("effect parameter %q should define allowedValues", paramName)
			continue
		}
		for _, value := range allowed {
			effect, ok := value.(string)
			if !ok || !validEffects[effect] {
				add("effect parameter %q allows invalid effect %v", paramName, value)
			}
		}
	}
	return issues
}

func validateRule(name string, definition map[string]any) []Issue {
	rule, ok := definition["policyRule"].(map[string]any)
	if !ok {
		return nil
	}

	var issues []Issue
	add := func(format string, args ...any) {
		issues = append(issues, Issue{File: name, Message: fmt.Sprintf(format, args...)})
	}

	if _, ok := rule["if"]; !ok {
		add("policyRule missing 'if' condition")
	}
	then, ok := rule["then"].(map[string]any)
	if !ok {
		add("policyRule missing 'then' action")
		return issues
	}

	if effect, ok := then["effect"].(string); ok {
		// Parameter references like "[parameters('effect')]" resolve at
		// assignment time and cannot be checked statically.
		if !strings.HasPrefix(effect, "[") && !validEffects[effect] {
			add("invalid effect %q", effect)
		}
	}
	return issues
}

// validateFileName enforces kebab-case policy file naming.
func validateFileName(name string) []Issue {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var issues []Issue
	add := func(message string) {
		issues = append(issues, Issue{File: name, Message: message})
	}

	if stem != strings.ToLower(stem) {
		add("policy file name should be lowercase")
	}
	if !strings.Contains(stem, "-") {
		add("policy file name should use kebab-case")
	}
	if strings.HasPrefix(stem, "-") || strings.HasSuffix(stem, "-") {
		add("policy file name should not start or end with a hyphen")
	}
	return issues
}

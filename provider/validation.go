package provider

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ConfigField describes one credential a provider needs at start-up
type ConfigField struct {
	Key         string   `json:"key"`
	Required    bool     `json:"required"`
	Description string   `json:"description"`
	Example     string   `json:"example"`
	Pattern     string   `json:"pattern,omitempty"`
	OneOf       []string `json:"oneOf,omitempty"`
	MinLength   int      `json:"minLength,omitempty"`
}

// ValidateConfigFields validates configuration against provided field definitions
func ValidateConfigFields(providerName string, config map[string]string, fields []ConfigField) error {
	for _, field := range fields {
		value := strings.TrimSpace(config[field.Key])

		if value == "" {
			if field.Required {
				return fmt.Errorf("%s: required field '%s' cannot be empty", providerName, field.Key)
			}
			continue
		}

		if len(field.OneOf) > 0 && !slices.Contains(field.OneOf, value) {
			return fmt.Errorf("%s: field '%s' must be one of: %s", providerName, field.Key, strings.Join(field.OneOf, ", "))
		}

		if field.Pattern != "" {
			matched, err := regexp.MatchString(field.Pattern, value)
			if err != nil {
				return fmt.Errorf("%s: invalid pattern for field '%s': %v", providerName, field.Key, err)
			}
			if !matched {
				return fmt.Errorf("%s: field '%s' does not match required pattern", providerName, field.Key)
			}
		}

		if field.MinLength > 0 && len(value) < field.MinLength {
			return fmt.Errorf("%s: field '%s' must be at least %d characters", providerName, field.Key, field.MinLength)
		}
	}

	return nil
}

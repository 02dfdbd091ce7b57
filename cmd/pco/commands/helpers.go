package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fivetwenty-io/pco-client/pkg/pco"
	"github.com/fivetwenty-io/pco-client/pkg/pcoclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// JSON formatting.
	defaultJSONIndent = "  "

	Masked = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrInvalidWhereFlag = errors.New("invalid where flag")
	ErrProductNotFound  = errors.New("product not found")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrAppIDRequired    = errors.New("application id is required")
	ErrFilePathRequired = errors.New("file path is required")
)

// createClient builds an API client from the effective configuration
// (flags, environment, config file).
func createClient() (pco.Client, error) {
	config := &pco.Config{
		AppID:       viper.GetString("app_id"),
		Secret:      viper.GetString("secret"),
		Token:       viper.GetString("token"),
		SessionName: viper.GetString("session_name"),
		APIBase:     viper.GetString("api"),
	}

	client, err := pcoclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", defaultJSONIndent)

	return encoder.Encode(v)
}

// outputYAML writes v to stdout as YAML.
func outputYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	return encoder.Encode(v)
}

// resourceRow flattens a resource for tabular output: type, id, and a
// short preview of its attributes in name order.
func resourceRow(obj pco.Object, attrNames []string) []string {
	row := []string{obj.Type, obj.ID}

	for _, name := range attrNames {
		value, ok := obj.Attributes[name]
		if !ok || value == nil {
			row = append(row, NotAvailable)

			continue
		}

		row = append(row, fmt.Sprintf("%v", value))
	}

	return row
}

// attributeColumns picks up to max attribute names shared by the given
// objects, sorted for stable output.
func attributeColumns(objects []pco.Object, max int) []string {
	seen := map[string]struct{}{}

	for _, obj := range objects {
		for name := range obj.Attributes {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	if len(names) > max {
		names = names[:max]
	}

	return names
}

// parseWhereFlags converts repeated "attr=value" flags into a Where map.
func parseWhereFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	where := make(map[string]string, len(flags))

	for _, flag := range flags {
		attr, value, found := strings.Cut(flag, "=")
		if !found || attr == "" {
			return nil, fmt.Errorf("%w: %q (expected attr=value)", ErrInvalidWhereFlag, flag)
		}

		where[attr] = value
	}

	return where, nil
}

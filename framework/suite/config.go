package suite

import (
	"bytes"
	"fmt"
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	yaml "gopkg.in/yaml.v3"

	"github.com/launchdarkly/unit-test-engine/framework"
)

const (
	descriptionKey = "description"
	timeoutKey     = "timeout"
	groupsKey      = "groups"
	dataKey        = "data"
)

// Config is the configuration of a test: a description, a declared timeout, group tags and
// arbitrary input data. The timeout is metadata only; the engine never interrupts a test.
type Config struct {
	description string
	timeout     time.Duration
	groups      framework.Groups
	data        ldvalue.Value
}

func (c Config) Description() string { return c.description }

func (c Config) Timeout() time.Duration { return c.timeout }

func (c Config) Groups() framework.Groups { return append(framework.Groups(nil), c.groups...) }

func (c Config) Data() ldvalue.Value { return c.data }

// Value returns the configuration as a document, with the timeout expressed in milliseconds.
// Unset properties are omitted.
func (c Config) Value() ldvalue.Value {
	obj := ldvalue.ObjectBuild()
	if c.description != "" {
		obj.Set(descriptionKey, ldvalue.String(c.description))
	}
	if c.timeout != 0 {
		obj.Set(timeoutKey, ldvalue.Int(int(c.timeout/time.Millisecond)))
	}
	if len(c.groups) != 0 {
		groups := ldvalue.ArrayBuild()
		for _, g := range c.groups {
			groups.Add(ldvalue.String(g))
		}
		obj.Set(groupsKey, groups.Build())
	}
	if !c.data.IsNull() {
		obj.Set(dataKey, c.data)
	}
	return obj.Build()
}

// Option customizes the Config of a Descriptor.
type Option func(*Config)

func WithDescription(description string) Option {
	return func(c *Config) { c.description = description }
}

// WithTimeout declares how long the test is expected to take. Enforcing it is up to the
// driver.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.timeout = timeout }
}

func WithGroups(groups ...string) Option {
	return func(c *Config) { c.groups = append(c.groups, groups...) }
}

func WithData(data ldvalue.Value) Option {
	return func(c *Config) { c.data = data }
}

// WithConfig replaces the whole configuration, typically with one loaded by ParseConfig.
func WithConfig(config Config) Option {
	return func(c *Config) { *c = config }
}

// ParseConfig reads a Config from JSON or YAML. JSON is recognized by a leading '{'.
//
//	description: adds two numbers
//	timeout: 250       # milliseconds
//	groups: [math, fast]
//	data: {a: 1, b: 2}
func ParseConfig(data []byte) (Config, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) != 0 && trimmed[0] == '{' {
		return parseConfigJSON(trimmed)
	}
	return parseConfigYAML(trimmed)
}

func parseConfigJSON(data []byte) (Config, error) {
	var c Config
	r := jreader.NewReader(data)
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case descriptionKey:
			c.description = r.String()
		case timeoutKey:
			c.timeout = millisecondsToDuration(r.Float64())
		case groupsKey:
			for arr := r.Array(); arr.Next(); {
				c.groups = append(c.groups, r.String())
			}
		case dataKey:
			c.data.ReadFromJSONReader(&r)
		default:
			_ = r.SkipValue()
		}
	}
	if err := r.Error(); err != nil {
		return Config{}, fmt.Errorf("invalid test configuration: %w", err)
	}
	return c, nil
}

func parseConfigYAML(data []byte) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("invalid test configuration: %w", err)
	}
	var c Config
	if v, ok := raw[descriptionKey]; ok {
		s, ok := v.(string)
		if !ok {
			return Config{}, fmt.Errorf("invalid test configuration: %q must be a string", descriptionKey)
		}
		c.description = s
	}
	if v, ok := raw[timeoutKey]; ok {
		switch n := v.(type) {
		case int:
			c.timeout = millisecondsToDuration(float64(n))
		case float64:
			c.timeout = millisecondsToDuration(n)
		default:
			return Config{}, fmt.Errorf("invalid test configuration: %q must be a number", timeoutKey)
		}
	}
	if v, ok := raw[groupsKey]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return Config{}, fmt.Errorf("invalid test configuration: %q must be a list", groupsKey)
		}
		for _, g := range list {
			c.groups = append(c.groups, fmt.Sprint(g))
		}
	}
	if v, ok := raw[dataKey]; ok {
		normalized, err := normalizeParsedYAML(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid test configuration: %w", err)
		}
		c.data = ldvalue.CopyArbitraryValue(normalized)
	}
	return c, nil
}

// normalizeParsedYAML converts the map[interface{}]interface{} values that YAML can produce
// into map[string]interface{}, so the result can be converted to an ldvalue.Value.
func normalizeParsedYAML(data interface{}) (interface{}, error) {
	switch data := data.(type) {
	case []interface{}:
		arrayOut := make([]interface{}, 0, len(data))
		for _, v := range data {
			v1, err := normalizeParsedYAML(v)
			if err != nil {
				return nil, err
			}
			arrayOut = append(arrayOut, v1)
		}
		return arrayOut, nil
	case map[string]interface{}:
		mapOut := make(map[string]interface{}, len(data))
		for k, v := range data {
			v1, err := normalizeParsedYAML(v)
			if err != nil {
				return nil, err
			}
			mapOut[k] = v1
		}
		return mapOut, nil
	case map[interface{}]interface{}:
		mapOut := make(map[string]interface{}, len(data))
		for k, v := range data {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported non-string map key %v", k)
			}
			v1, err := normalizeParsedYAML(v)
			if err != nil {
				return nil, err
			}
			mapOut[key] = v1
		}
		return mapOut, nil
	default:
		return data, nil
	}
}

func millisecondsToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

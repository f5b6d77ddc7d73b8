package config

import (
	"strings"
	"time"

	"apidocgen/internal/engine/definition"
)

type Config struct {
	Version       int               `toml:"version" yaml:"version" json:"version"`
	Workers       int               `toml:"workers" yaml:"workers" json:"workers"`
	Source        Source            `toml:"source" yaml:"source" json:"source"`
	Cache         Cache             `toml:"cache" yaml:"cache" json:"cache"`
	Output        Output            `toml:"output" yaml:"output" json:"output"`
	Watch         Watch             `toml:"watch" yaml:"watch" json:"watch"`
	Observability Observability     `toml:"observability" yaml:"observability" json:"observability"`
	TypeAliases   map[string]string `toml:"type_aliases" yaml:"type_aliases" json:"typeAliases"`
	Documents     []Document        `toml:"documents" yaml:"documents" json:"documents"`

	// ProjectRoot is filled in by ResolvedPaths.Apply; reports make paths
	// relative to it.
	ProjectRoot string `toml:"-" yaml:"-" json:"-"`
}

// Source says where documents come from. With LocalDir set, documents are
// read from disk; otherwise they are fetched from RawBaseURL.
type Source struct {
	RawBaseURL  string   `toml:"raw_base_url" yaml:"raw_base_url" json:"rawBaseUrl"`
	HTMLBaseURL string   `toml:"html_base_url" yaml:"html_base_url" json:"htmlBaseUrl"`
	LocalDir    string   `toml:"local_dir" yaml:"local_dir" json:"localDir"`
	Timeout     Duration `toml:"timeout" yaml:"timeout" json:"timeout"`
	RateLimit   float64  `toml:"rate_limit" yaml:"rate_limit" json:"rateLimit"`
	Burst       int      `toml:"burst" yaml:"burst" json:"burst"`
	UserAgent   string   `toml:"user_agent" yaml:"user_agent" json:"userAgent"`
}

type Cache struct {
	Enabled     *bool    `toml:"enabled" yaml:"enabled" json:"enabled"`
	Path        string   `toml:"path" yaml:"path" json:"path"`
	TTL         Duration `toml:"ttl" yaml:"ttl" json:"ttl"`
	BusyTimeout Duration `toml:"busy_timeout" yaml:"busy_timeout" json:"busyTimeout"`
	RecordRuns  *bool    `toml:"record_runs" yaml:"record_runs" json:"recordRuns"`
}

func (c Cache) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c Cache) RecordsRuns() bool {
	return c.IsEnabled() && (c.RecordRuns == nil || *c.RecordRuns)
}

type Output struct {
	Path       string   `toml:"path" yaml:"path" json:"path"`
	ModuleName string   `toml:"module_name" yaml:"module_name" json:"moduleName"`
	Aggregate  string   `toml:"aggregate" yaml:"aggregate" json:"aggregate"`
	Header     []string `toml:"header" yaml:"header" json:"header"`
	References []string `toml:"references" yaml:"references" json:"references"`
	SchemaPath string   `toml:"schema_path" yaml:"schema_path" json:"schemaPath"`
	// IndexPath and DiagnosticsPath, when set, receive TSV listings.
	IndexPath       string `toml:"index_path" yaml:"index_path" json:"indexPath"`
	DiagnosticsPath string `toml:"diagnostics_path" yaml:"diagnostics_path" json:"diagnosticsPath"`
	SARIFPath       string `toml:"sarif_path" yaml:"sarif_path" json:"sarifPath"`
	Verify          *bool  `toml:"verify" yaml:"verify" json:"verify"`
}

func (o Output) VerifyEnabled() bool {
	return o.Verify == nil || *o.Verify
}

type Watch struct {
	Debounce Duration `toml:"debounce" yaml:"debounce" json:"debounce"`
	Exclude  []string `toml:"exclude" yaml:"exclude" json:"exclude"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled" json:"enabled"`
	Port          int    `toml:"port" yaml:"port" json:"port"`
	OTLPEndpoint  string `toml:"otlp_endpoint" yaml:"otlp_endpoint" json:"otlpEndpoint"`
	EnableTracing bool   `toml:"enable_tracing" yaml:"enable_tracing" json:"enableTracing"`
	EnableMetrics bool   `toml:"enable_metrics" yaml:"enable_metrics" json:"enableMetrics"`
}

// Document is one source file and how to read it.
type Document struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	Mode string `toml:"mode" yaml:"mode" json:"mode"`
	// Symbol overrides the heading text as the emitted name.
	Symbol  string  `toml:"symbol" yaml:"symbol" json:"symbol"`
	Parsing Parsing `toml:"parsing" yaml:"parsing" json:"parsing"`
	Patches Patches `toml:"patches" yaml:"patches" json:"patches"`
}

type Parsing struct {
	UncommonSections   map[string]string `toml:"uncommon_sections" yaml:"uncommon_sections" json:"uncommonSections"`
	MethodsAreInstance bool              `toml:"methods_are_instance" yaml:"methods_are_instance" json:"methodsAreInstance"`
}

type Patches struct {
	MethodReturns  []MethodReturnPatch `toml:"method_returns" yaml:"method_returns" json:"methodReturns"`
	MethodParams   []MethodParamPatch  `toml:"method_params" yaml:"method_params" json:"methodParams"`
	EventParams    []EventParamPatch   `toml:"event_params" yaml:"event_params" json:"eventParams"`
	Properties     []PropertyPatch     `toml:"properties" yaml:"properties" json:"properties"`
	InterfaceTypes []string            `toml:"interface_types" yaml:"interface_types" json:"interfaceTypes"`
}

type MethodReturnPatch struct {
	Method string `toml:"method" yaml:"method" json:"method"`
	Type   string `toml:"type" yaml:"type" json:"type"`
}

type MethodParamPatch struct {
	Method string `toml:"method" yaml:"method" json:"method"`
	Param  string `toml:"param" yaml:"param" json:"param"`
	Type   string `toml:"type" yaml:"type" json:"type"`
}

type EventParamPatch struct {
	Event string `toml:"event" yaml:"event" json:"event"`
	Param string `toml:"param" yaml:"param" json:"param"`
	Type  string `toml:"type" yaml:"type" json:"type"`
}

type PropertyPatch struct {
	Property string `toml:"property" yaml:"property" json:"property"`
	Type     string `toml:"type" yaml:"type" json:"type"`
}

// ParserSettings converts the document entry into parser settings. Load has
// already validated mode and roles, so errors only surface for hand-built
// configs.
func (d Document) ParserSettings() (definition.Settings, error) {
	mode, err := definition.ParseOutputMode(d.Mode)
	if err != nil {
		return definition.Settings{}, err
	}
	settings := definition.Settings{
		Mode:               mode,
		Name:               strings.TrimSpace(d.Symbol),
		MethodsAreInstance: d.Parsing.MethodsAreInstance,
	}
	if len(d.Parsing.UncommonSections) > 0 {
		settings.UncommonSections = make(map[string]definition.SectionRole, len(d.Parsing.UncommonSections))
		for name, raw := range d.Parsing.UncommonSections {
			role, err := definition.ParseSectionRole(raw)
			if err != nil {
				return definition.Settings{}, err
			}
			settings.UncommonSections[name] = role
		}
	}
	return settings, nil
}

func (d Document) PatchSet() definition.Patches {
	var out definition.Patches
	for _, p := range d.Patches.MethodReturns {
		out.MethodReturns = append(out.MethodReturns, definition.MethodReturnPatch{Method: p.Method, Type: p.Type})
	}
	for _, p := range d.Patches.MethodParams {
		out.MethodParams = append(out.MethodParams, definition.MethodParamPatch{Method: p.Method, Param: p.Param, Type: p.Type})
	}
	for _, p := range d.Patches.EventParams {
		out.EventParams = append(out.EventParams, definition.EventParamPatch{Event: p.Event, Param: p.Param, Type: p.Type})
	}
	for _, p := range d.Patches.Properties {
		out.Properties = append(out.Properties, definition.PropertyPatch{Property: p.Property, Type: p.Type})
	}
	out.InterfaceTypes = append(out.InterfaceTypes, d.Patches.InterfaceTypes...)
	return out
}

// HelpURL is the browsable address of a document, used for anchors and
// diagnostics.
func (c *Config) HelpURL(name string) string {
	base := c.Source.HTMLBaseURL
	if base == "" {
		base = c.Source.RawBaseURL
	}
	if base == "" {
		return name
	}
	return strings.TrimSuffix(base, "/") + "/" + name
}

// Document returns the entry for name, if configured.
func (c *Config) Document(name string) (Document, bool) {
	for _, d := range c.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return Document{}, false
}

// Duration decodes "1s" style strings from TOML, YAML and JSON alike.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

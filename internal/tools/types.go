package tools

// Status captures the resolved state of an external tool.
type Status struct {
	Tool      string `json:"tool"`
	Version   string `json:"version,omitempty"`
	Minimum   string `json:"minimum,omitempty"`
	Path      string `json:"path,omitempty"`
	Required  bool   `json:"required"`
	Satisfied bool   `json:"satisfied"`
	Error     string `json:"error,omitempty"`
}

// ToolDefinition contains the metadata needed to locate and version a tool.
type ToolDefinition struct {
	Name           string
	Executable     string
	VersionSwitch  string
	MinimumVersion string
	// Required tools fail the doctor check when missing; optional ones only
	// narrow the download fallback chain.
	Required bool
}

package config

const SourceFileExt = ".func"

// MainBindingName is the entry point a program starts from.
const MainBindingName = "main"

// Built-in function names
const (
	PrintFuncName           = "print"
	AddFuncName             = "add"
	IntegerToStringFuncName = "integer_to_string"
)

// Type check modes
const (
	TypeCheckOff    = "off"
	TypeCheckWarn   = "warn"
	TypeCheckStrict = "strict"
)

// ConfigFileName is looked up in the working directory, then as a dotfile
// in the home directory.
const ConfigFileName = "func.yaml"

// EnvPrefix prefixes environment overrides, e.g. FUNC_LOG_LEVEL.
const EnvPrefix = "FUNC"

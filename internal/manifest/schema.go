package manifest

// File is the root of a manifest.
type File struct {
	Version string       `yaml:"version,omitempty"`
	Modules []ModuleSpec `yaml:"modules"`
}

// ModuleSpec declares one module.
type ModuleSpec struct {
	// Name is the module name, e.g. "core" or "example.com/app/store".
	Name string `yaml:"name"`
	// References lists the names of the modules this one depends on.
	References StringOrArray `yaml:"references,omitempty"`
	// Dynamic modules are registered but skipped by ordering scans.
	Dynamic bool       `yaml:"dynamic,omitempty"`
	Types   []TypeSpec `yaml:"types,omitempty"`
}

// TypeSpec declares one class, struct or interface.
type TypeSpec struct {
	// Name is the simple name with optional generic parameters: "List[T]".
	Name string `yaml:"name"`
	// Kind is class, struct or interface. Defaults to class.
	Kind       string        `yaml:"kind,omitempty"`
	Base       string        `yaml:"base,omitempty"`
	Implements StringOrArray `yaml:"implements,omitempty"`
	Params     []ParamSpec   `yaml:"params,omitempty"`
	// Before lists the types that must be ordered after this one.
	Before StringOrArray `yaml:"before,omitempty"`
	// After lists the types that must be ordered before this one.
	After              StringOrArray     `yaml:"after,omitempty"`
	Tags               map[string]string `yaml:"tags,omitempty"`
	DefaultConstructor bool              `yaml:"default_constructor,omitempty"`
	Abstract           bool              `yaml:"abstract,omitempty"`
	Nullable           bool              `yaml:"nullable,omitempty"`
}

// ParamSpec constrains a generic parameter declared in TypeSpec.Name.
type ParamSpec struct {
	Name        string        `yaml:"name"`
	Flags       StringOrArray `yaml:"flags,omitempty"`
	Constraints StringOrArray `yaml:"constraints,omitempty"`
}

// Parameter flag names.
const (
	FlagClass  = "class"
	FlagStruct = "struct"
	FlagNew    = "new"
)

// Kind names.
const (
	KindClass     = "class"
	KindStruct    = "struct"
	KindInterface = "interface"
)

// Options controls how a manifest is applied.
type Options struct {
	// Strict aborts on the first broken module instead of marking it.
	Strict bool
}

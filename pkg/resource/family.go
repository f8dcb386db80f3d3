package resource

// Family buckets resource types by how they are structurally compared.
// The engine dispatches on Family in a fixed priority order; a type belongs
// to exactly one family.
type Family int

const (
	// FamilyUnknown types have no registered reader; they fall through to
	// the text heuristic and finally to content hashing
	FamilyUnknown Family = iota
	// FamilyStructured is the nested field/struct/list family (GFF-like)
	FamilyStructured
	// FamilyTabular is the row/column family (2DA-like)
	FamilyTabular
	// FamilyStringTable is the talk-table family (TLK-like)
	FamilyStringTable
	// FamilySoundSet is the named sound-slot family (SSF-like)
	FamilySoundSet
	// FamilyBytecode is compiled script bytecode, compared by content but
	// reported with instruction counts and capped diff output
	FamilyBytecode
	// FamilyBinary is known-binary content compared by hash
	FamilyBinary
	// FamilyLargeBinary is binary content large enough that sizes are
	// compared before any hashing
	FamilyLargeBinary
)

// String returns the family name for logging.
func (f Family) String() string {
	switch f {
	case FamilyStructured:
		return "structured"
	case FamilyTabular:
		return "tabular"
	case FamilyStringTable:
		return "stringtable"
	case FamilySoundSet:
		return "soundset"
	case FamilyBytecode:
		return "bytecode"
	case FamilyBinary:
		return "binary"
	case FamilyLargeBinary:
		return "largebinary"
	default:
		return "unknown"
	}
}

// structuredTypes is the GFF-like family: nested named fields, structs and
// lists sharing one binary layout.
var structuredTypes = map[Type]bool{
	"gff": true, "are": true, "bic": true, "dlg": true, "fac": true,
	"gic": true, "git": true, "gui": true, "ifo": true, "itp": true,
	"jrl": true, "pth": true, "ptm": true, "ptt": true,
	"utc": true, "utd": true, "ute": true, "uti": true, "utm": true,
	"utp": true, "uts": true, "utt": true, "utw": true,
}

// largeBinaryTypes are bulk assets where a size mismatch alone settles the
// comparison without hashing.
var largeBinaryTypes = map[Type]bool{
	"wav": true, "mp3": true, "bik": true,
	"tga": true, "tpc": true, "dds": true,
	"mdl": true, "mdx": true,
	"bwm": true, "wok": true, "dwk": true, "pwk": true,
}

// binaryTypes are smaller known-binary assets compared by hash.
var binaryTypes = map[Type]bool{
	"lip": true, "ltr": true, "ndb": true, "plt": true, "bmp": true,
}

// devSourceTypes are developer-only source artifacts that installation
// level comparisons may skip.
var devSourceTypes = map[Type]bool{
	"nss": true,
}

// FamilyOf classifies a resource type into its comparison family.
func FamilyOf(t Type) Family {
	switch {
	case structuredTypes[t]:
		return FamilyStructured
	case t == "2da":
		return FamilyTabular
	case t == "tlk":
		return FamilyStringTable
	case t == "ssf":
		return FamilySoundSet
	case t == "ncs":
		return FamilyBytecode
	case largeBinaryTypes[t]:
		return FamilyLargeBinary
	case binaryTypes[t]:
		return FamilyBinary
	default:
		return FamilyUnknown
	}
}

// IsDevSource reports whether t is a developer-only source kind.
func IsDevSource(t Type) bool {
	return devSourceTypes[t]
}

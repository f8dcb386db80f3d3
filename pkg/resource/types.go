package resource

// Numeric resource type identifiers as stored in capsule key lists.
// Only types the toolchain can encounter are mapped; unmapped identifiers
// round-trip through TypeID so foreign entries survive inspection.

// TypeID is the on-disk numeric resource type identifier.
type TypeID uint16

var typeIDs = map[Type]TypeID{
	"bmp": 1, "tga": 3, "wav": 4, "plt": 6, "ini": 7, "txt": 10,
	"mdl": 2002, "nss": 2009, "ncs": 2010, "are": 2012, "set": 2013,
	"ifo": 2014, "bic": 2015, "wok": 2016, "2da": 2017, "tlk": 2018,
	"txi": 2022, "git": 2023, "uti": 2025, "utc": 2027, "dlg": 2029,
	"itp": 2030, "utt": 2032, "dds": 2033, "uts": 2035, "ltr": 2036,
	"gff": 2037, "fac": 2038, "ute": 2040, "utd": 2042, "utp": 2044,
	"dft": 2045, "gic": 2046, "gui": 2047, "utm": 2051, "dwk": 2052,
	"pwk": 2053, "jrl": 2056, "utw": 2058, "ssf": 2060, "ndb": 2064,
	"ptm": 2065, "ptt": 2066,
	"lyt": 3000, "vis": 3001, "rim": 3002, "pth": 3003, "lip": 3004,
	"bwm": 3005, "tpc": 3007, "mdx": 3008,
}

var typeNames = func() map[TypeID]Type {
	m := make(map[TypeID]Type, len(typeIDs))
	for t, id := range typeIDs {
		m[id] = t
	}
	return m
}()

// IDOf returns the numeric identifier for a type, or 0xFFFF when unmapped.
func IDOf(t Type) TypeID {
	if id, ok := typeIDs[t]; ok {
		return id
	}
	return 0xFFFF
}

// TypeOfID returns the type for a numeric identifier. Unmapped identifiers
// yield an empty Type.
func TypeOfID(id TypeID) Type {
	return typeNames[id]
}

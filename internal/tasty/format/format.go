// Package format holds the wire-format constants for the TASTy binary
// encoding produced by the downstream compiler: the four-byte magic, tree
// tag values grouped by category, and the tag->name lookup used by the dump
// façade and by the tree decoder's error messages.
//
// Tag values are taken from the compiler's own TastyFormat definition; they
// are not invented here.
package format

// Magic is the four-byte header every TASTy file begins with.
var Magic = [4]byte{0x5C, 0xA1, 0xAB, 0x1F}

// Tag is a single TASTy tree or name tag byte.
type Tag = byte

// Category 1: tag alone (2..59).
const (
	UNITconst    Tag = 2
	FALSEconst   Tag = 3
	TRUEconst    Tag = 4
	NULLconst    Tag = 5
	PRIVATE      Tag = 6
	PROTECTED    Tag = 8
	ABSTRACT     Tag = 9
	FINAL        Tag = 10
	SEALED       Tag = 11
	CASE         Tag = 12
	IMPLICIT     Tag = 13
	LAZY         Tag = 14
	OVERRIDE     Tag = 15
	INLINEPROXY  Tag = 16
	INLINE       Tag = 17
	STATIC       Tag = 18
	OBJECT       Tag = 19
	TRAIT        Tag = 20
	ENUM         Tag = 21
	LOCAL        Tag = 22
	SYNTHETIC    Tag = 23
	ARTIFACT     Tag = 24
	MUTABLE      Tag = 25
	FIELDaccessor Tag = 26
	CASEaccessor Tag = 27
	COVARIANT    Tag = 28
	CONTRAVARIANT Tag = 29
	HASDEFAULT   Tag = 31
	STABLE       Tag = 32
	MACRO        Tag = 33
	ERASED       Tag = 34
	OPAQUE       Tag = 35
	EXTENSION    Tag = 36
	GIVEN        Tag = 37
	PARAMsetter  Tag = 38
	EXPORTED    Tag = 39
	OPEN         Tag = 40
	PARAMalias   Tag = 41
	TRANSPARENT  Tag = 42
	INFIX        Tag = 43
	INVISIBLE    Tag = 44
	EMPTYCLAUSE  Tag = 45
	SPLITCLAUSE  Tag = 46
	TRACKED      Tag = 47
	SUBMATCH     Tag = 48
	INTO         Tag = 49
)

// Category 2: tag + Nat (60..89).
const (
	SHAREDterm     Tag = 60
	SHAREDtype     Tag = 61
	TERMREFdirect  Tag = 62
	TYPEREFdirect  Tag = 63
	TERMREFpkg     Tag = 64
	TYPEREFpkg     Tag = 65
	RECthis        Tag = 66
	BYTEconst      Tag = 67
	SHORTconst     Tag = 68
	CHARconst      Tag = 69
	INTconst       Tag = 70
	LONGconst      Tag = 71
	FLOATconst     Tag = 72
	DOUBLEconst    Tag = 73
	STRINGconst    Tag = 74
	IMPORTED       Tag = 75
	RENAMED        Tag = 76
)

// Category 3: tag + one child tree (90..109).
const (
	THIS               Tag = 90
	QUALTHIS           Tag = 91
	CLASSconst         Tag = 92
	BYNAMEtype         Tag = 93
	BYNAMEtpt          Tag = 94
	NEW                Tag = 95
	THROW              Tag = 96
	IMPLICITarg        Tag = 97
	PRIVATEqualified   Tag = 98
	PROTECTEDqualified Tag = 99
	RECtype            Tag = 100
	SINGLETONtpt       Tag = 101
	BOUNDED            Tag = 102
	EXPLICITtpt        Tag = 103
	ELIDED             Tag = 104
)

// Category 4: tag + Nat + one child tree (110..127).
const (
	IDENT         Tag = 110
	IDENTtpt      Tag = 111
	SELECT        Tag = 112
	SELECTtpt     Tag = 113
	TERMREFsymbol Tag = 114
	TERMREF       Tag = 115
	TYPEREFsymbol Tag = 116
	TYPEREF       Tag = 117
	SELFDEF       Tag = 118
	NAMEDARG      Tag = 119
)

// Category 5: tag + Length + leading nats + child trees (128..255).
const (
	PACKAGE        Tag = 128
	VALDEF         Tag = 129
	DEFDEF         Tag = 130
	TYPEDEF        Tag = 131
	IMPORT         Tag = 132
	TYPEPARAM      Tag = 133
	PARAM          Tag = 134
	APPLY          Tag = 136
	TYPEAPPLY      Tag = 137
	TYPED          Tag = 138
	ASSIGN         Tag = 139
	BLOCK          Tag = 140
	IF             Tag = 141
	LAMBDA         Tag = 142
	MATCH          Tag = 143
	RETURN         Tag = 144
	WHILE          Tag = 145
	TRY            Tag = 146
	INLINED        Tag = 147
	SELECTouter    Tag = 148
	REPEATED       Tag = 149
	BIND           Tag = 150
	ALTERNATIVE    Tag = 151
	UNAPPLY        Tag = 152
	ANNOTATEDtype  Tag = 153
	ANNOTATEDtpt   Tag = 154
	CASEDEF        Tag = 155
	TEMPLATE       Tag = 156
	SUPER          Tag = 157
	SUPERtype      Tag = 158
	REFINEDtype    Tag = 159
	REFINEDtpt     Tag = 160
	APPLIEDtype    Tag = 161
	APPLIEDtpt     Tag = 162
	TYPEBOUNDS     Tag = 163
	TYPEBOUNDStpt  Tag = 164
	ANDtype        Tag = 165
	ORtype         Tag = 167
	POLYtype       Tag = 169
	TYPELAMBDAtype Tag = 170
	LAMBDAtpt      Tag = 171
	PARAMtype      Tag = 172
	ANNOTATION     Tag = 173
	TERMREFin      Tag = 174
	TYPEREFin      Tag = 175
	SELECTin       Tag = 176
	EXPORT         Tag = 177
	QUOTE          Tag = 178
	SPLICE         Tag = 179
	METHODtype     Tag = 180
	APPLYsigpoly   Tag = 181
	QUOTEPATTERN   Tag = 182
	SPLICEPATTERN  Tag = 183
	MATCHtype      Tag = 190
	MATCHtpt       Tag = 191
	MATCHCASEtype  Tag = 192
	FLEXIBLEtype   Tag = 193
	HOLE           Tag = 255
)

// Category boundaries.
const (
	FirstCat1 Tag = 2
	LastCat1  Tag = 59
	FirstCat2 Tag = 60
	LastCat2  Tag = 89
	FirstCat3 Tag = 90
	LastCat3  Tag = 109
	FirstCat4 Tag = 110
	LastCat4  Tag = 127
	FirstCat5 Tag = 128
)

// Category returns the AST category (1-5) for tag, or 0 if tag is below
// FirstCat1 (0 or 1). The category is determined purely by numeric range:
// unassigned values inside a range (e.g. 7, 30, 50..59 within category 1's
// range) are still reported as that range's category.
func Category(tag Tag) int {
	switch {
	case tag >= FirstCat1 && tag <= LastCat1:
		return 1
	case tag >= FirstCat2 && tag <= LastCat2:
		return 2
	case tag >= FirstCat3 && tag <= LastCat3:
		return 3
	case tag >= FirstCat4 && tag <= LastCat4:
		return 4
	case tag >= FirstCat5:
		return 5
	default:
		return 0
	}
}

// NumLeadingNats returns the number of leading reference nats in a category-5
// node's payload. A return of -1 marks a binder type (PolyType, MethodType,
// TypeLambdaType), whose payload interleaves child trees and parameter-name
// nats rather than starting with a fixed run of nats.
func NumLeadingNats(tag Tag) int {
	switch tag {
	case VALDEF, DEFDEF, TYPEDEF, TYPEPARAM, PARAM, NAMEDARG, RETURN, BIND,
		SELFDEF, REFINEDtype, TERMREFin, TYPEREFin, SELECTin, HOLE:
		return 1
	case PARAMtype:
		return 2
	case POLYtype, TYPELAMBDAtype, METHODtype:
		return -1
	default:
		return 0
	}
}

// IsBinder reports whether tag is one of the three binder-type tags whose
// payload interleaves a result-type tree with (paramType, paramNameRef) pairs.
func IsBinder(tag Tag) bool {
	return tag == POLYtype || tag == TYPELAMBDAtype || tag == METHODtype
}

// modifierTags is the set of category-1 tags that can appear as a modifier
// flag on a definition (VALDEF/DEFDEF/TYPEDEF/PARAM/TYPEPARAM). The API-hash
// projection does not consult it: it hashes every child of a definition,
// modifier or not.
var modifierTags = map[Tag]bool{
	PRIVATE: true, PROTECTED: true, ABSTRACT: true, FINAL: true, SEALED: true,
	CASE: true, IMPLICIT: true, LAZY: true, OVERRIDE: true, INLINE: true,
	STATIC: true, OBJECT: true, TRAIT: true, ENUM: true, LOCAL: true,
	SYNTHETIC: true, ARTIFACT: true, MUTABLE: true, COVARIANT: true,
	CONTRAVARIANT: true, MACRO: true, ERASED: true, OPAQUE: true,
	EXTENSION: true, GIVEN: true, OPEN: true, TRANSPARENT: true, INFIX: true,
	TRACKED: true, INTO: true,
}

// IsModifier reports whether tag is a modifier-flag tag.
func IsModifier(tag Tag) bool { return modifierTags[tag] }

// tagNames is the tag -> human readable name table used by the dump façade.
var tagNames = map[Tag]string{
	UNITconst: "UNITconst", FALSEconst: "FALSEconst", TRUEconst: "TRUEconst",
	NULLconst: "NULLconst", PRIVATE: "PRIVATE", PROTECTED: "PROTECTED",
	ABSTRACT: "ABSTRACT", FINAL: "FINAL", SEALED: "SEALED", CASE: "CASE",
	IMPLICIT: "IMPLICIT", LAZY: "LAZY", OVERRIDE: "OVERRIDE",
	INLINEPROXY: "INLINEPROXY", INLINE: "INLINE", STATIC: "STATIC",
	OBJECT: "OBJECT", TRAIT: "TRAIT", ENUM: "ENUM", LOCAL: "LOCAL",
	SYNTHETIC: "SYNTHETIC", ARTIFACT: "ARTIFACT", MUTABLE: "MUTABLE",
	FIELDaccessor: "FIELDaccessor", CASEaccessor: "CASEaccessor",
	COVARIANT: "COVARIANT", CONTRAVARIANT: "CONTRAVARIANT",
	HASDEFAULT: "HASDEFAULT", STABLE: "STABLE", MACRO: "MACRO", ERASED: "ERASED",
	OPAQUE: "OPAQUE", EXTENSION: "EXTENSION", GIVEN: "GIVEN",
	PARAMsetter: "PARAMsetter", EXPORTED: "EXPORTED", OPEN: "OPEN",
	PARAMalias: "PARAMalias", TRANSPARENT: "TRANSPARENT", INFIX: "INFIX",
	INVISIBLE: "INVISIBLE", EMPTYCLAUSE: "EMPTYCLAUSE", SPLITCLAUSE: "SPLITCLAUSE",
	TRACKED: "TRACKED", SUBMATCH: "SUBMATCH", INTO: "INTO",
	SHAREDterm: "SHAREDterm", SHAREDtype: "SHAREDtype",
	TERMREFdirect: "TERMREFdirect", TYPEREFdirect: "TYPEREFdirect",
	TERMREFpkg: "TERMREFpkg", TYPEREFpkg: "TYPEREFpkg", RECthis: "RECthis",
	BYTEconst: "BYTEconst", SHORTconst: "SHORTconst", CHARconst: "CHARconst",
	INTconst: "INTconst", LONGconst: "LONGconst", FLOATconst: "FLOATconst",
	DOUBLEconst: "DOUBLEconst", STRINGconst: "STRINGconst", IMPORTED: "IMPORTED",
	RENAMED: "RENAMED", THIS: "THIS", QUALTHIS: "QUALTHIS", CLASSconst: "CLASSconst",
	BYNAMEtype: "BYNAMEtype", BYNAMEtpt: "BYNAMEtpt", NEW: "NEW", THROW: "THROW",
	IMPLICITarg: "IMPLICITarg", PRIVATEqualified: "PRIVATEqualified",
	PROTECTEDqualified: "PROTECTEDqualified", RECtype: "RECtype",
	SINGLETONtpt: "SINGLETONtpt", BOUNDED: "BOUNDED", EXPLICITtpt: "EXPLICITtpt",
	ELIDED: "ELIDED", IDENT: "IDENT", IDENTtpt: "IDENTtpt", SELECT: "SELECT",
	SELECTtpt: "SELECTtpt", TERMREFsymbol: "TERMREFsymbol", TERMREF: "TERMREF",
	TYPEREFsymbol: "TYPEREFsymbol", TYPEREF: "TYPEREF", SELFDEF: "SELFDEF",
	NAMEDARG: "NAMEDARG", PACKAGE: "PACKAGE", VALDEF: "VALDEF", DEFDEF: "DEFDEF",
	TYPEDEF: "TYPEDEF", IMPORT: "IMPORT", TYPEPARAM: "TYPEPARAM", PARAM: "PARAM",
	APPLY: "APPLY", TYPEAPPLY: "TYPEAPPLY", TYPED: "TYPED", ASSIGN: "ASSIGN",
	BLOCK: "BLOCK", IF: "IF", LAMBDA: "LAMBDA", MATCH: "MATCH", RETURN: "RETURN",
	WHILE: "WHILE", TRY: "TRY", INLINED: "INLINED", SELECTouter: "SELECTouter",
	REPEATED: "REPEATED", BIND: "BIND", ALTERNATIVE: "ALTERNATIVE",
	UNAPPLY: "UNAPPLY", ANNOTATEDtype: "ANNOTATEDtype", ANNOTATEDtpt: "ANNOTATEDtpt",
	CASEDEF: "CASEDEF", TEMPLATE: "TEMPLATE", SUPER: "SUPER", SUPERtype: "SUPERtype",
	REFINEDtype: "REFINEDtype", REFINEDtpt: "REFINEDtpt", APPLIEDtype: "APPLIEDtype",
	APPLIEDtpt: "APPLIEDtpt", TYPEBOUNDS: "TYPEBOUNDS", TYPEBOUNDStpt: "TYPEBOUNDStpt",
	ANDtype: "ANDtype", ORtype: "ORtype", POLYtype: "POLYtype",
	TYPELAMBDAtype: "TYPELAMBDAtype", LAMBDAtpt: "LAMBDAtpt", PARAMtype: "PARAMtype",
	ANNOTATION: "ANNOTATION", TERMREFin: "TERMREFin", TYPEREFin: "TYPEREFin",
	SELECTin: "SELECTin", EXPORT: "EXPORT", QUOTE: "QUOTE", SPLICE: "SPLICE",
	METHODtype: "METHODtype", APPLYsigpoly: "APPLYsigpoly",
	QUOTEPATTERN: "QUOTEPATTERN", SPLICEPATTERN: "SPLICEPATTERN",
	MATCHtype: "MATCHtype", MATCHtpt: "MATCHtpt", MATCHCASEtype: "MATCHCASEtype",
	FLEXIBLEtype: "FLEXIBLEtype", HOLE: "HOLE",
}

// TagName returns the human readable name of tag, or "UNKNOWN(n)".
func TagName(tag Tag) string {
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return unknownTagName(tag)
}

func unknownTagName(tag Tag) string {
	const hex = "0123456789ABCDEF"
	return "UNKNOWN(0x" + string([]byte{hex[tag>>4], hex[tag&0xF]}) + ")"
}

// Name tag constants (distinct numbering from tree tags; see §4.C2).
const (
	NameUtf8          Tag = 1
	NameQualified     Tag = 2
	NameExpanded      Tag = 3
	NameExpandPrefix  Tag = 4
	NameUnique        Tag = 10
	NameDefaultGetter Tag = 11
	NameSuperAccessor Tag = 20
	NameInlineAccessor Tag = 21
	NameBodyRetainer  Tag = 22
	NameObjectClass   Tag = 23
	NameTargetSigned  Tag = 62
	NameSigned        Tag = 63
)

// Attribute tags (§4.C4). Categories 1 (boolean, 1..32) and 3 (name-ref,
// 129..160) are assigned; 2 (33..128) and 4 (161..255) are reserved for
// future growth and silently skipped.
const (
	AttrScala2StandardLibrary Tag = 1
	AttrExplicitNulls         Tag = 2
	AttrCaptureChecked        Tag = 3
	AttrWithPureFuns          Tag = 4
	AttrJava                  Tag = 5
	AttrOutline               Tag = 6
	AttrSourceFile            Tag = 129
)

var attrNames = map[Tag]string{
	AttrScala2StandardLibrary: "SCALA2STANDARDLIBRARYattr",
	AttrExplicitNulls:         "EXPLICITNULLSattr",
	AttrCaptureChecked:        "CAPTURECHECKEDattr",
	AttrWithPureFuns:          "WITHPUREFUNSattr",
	AttrJava:                  "JAVAattr",
	AttrOutline:               "OUTLINEattr",
	AttrSourceFile:            "SOURCEFILEattr",
}

// AttrName returns the human readable name of an attribute tag, or
// "UNKNOWN" for a tag the decoder doesn't recognize (still valid per the
// format: unknown attribute tags are skipped, not rejected).
func AttrName(tag Tag) string {
	if name, ok := attrNames[tag]; ok {
		return name
	}
	return "UNKNOWN"
}

// SPDX-License-Identifier: MIT

package emit

import (
	"io"
	"sort"
	"strings"

	"github.com/m-shinder/libepoxy/internal/gen"
	"github.com/m-shinder/libepoxy/pkg/dispatch"
)

// Vapi writes the Vala binding for the generated header: simple-type
// wrappers for the khrplatform types, typedef mirrors, enum groups, and
// delegate plus method declarations for every entry point.
func Vapi(w io.Writer, res *gen.Result) error {
	c := newCodeWriter(w)

	c.outln("/* VAPI for libepoxy GL dispatch header")
	c.outln(" * This is code-generated from the GL API XML files from Khronos.")
	copyrightBody(c, res.Registry.Comment)
	c.outln(" */")
	c.outln("")

	c.outln(`[CCode (cheader_filename = "epoxy/gl.h")]`)
	c.outln("namespace GL {")

	writeVapiKhronosTypes(c)
	writeVapiSpecialTypes(c)
	writeVapiTypedefs(c, res)

	c.outln("// since vala has no `#ifdef` such defines are useless ")
	c.outln("// but we keep them for API compatibility with C code")
	for _, version := range res.Versions {
		c.outlnf("\tpublic const int %s;", version)
	}
	for _, ext := range res.Extensions {
		c.outlnf("\tpublic const int %s;", ext)
	}
	c.outln("")

	writeVapiGroups(c, res)

	// In C these are 'typedef {ret} (GLAPIENTRY *{ptr_type})({args});'
	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("\t[CCode (cname = \"%s\", cprefix = \"\", has_target = \"false\")]", f.PtrType())
		c.outlnf("\tpublic delegate %s %s(%s);",
			vapiFixRetType(f.ReturnType), f.PtrType(), vapiRemoveInvalidArgs(f.ArgsDecl()))
	}
	c.outln("")

	// vala's sizeof() returns ulong, which doesn't convert implicitly;
	// call this with constants instead of types.
	c.outln("\t[CCode (cname = \"sizeof\", simple_generics = true)]")
	c.outln("\tGLsizei glSizeof<T>(T x);")
	c.outln("")

	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("\t[CCode (cname = \"%s\", cprefix = \"\")]", f.Name)
		c.outlnf("\tpublic %s epoxy_%s(%s);",
			vapiFixRetType(f.ReturnType), f.Name, vapiRemoveInvalidArgs(f.ArgsDecl()))
	}
	c.outln("")

	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("\t[CCode (cname = \"%s\", cprefix = \"\")]", f.Name)
		c.outlnf("\tpublic %s %s(%s);",
			vapiFixRetType(f.ReturnType), f.Name, vapiFuncArgsDecl(f))
	}

	c.outln("}")

	return c.flush()
}

func vapiFixRetType(s string) string {
	return strings.ReplaceAll(s, "const ", "")
}

// vapiExtractCType turns a "typedef unsigned int ..." prefix into the
// Vala base type name.
func vapiExtractCType(prefix string) string {
	s := ""
	if len(prefix) > 8 {
		s = prefix[8:]
	}
	s = strings.ReplaceAll(s, "unsigned ", "u")
	return strings.ReplaceAll(s, " (", "")
}

func vapiValidify(s string) string {
	s = strings.ReplaceAll(s, "const ", "")
	s = strings.ReplaceAll(s, "const*", "*")
	return strings.ReplaceAll(s, "struct _cl_", "_cl_")
}

func vapiRemoveInvalidArgs(argsDecl string) string {
	if argsDecl == "void" {
		return ""
	}
	return vapiValidify(strings.ReplaceAll(argsDecl, "(void)", "()"))
}

// vapiFuncArgsDecl renders parameters for the user-facing methods, using
// the semantic enum group as the parameter type when the registry
// declares one.
func vapiFuncArgsDecl(f *dispatch.Function) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		typ := p.Group
		if typ == "" {
			typ = vapiValidify(p.Type)
		}
		parts[i] = typ + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

// writeVapiKhronosTypes declares the khrplatform types the header defines
// explicitly instead of including khrplatform.h. Names are kept C-style
// for easier inheritance handling.
func writeVapiKhronosTypes(c *codeWriter) {
	c.outln("\t// These types should be defined in `khrplatform.h`")
	c.outln("\t// but the header defines them explicitly instead of including.")
	c.outln("\t[SimpleType] public struct khronos_int8_t : int8 {}")
	c.outln("\t[SimpleType] public struct khronos_int16_t : int16 {}")
	c.outln("\t[SimpleType] public struct khronos_int32_t : int32 {}")
	c.outln("\t[SimpleType] public struct khronos_int64_t : int64 {}")
	c.outln("\t[SimpleType] public struct khronos_uint8_t : uint8 {}")
	c.outln("\t[SimpleType] public struct khronos_uint16_t : uint16 {}")
	c.outln("\t[SimpleType] public struct khronos_uint32_t : uint32 {}")
	c.outln("\t[SimpleType] public struct khronos_uint64_t : uint64 {}")
	c.outln("\t[SimpleType] public struct khronos_float_t : float {}")
	c.outln("\t[SimpleType] public struct khronos_intptr_t  : long {}")
	c.outln("\t[SimpleType] public struct khronos_uintptr_t : ulong {}")
	// khronos_ssize_t is `signed long int`, the same as glib's gint64,
	// but vala's sizeof() returns ulong which won't convert implicitly
	// to it. Declaring it as int64 keeps the implicit conversion.
	c.outln("\t// XXX: Actually it's `long`, widened so vala sizeof() converts")
	c.outln("\t[SimpleType] public struct khronos_ssize_t : int64 {}")
	c.outln("\t[SimpleType] public struct khronos_usize_t : ulong {}")
	c.outln("\t[SimpleType] public struct khronos_utime_nanoseconds_t : uint64 {}")
	c.outln("\t[SimpleType] public struct khronos_stime_nanoseconds_t : int64 {}")
	c.outln("\tpublic const int KHRONOS_MAX_ENUM;")
	c.outln("\tpublic enum khronos_boolean_enum_t {")
	c.outln("\t    [CCode(cname = \"KHRONOS_FALSE\")] FALSE,")
	c.outln("\t    [CCode(cname = \"KHRONOS_TRUE\")] TRUE,")
	c.outln("\t    [CCode(cname = \"KHRONOS_BOOLEAN_ENUM_FORCE_SIZE\")] FORCE_SIZE,")
	c.outln("\t}")
	c.outln("")
}

// writeVapiSpecialTypes hand-writes the types whose typedefs don't map to
// a Vala base type.
func writeVapiSpecialTypes(c *codeWriter) {
	c.outln("\t[CCode (cname = \"GLsync\", cprefix = \"\")]")
	c.outln("\t[Compact]")
	c.outln("\tpublic class GLsync {\n\t}")
	c.outln("\t[CCode (cname = \"GLhandleARB\", cprefix = \"\")]")
	c.outln("\t[SimpleType]")
	c.outln("\tpublic struct GLhandleARB : uint {\n\t}")

	c.outln("\t[CCode (cname = \"struct _cl_context\", cprefix = \"\")]")
	c.outln("\t[SimpleType]")
	c.outln("\tpublic struct _cl_context {\n\t}")
	c.outln("\t[CCode (cname = \"_cl_event\", cprefix = \"\")]")
	c.outln("\t[SimpleType]")
	c.outln("\tpublic struct _cl_event {\n\t}")
}

func writeVapiTypedefs(c *codeWriter, res *gen.Result) {
	for _, t := range res.Registry.Typedefs {
		switch {
		case !t.APIEntry && t.Name != "" && t.Name != "GLhandleARB" && t.Name != "GLsync" && t.Prefix != "":
			ctype := vapiExtractCType(t.Prefix)
			switch ctype {
			case "void *":
				// void* types are meant to be classes.
				c.outlnf("\t[CCode (cname = \"%s\", cprefix = \"\")]", t.Name)
				c.outln("\t[Compact]")
				c.outlnf("\tpublic class %s {\n\t}", t.Name)
			case "void ":
				// void is not a valid type to inherit in vala.
				c.outlnf("\t[CCode (cname = \"%s\", cprefix = \"\")]", t.Name)
				c.outln("\t[SimpleType]")
				c.outlnf("\tpublic struct %s {\n\t}", t.Name)
			default:
				c.outlnf("\t[CCode (cname = \"%s\", cprefix = \"\")]", t.Name)
				c.outln("\t[SimpleType]")
				c.outlnf("\tpublic struct %s : %s {\n\t}", t.Name, ctype)
			}
		case t.APIEntry:
			c.outlnf("\t[CCode (cname = \"%s\", cprefix = \"\", has_target=\"false\")]", t.Name)
			c.outlnf("\tpublic delegate %s %s %s",
				vapiExtractCType(t.Prefix), t.Name, vapiRemoveInvalidArgs(t.Postfix[1:]))
		}
	}
	c.outln("")
}

// writeVapiGroups declares one Vala enum per registry enum group. Group
// names come from a map, so they are emitted in sorted order.
func writeVapiGroups(c *codeWriter, res *gen.Result) {
	c.outln("// Element names for vala are subject to change")
	c.outln("// Sadly it's hard to differ usual enums from bitfields to set [Flags] attribute")

	names := make([]string, 0, len(res.Registry.Groups))
	for name := range res.Registry.Groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, group := range names {
		c.outln("\t[CCode (cname = \"int\", cprefix = \"\", has_type_id = false)]")
		c.outlnf("\tpublic enum %s {", group)
		for _, elem := range res.Registry.Groups[group] {
			c.outlnf("\t\t [CCode (cname = \"%s\")] %s,", elem, elem)
		}
		c.outln("\t}")
	}
	c.outln("")
}

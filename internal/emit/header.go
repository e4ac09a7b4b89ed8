// SPDX-License-Identifier: MIT

package emit

import (
	"io"
	"sort"
	"strings"

	"github.com/m-shinder/libepoxy/internal/gen"
)

// Header writes the generated C header: version and extension defines,
// typedefs, enum constants, function pointer typedefs, and the public
// dispatch pointer declarations with their call-rewriting macros.
func Header(w io.Writer, res *gen.Result) error {
	c := newCodeWriter(w)

	c.outln("/* GL dispatch header.")
	c.outln(" * This is code-generated from the GL API XML files from Khronos.")
	copyrightBody(c, res.Registry.Comment)
	c.outln(" */")
	c.outln("")

	c.outln("#pragma once")
	c.outln("#include <inttypes.h>")
	c.outln("#include <stddef.h>")
	c.outln("")

	c.outln(`#include "epoxy/common.h"`)

	switch res.Target {
	case "gl":
		writeKhrplatformTypes(c)
	default:
		c.outln(`#include "epoxy/gl.h"`)
		if res.Target == "egl" {
			c.outln(`#include "EGL/eglplatform.h"`)
			// Account for older eglplatform.h, which doesn't define
			// the EGL_CAST macro.
			c.outln("#ifndef EGL_CAST")
			c.outln("#if defined(__cplusplus)")
			c.outln("#define EGL_CAST(type, value) (static_cast<type>(value))")
			c.outln("#else")
			c.outln("#define EGL_CAST(type, value) ((type) (value))")
			c.outln("#endif")
			c.outln("#endif")
		}
	}

	if res.Target == "glx" {
		c.outln("#include <X11/Xlib.h>")
		c.outln("#include <X11/Xutil.h>")
	}

	for _, t := range res.Registry.Typedefs {
		c.out(typedefText(t))
	}
	c.outln("")
	writeEnums(c, res)
	c.outln("")
	writeFunctionPtrTypedefs(c, res)

	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("EPOXY_PUBLIC %s (EPOXY_CALLSPEC *epoxy_%s)(%s);", f.ReturnType, f.Name, f.ArgsDecl())
		c.outln("")
	}

	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("#define %s epoxy_%s", f.Name, f.Name)
	}

	return c.flush()
}

// writeKhrplatformTypes inlines the khrplatform.h declarations the GL
// typedefs depend on. The real header is absent on many systems and
// detecting that from C preprocessor conditionals is not practical.
func writeKhrplatformTypes(c *codeWriter) {
	c.outln("#define __khrplatform_h_ 1")
	c.outln("typedef int8_t khronos_int8_t;")
	c.outln("typedef int16_t khronos_int16_t;")
	c.outln("typedef int32_t khronos_int32_t;")
	c.outln("typedef int64_t khronos_int64_t;")
	c.outln("typedef uint8_t khronos_uint8_t;")
	c.outln("typedef uint16_t khronos_uint16_t;")
	c.outln("typedef uint32_t khronos_uint32_t;")
	c.outln("typedef uint64_t khronos_uint64_t;")
	c.outln("typedef float khronos_float_t;")
	c.outln("#ifdef _WIN64")
	c.outln("typedef signed   long long int khronos_intptr_t;")
	c.outln("typedef unsigned long long int khronos_uintptr_t;")
	c.outln("typedef signed   long long int khronos_ssize_t;")
	c.outln("typedef unsigned long long int khronos_usize_t;")
	c.outln("#else")
	c.outln("typedef signed   long int      khronos_intptr_t;")
	c.outln("typedef unsigned long int      khronos_uintptr_t;")
	c.outln("typedef signed   long int      khronos_ssize_t;")
	c.outln("typedef unsigned long int      khronos_usize_t;")
	c.outln("#endif")
	c.outln("typedef uint64_t khronos_utime_nanoseconds_t;")
	c.outln("typedef int64_t khronos_stime_nanoseconds_t;")
	c.outln("#define KHRONOS_MAX_ENUM 0x7FFFFFFF")
	c.outln("typedef enum {")
	c.outln("    KHRONOS_FALSE = 0,")
	c.outln("    KHRONOS_TRUE  = 1,")
	c.outln("    KHRONOS_BOOLEAN_ENUM_FORCE_SIZE = KHRONOS_MAX_ENUM")
	c.outln("} khronos_boolean_enum_t;")
}

func writeEnums(c *codeWriter, res *gen.Result) {
	for _, name := range res.Versions {
		c.outlnf("#define %s 1", name)
	}
	c.outln("")

	for _, name := range res.Extensions {
		c.outlnf("#define %s 1", name)
	}
	c.outln("")

	// Sort by value first (which puts a bunch of things in a logical
	// order), then by name within equal values. Values are compared as
	// strings; registry values share a format within a range.
	names := make([]string, 0, len(res.Registry.Enums))
	for name := range res.Registry.Enums {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return res.Registry.Enums[names[i]] < res.Registry.Enums[names[j]]
	})

	pad := res.Registry.MaxEnumNameLen + 3
	for _, name := range names {
		padded := name + strings.Repeat(" ", pad-len(name))
		c.outln("#define " + padded + res.Registry.Enums[name])
	}
}

func writeFunctionPtrTypedefs(c *codeWriter, res *gen.Result) {
	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("typedef %s (GLAPIENTRY *%s)(%s);", f.ReturnType, f.PtrType(), f.ArgsDecl())
	}
}

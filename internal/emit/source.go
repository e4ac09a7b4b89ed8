// SPDX-License-Identifier: MIT

package emit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/m-shinder/libepoxy/internal/gen"
	"github.com/m-shinder/libepoxy/pkg/dispatch"
)

// ErrEnumOffsetOverflow reports a provider name table too large for the
// uint16_t offsets the generated code indexes it with.
var ErrEnumOffsetOverflow = errors.New("provider name table exceeds 16-bit offsets")

// Source writes the generated C source: the dispatch table struct, the
// provider tables, the shared resolver, one resolver stub per function,
// the self-patching thunks, and the thread-local dispatch table plumbing.
func Source(w io.Writer, res *gen.Result) error {
	tables, err := newStringTables(res)
	if err != nil {
		return err
	}

	c := newCodeWriter(w)

	c.outln("/* GL dispatch code.")
	c.outln(" * This is code-generated from the GL API XML files from Khronos.")
	copyrightBody(c, res.Registry.Comment)
	c.outln(" */")
	c.outln("")
	c.outln(`#include "config.h"`)
	c.outln("")
	c.outln("#include <stdlib.h>")
	c.outln("#include <string.h>")
	c.outln("#include <stdio.h>")
	c.outln("")
	c.outln(`#include "dispatch_common.h"`)
	c.outlnf(`#include "epoxy/%s.h"`, res.Target)
	c.outln("")
	c.outln("#ifdef __GNUC__")
	c.outln("#define EPOXY_NOINLINE __attribute__((noinline))")
	c.outln("#elif defined (_MSC_VER)")
	c.outln("#define EPOXY_NOINLINE __declspec(noinline)")
	c.outln("#endif")

	c.outln("struct dispatch_table {")
	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("    %s epoxy_%s;", f.PtrType(), f.WrappedName())
	}
	c.outln("};")
	c.outln("")

	// Early declaration, so the real definition can sit at the bottom
	// while the per-call resolvers stay the first per-GL-call code a
	// reader finds.
	c.outln("#if USING_DISPATCH_TABLE")
	c.outln("static inline struct dispatch_table *")
	c.outln("get_dispatch_table(void);")
	c.outln("")
	c.outln("#endif")

	writeProviderEnums(c, res)
	writeProviderEnumStrings(c, res, tables)
	writeEntrypointStrings(c, res)
	writeProviderResolver(c, res)

	for _, plan := range res.Plans {
		writeFunctionPtrResolver(c, res, plan, tables)
	}

	for _, f := range res.Model.SortedFunctions() {
		writeThunks(c, f)
	}
	c.outln("")

	c.outln("#if USING_DISPATCH_TABLE")
	c.outln("")
	c.outln("static struct dispatch_table resolver_table = {")
	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("    epoxy_%s_dispatch_table_rewrite_ptr, /* %s */", f.WrappedName(), f.WrappedName())
	}
	c.outln("};")
	c.outln("")

	c.outlnf("uint32_t %s_tls_index;", res.Target)
	c.outlnf("uint32_t %s_tls_size = sizeof(struct dispatch_table);", res.Target)
	c.outln("")

	c.outln("static inline struct dispatch_table *")
	c.outln("get_dispatch_table(void)")
	c.outln("{")
	c.outlnf("	return TlsGetValue(%s_tls_index);", res.Target)
	c.outln("}")
	c.outln("")

	c.outln("void")
	c.outlnf("%s_init_dispatch_table(void)", res.Target)
	c.outln("{")
	c.outln("    struct dispatch_table *dispatch_table = get_dispatch_table();")
	c.outln("    memcpy(dispatch_table, &resolver_table, sizeof(resolver_table));")
	c.outln("}")
	c.outln("")

	c.outln("void")
	c.outlnf("%s_switch_to_dispatch_table(void)", res.Target)
	c.outln("{")
	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("    epoxy_%s = epoxy_%s_dispatch_table_thunk;", f.WrappedName(), f.WrappedName())
	}
	c.outln("}")
	c.outln("")

	c.outln("#endif /* !USING_DISPATCH_TABLE */")

	for _, f := range res.Model.SortedFunctions() {
		c.outlnf("%s epoxy_%s = epoxy_%s_global_rewrite_ptr;", f.PtrType(), f.WrappedName(), f.WrappedName())
		c.outln("")
	}

	return c.flush()
}

// stringTables holds the byte offsets of every provider label and entry
// point name within the two concatenated string blobs the generated code
// indexes into.
type stringTables struct {
	enumOffset  map[string]int
	entryOffset map[string]int
}

func newStringTables(res *gen.Result) (*stringTables, error) {
	t := &stringTables{
		enumOffset:  make(map[string]int),
		entryOffset: make(map[string]int),
	}

	offset := 0
	for _, p := range res.Interner.Providers() {
		t.enumOffset[p.Label] = offset
		offset += len(strings.ReplaceAll(p.Label, `\`, "")) + 1
	}
	// The generated tables index provider names with uint16_t.
	if offset >= 65536 {
		return nil, fmt.Errorf("%w: %d bytes", ErrEnumOffsetOverflow, offset)
	}

	offset = 0
	for _, f := range res.Model.SortedFunctions() {
		if _, ok := t.entryOffset[f.Name]; ok {
			continue
		}
		t.entryOffset[f.Name] = offset
		offset += len(f.Name) + 1
	}
	return t, nil
}

// writeProviderEnums declares the packed enum the resolver tables use to
// reference providers.
func writeProviderEnums(c *codeWriter, res *gen.Result) {
	c.outln("")
	c.outlnf("enum %s_provider {", res.Target)

	// A 0 value first, so provider arrays can be terminated.
	c.outlnf("    %s_provider_terminator = 0,", res.Target)
	for _, p := range res.Interner.Providers() {
		c.outlnf("    %s,", p.Ident)
	}
	c.outln("} PACKED;")
	c.outln("ENDPACKED")
	c.outln("")
}

// writeProviderEnumStrings emits the mapping from provider enums to the
// strings describing them, for resolution failure reports.
func writeProviderEnumStrings(c *codeWriter, res *gen.Result, t *stringTables) {
	c.outln("static const char *enum_string =")
	for _, p := range res.Interner.Providers() {
		c.outlnf("    \"%s\\0\"", p.Label)
	}
	c.outln("     ;")
	c.outln("")

	c.outln("static const uint16_t enum_string_offsets[] = {")
	c.outlnf("    -1, /* %s_provider_terminator, unused */", res.Target)
	for _, p := range res.Interner.Providers() {
		c.outlnf("    %d, /* %s */", t.enumOffset[p.Label], p.Label)
	}
	c.outln("};")
	c.outln("")
}

func writeEntrypointStrings(c *codeWriter, res *gen.Result) {
	c.outln("static const char entrypoint_strings[] = {")
	seen := make(map[string]bool)
	for _, f := range res.Model.SortedFunctions() {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		for _, ch := range f.Name {
			c.outlnf("   '%c',", ch)
		}
		c.outlnf("   0, // %s", f.Name)
	}
	c.outln("    0 };")
	c.outln("")
}

// writeProviderResolver emits the one shared resolver that walks a
// terminator-ended provider array, returning the first available
// provider's symbol, and the noinline single-provider shorthand.
func writeProviderResolver(c *codeWriter, res *gen.Result) {
	c.outlnf("static void *%s_provider_resolver(const char *name,", res.Target)
	c.outlnf("                                   const enum %s_provider *providers,", res.Target)
	c.outln("                                   const uint32_t *entrypoints)")
	c.outln("{")
	c.outln("    int i;")

	c.outlnf("    for (i = 0; providers[i] != %s_provider_terminator; i++) {", res.Target)
	c.outln("        const char *provider_name = enum_string + enum_string_offsets[providers[i]];")
	c.outln("        switch (providers[i]) {")
	c.outln("")

	for _, p := range res.Interner.Providers() {
		c.outlnf("        case %s:", p.Ident)
		c.outlnf("            if (%s)", p.Condition)
		c.outlnf("                return %s;", p.ExpandLoader("entrypoint_strings + entrypoints[i]"))
		c.outln("            break;")
	}

	c.outlnf("        case %s_provider_terminator:", res.Target)
	c.outln("            abort(); /* Not reached */")
	c.outln("        }")
	c.outln("    }")
	c.outln("")

	c.outln("    if (epoxy_resolver_failure_handler)")
	c.outln("        return epoxy_resolver_failure_handler(name);")
	c.outln("")

	// Without this report, an unresolvable function would be a blank
	// stub and a segfault for the application developer.
	c.outln(`    fprintf(stderr, "No provider of %s found.  Requires one of:\n", name);`)
	c.outlnf("    for (i = 0; providers[i] != %s_provider_terminator; i++) {", res.Target)
	c.outln(`        fprintf(stderr, "    %s\n", enum_string + enum_string_offsets[providers[i]]);`)
	c.outln("    }")
	c.outlnf("    if (providers[0] == %s_provider_terminator) {", res.Target)
	c.outln(`        fprintf(stderr, "    No known providers.  This is likely a bug "`)
	c.outln(`                        "in epoxygen code generation\n");`)
	c.outln("    }")
	c.outln("    abort();")
	c.outln("}")
	c.outln("")

	proto := fmt.Sprintf("%s_single_resolver(enum %s_provider provider, uint32_t entrypoint_offset)", res.Target, res.Target)
	c.outln("EPOXY_NOINLINE static void *")
	c.outlnf("%s;", proto)
	c.outln("")
	c.outln("static void *")
	c.outln(proto)
	c.outln("{")
	c.outlnf("    enum %s_provider providers[] = {", res.Target)
	c.outln("        provider,")
	c.outlnf("        %s_provider_terminator", res.Target)
	c.outln("    };")
	c.outlnf("    return %s_provider_resolver(entrypoint_strings + entrypoint_offset,", res.Target)
	c.outln("                                providers, &entrypoint_offset);")
	c.outln("}")
	c.outln("")
}

func writeFunctionPtrResolver(c *codeWriter, res *gen.Result, plan dispatch.Plan, t *stringTables) {
	f := plan.Function
	c.outlnf("static %s", f.PtrType())
	c.outlnf("epoxy_%s_resolver(void)", f.WrappedName())
	c.outln("{")

	if plan.Single {
		cand := plan.Candidates[0]
		c.outlnf("    return %s_single_resolver(%s, %d /* %s */);",
			res.Target, cand.Provider.Ident, t.entryOffset[f.Name], f.Name)
	} else {
		c.outlnf("    static const enum %s_provider providers[] = {", res.Target)
		for _, cand := range plan.Candidates {
			c.outlnf("        %s,", cand.Provider.Ident)
		}
		c.outlnf("        %s_provider_terminator", res.Target)
		c.outln("    };")

		c.outln("    static const uint32_t entrypoints[] = {")
		if len(plan.Candidates) > 0 {
			for _, cand := range plan.Candidates {
				c.outlnf("        %d /* \"%s\" */,", t.entryOffset[cand.Entry], cand.Entry)
			}
		} else {
			c.outln("        0 /* None */,")
		}
		c.outln("    };")

		c.outlnf("    return %s_provider_resolver(entrypoint_strings + %d /* \"%s\" */,",
			res.Target, t.entryOffset[f.Name], f.Name)
		c.outln("                                providers, entrypoints);")
	}

	c.outln("}")
	c.outln("")
}

// writeThunks emits the function that's initially plugged into the global
// function pointer, which resolves, updates the pointer, and calls down,
// plus the dispatch-table variant. Both come from macros in
// dispatch_common.h.
func writeThunks(c *codeWriter, f *dispatch.Function) {
	if f.ReturnType == "void" {
		c.outlnf("GEN_THUNKS(%s, (%s), (%s))", f.WrappedName(), f.ArgsDecl(), f.ArgsList())
	} else {
		c.outlnf("GEN_THUNKS_RET(%s, %s, (%s), (%s))", f.ReturnType, f.WrappedName(), f.ArgsDecl(), f.ArgsList())
	}
}

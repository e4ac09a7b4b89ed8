// SPDX-License-Identifier: MIT

package glregistry

type (
	// Typedef is a C type declaration reproduced verbatim in generated
	// headers. The declaration is split around its <name> element so
	// emitters can re-assemble it (and substitute the calling-convention
	// marker for function-pointer typedefs).
	Typedef struct {
		// Prefix is the declaration text before the type name.
		Prefix string
		// Name is the declared type name.
		Name string
		// Postfix is the declaration text after the type name.
		Postfix string
		// APIEntry reports whether the declaration carries an <apientry/>
		// marker, i.e. it declares a function-pointer type that needs the
		// platform calling convention inserted.
		APIEntry bool
	}

	// Param is one ordered command parameter.
	Param struct {
		// Type is the full C type text (e.g. "const GLfloat *").
		Type string
		// Name is the parameter name.
		Name string
		// Group is the semantic enum group for GLenum/GLbitfield typed
		// parameters, empty otherwise.
		Group string
	}

	// Command is one API entry point as declared by the registry.
	Command struct {
		// Name is the command name (e.g. "glBindVertexArray").
		Name string
		// ReturnType is the C return type text.
		ReturnType string
		// Params are the ordered parameters.
		Params []Param
		// Alias is the declared alias target name, empty when the command
		// aliases nothing. Alias references may appear before the target
		// command is declared.
		Alias string
	}

	// Feature is a version block: the set of commands introduced by one
	// numbered version of one platform family.
	Feature struct {
		// API is the raw family tag (e.g. "gl", "gles2", "glx").
		API string
		// Name is the feature define name (e.g. "GL_VERSION_2_0").
		Name string
		// Number is the dotted version string (e.g. "2.0").
		Number string
		// Version is the numeric version, major*10+minor.
		Version int
		// Commands are the entry points this feature requires.
		Commands []string
	}

	// Extension is an optional capability block, possibly applicable to
	// several families at once.
	Extension struct {
		// Name is the extension name (e.g. "GL_ARB_vertex_array_object").
		Name string
		// Supported lists the family tags the extension applies to.
		Supported []string
		// Commands are the entry points this extension requires.
		Commands []string
	}

	// Registry is the parsed registry document.
	Registry struct {
		// Comment is the registry copyright comment, reproduced in
		// generated file headers.
		Comment string
		// Typedefs are the type declarations, in document order.
		Typedefs []Typedef
		// Enums maps constant names to their literal values.
		Enums map[string]string
		// Groups maps group names to member constant names.
		Groups map[string][]string
		// MaxEnumNameLen is the longest enum constant name, used for
		// column alignment in generated headers.
		MaxEnumNameLen int
		// Commands are the declared commands, in document order.
		Commands []Command
		// Features are the version blocks, in document order.
		Features []Feature
		// Extensions are the extension blocks, in document order.
		Extensions []Extension
	}
)

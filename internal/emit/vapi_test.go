// SPDX-License-Identifier: MIT

package emit

import (
	"bytes"
	"strings"
	"testing"
)

func TestVapiGL(t *testing.T) {
	t.Parallel()

	res := runGL(t)
	got := render(t, func(b *bytes.Buffer) error { return Vapi(b, res) })

	wantContains(t, got,
		`[CCode (cheader_filename = "epoxy/gl.h")]`,
		"namespace GL {",
		"\t[SimpleType] public struct khronos_int8_t : int8 {}",
		"\t[SimpleType] public struct khronos_ssize_t : int64 {}",
		"\tpublic const int KHRONOS_MAX_ENUM;",
		"\tpublic class GLsync {",
		"\tpublic struct GLhandleARB : uint {",

		// Plain typedefs become simple types inheriting the Vala base
		// type, void* typedefs become compact classes, and apientry
		// typedefs become delegates.
		"\tpublic struct GLenum : uint  {",
		"\tpublic class GLeglImageOES {",
		"\tpublic delegate void GLDEBUGPROC (GLenum source);",

		"\tpublic const int GL_VERSION_1_0;",
		"\tpublic const int GL_EXT_framebuffer_object;",

		"\tpublic enum ClearBufferMask {",
		"\t\t [CCode (cname = \"GL_COLOR_BUFFER_BIT\")] GL_COLOR_BUFFER_BIT,",

		// Function pointer delegates.
		"\tpublic delegate void PFNGLCLEARPROC(GLbitfield mask);",
		"\tpublic delegate GLubyte * PFNGLGETSTRINGPROC(GLenum name);",
		"\tpublic delegate void PFNGLFLUSHPROC();",

		"\tGLsizei glSizeof<T>(T x);",

		// Raw epoxy_-prefixed declarations and the grouped-parameter
		// convenience declarations.
		"\tpublic void epoxy_glClear(GLbitfield mask);",
		"\tpublic GLubyte * epoxy_glGetString(GLenum name);",
		"\tpublic void glClear(ClearBufferMask mask);",
		"\tpublic void glBegin(GLenum mode);",
	)

	if !strings.HasSuffix(strings.TrimRight(got, "\n"), "}") {
		t.Error("namespace not closed")
	}
	if strings.Contains(got, "const GL") {
		t.Error("const qualifiers must be stripped for vala")
	}
}

func TestVapiHelpers(t *testing.T) {
	t.Parallel()

	t.Run("extract ctype", func(t *testing.T) {
		t.Parallel()
		cases := []struct{ in, want string }{
			{"typedef unsigned int ", "uint "},
			{"typedef unsigned char ", "uchar "},
			{"typedef void (", "void"},
			{"typedef void *", "void *"},
			{"typedef float ", "float "},
			{"short", ""},
		}
		for _, tc := range cases {
			if got := vapiExtractCType(tc.in); got != tc.want {
				t.Errorf("vapiExtractCType(%q) = %q, want %q", tc.in, got, tc.want)
			}
		}
	})

	t.Run("remove invalid args", func(t *testing.T) {
		t.Parallel()
		cases := []struct{ in, want string }{
			{"void", ""},
			{"(void)", "()"},
			{"const GLfloat * v", "GLfloat * v"},
			{"const GLchar *const* strings", "GLchar ** strings"},
			{"struct _cl_context * context", "_cl_context * context"},
		}
		for _, tc := range cases {
			if got := vapiRemoveInvalidArgs(tc.in); got != tc.want {
				t.Errorf("vapiRemoveInvalidArgs(%q) = %q, want %q", tc.in, got, tc.want)
			}
		}
	})

	t.Run("fix ret type", func(t *testing.T) {
		t.Parallel()
		if got := vapiFixRetType("const GLubyte *"); got != "GLubyte *" {
			t.Errorf("vapiFixRetType = %q", got)
		}
	})
}

// SPDX-License-Identifier: MIT

package gen

import (
	"errors"
	"reflect"
	"testing"

	"github.com/m-shinder/libepoxy/pkg/dispatch"
	"github.com/m-shinder/libepoxy/pkg/glregistry"
)

func glParam(typ, name string) glregistry.Param {
	return glregistry.Param{Type: typ, Name: name}
}

// testGLRegistry models a small slice of gl.xml: a bootstrap function, a
// plain 1.0 entry point, a wrapped entry point, a near-alias pair split
// between core and an extension, a command with an unloadable parameter
// type, a block-listed command, and a glsc2 feature that must be skipped
// before its require list is examined.
func testGLRegistry() *glregistry.Registry {
	return &glregistry.Registry{
		Commands: []glregistry.Command{
			{Name: "glGetString", ReturnType: "const GLubyte *", Params: []glregistry.Param{glParam("GLenum", "name")}},
			{Name: "glClear", ReturnType: "void", Params: []glregistry.Param{glParam("GLbitfield", "mask")}},
			{Name: "glBegin", ReturnType: "void", Params: []glregistry.Param{glParam("GLenum", "mode")}},
			{Name: "glBindFramebuffer", ReturnType: "void", Params: []glregistry.Param{glParam("GLenum", "target"), glParam("GLuint", "framebuffer")}},
			{Name: "glBindFramebufferEXT", ReturnType: "void", Params: []glregistry.Param{glParam("GLenum", "target"), glParam("GLuint", "framebuffer")}},
			{Name: "glXVideoWeirdSGIX", ReturnType: "void", Params: []glregistry.Param{glParam("VLServer", "server")}},
			{Name: "wglUseFontBitmaps", ReturnType: "BOOL", Params: nil},
		},
		Features: []glregistry.Feature{
			{API: "gl", Name: "GL_VERSION_1_0", Number: "1.0", Version: 10,
				Commands: []string{"glGetString", "glClear", "glBegin"}},
			{API: "gl", Name: "GL_VERSION_3_0", Number: "3.0", Version: 30,
				Commands: []string{"glBindFramebuffer"}},
			{API: "glsc2", Name: "GL_SC_VERSION_2_0", Number: "2.0", Version: 20,
				Commands: []string{"glNeverDeclared"}},
		},
		Extensions: []glregistry.Extension{
			{Name: "GL_EXT_framebuffer_object", Supported: []string{"gl"},
				Commands: []string{"glBindFramebufferEXT"}},
			{Name: "GLX_SGIX_video_source", Supported: []string{"glx"},
				Commands: []string{"glXVideoWeirdSGIX"}},
		},
	}
}

func planByName(t *testing.T, res *Result, name string) dispatch.Plan {
	t.Helper()
	for _, p := range res.Plans {
		if p.Function.Name == name {
			return p
		}
	}
	t.Fatalf("no plan for %s", name)
	return dispatch.Plan{}
}

func TestRunGLPipeline(t *testing.T) {
	t.Parallel()

	res, err := Run("gl", testGLRegistry(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Filters remove the block-listed command and the one with an
	// unloadable parameter type.
	for _, gone := range []string{"wglUseFontBitmaps", "glXVideoWeirdSGIX"} {
		if _, ok := res.Model.Lookup(gone); ok {
			t.Errorf("%s should have been filtered out", gone)
		}
	}

	// Version defines cover every declared feature, including skipped
	// families.
	wantVersions := []string{"GL_SC_VERSION_2_0", "GL_VERSION_1_0", "GL_VERSION_3_0"}
	if !reflect.DeepEqual(res.Versions, wantVersions) {
		t.Errorf("Versions = %v, want %v", res.Versions, wantVersions)
	}
	wantExts := []string{"GLX_SGIX_video_source", "GL_EXT_framebuffer_object"}
	if !reflect.DeepEqual(res.Extensions, wantExts) {
		t.Errorf("Extensions = %v, want %v", res.Extensions, wantExts)
	}

	// Bootstrap fixup: glGetString ends up with exactly the pinned
	// provider, regardless of the version binding it got first.
	boot := planByName(t, res, "glGetString")
	if !boot.Single {
		t.Fatalf("glGetString should have a single candidate, got %d", len(boot.Candidates))
	}
	bp := boot.Candidates[0].Provider
	if bp.Label != "always present" || bp.Condition != "true" {
		t.Errorf("bootstrap provider = %+v", bp)
	}
	if bp.Loader != "epoxy_get_bootstrap_proc_address({0})" {
		t.Errorf("bootstrap loader = %q", bp.Loader)
	}

	// Plain 1.0 entry point gets the unversioned desktop provider.
	clear := planByName(t, res, "glClear")
	if !clear.Single {
		t.Fatalf("glClear should have a single candidate")
	}
	cp := clear.Candidates[0].Provider
	if cp.Label != "Desktop OpenGL 1.0" || cp.Condition != "epoxy_is_desktop_gl()" {
		t.Errorf("glClear provider = %+v", cp)
	}
	if cp.Loader != "epoxy_get_core_proc_address({0}, 10)" {
		t.Errorf("glClear loader = %q", cp.Loader)
	}

	// The wrapped entry point keeps its bindings but loses its name.
	begin, _ := res.Model.Lookup("glBegin")
	if !begin.Wrapped || begin.WrappedName() != "glBegin_unwrapped" {
		t.Errorf("glBegin wrapped handling broken: %+v", begin)
	}

	// Near-alias fallback: the core function's plan includes the EXT
	// sibling even though the registry never declares them aliases.
	fb := planByName(t, res, "glBindFramebuffer")
	if len(fb.Candidates) != 2 {
		t.Fatalf("glBindFramebuffer candidates = %d, want 2", len(fb.Candidates))
	}
	if fb.Candidates[0].Provider.Label != "Desktop OpenGL 3.0" {
		t.Errorf("first candidate = %q", fb.Candidates[0].Provider.Label)
	}
	if fb.Candidates[1].Entry != "glBindFramebufferEXT" {
		t.Errorf("fallback entry = %q", fb.Candidates[1].Entry)
	}

	// Versioned desktop providers carry the conservative version gate.
	if got := fb.Candidates[0].Provider.Condition; got != "epoxy_is_desktop_gl() && epoxy_conservative_gl_version() >= 30" {
		t.Errorf("GL 3.0 condition = %q", got)
	}
}

func TestRunUndeclaredCommand(t *testing.T) {
	t.Parallel()

	reg := &glregistry.Registry{
		Features: []glregistry.Feature{
			{API: "gl", Name: "GL_VERSION_1_0", Number: "1.0", Version: 10,
				Commands: []string{"glMissing"}},
		},
	}
	_, err := Run("gl", reg, Options{})
	if !errors.Is(err, ErrUndeclaredCommand) {
		t.Fatalf("err = %v, want ErrUndeclaredCommand", err)
	}
	var ue *UndeclaredCommandError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %T", err)
	}
	if ue.Block != "GL_VERSION_1_0" || ue.Command != "glMissing" {
		t.Errorf("error = %+v", ue)
	}
}

func TestRunWGLPrefixFilter(t *testing.T) {
	t.Parallel()

	reg := &glregistry.Registry{
		Commands: []glregistry.Command{
			{Name: "wglCreateContext", ReturnType: "HGLRC", Params: []glregistry.Param{glParam("HDC", "hDc")}},
			{Name: "ChoosePixelFormat", ReturnType: "int", Params: []glregistry.Param{glParam("HDC", "hDc")}},
		},
		Features: []glregistry.Feature{
			{API: "wgl", Name: "WGL_VERSION_1_0", Number: "1.0", Version: 10,
				Commands: []string{"wglCreateContext", "ChoosePixelFormat"}},
		},
	}
	res, err := Run("wgl", reg, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := res.Model.Lookup("ChoosePixelFormat"); ok {
		t.Error("gdi32 function should have been dropped for the wgl target")
	}
	plan := planByName(t, res, "wglCreateContext")
	if plan.Candidates[0].Provider.Label != "WGL 10" {
		t.Errorf("provider = %q", plan.Candidates[0].Provider.Label)
	}
}

func TestTargetFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"gl.xml", "gl"},
		{"registry/glx.xml", "glx"},
		{"/abs/path/egl.xml", "egl"},
		{"wgl", "wgl"},
	}
	for _, tt := range tests {
		if got := TargetFromPath(tt.path); got != tt.want {
			t.Errorf("TargetFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// SPDX-License-Identifier: MIT

package dispatch

import "testing"

func TestFunctionRendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fn       *Function
		ptrType  string
		argsDecl string
		argsList string
	}{
		{
			name:     "no parameters",
			fn:       NewFunction("glEnd", "void", nil, ""),
			ptrType:  "PFNGLENDPROC",
			argsDecl: "void",
			argsList: "",
		},
		{
			name: "plain parameters",
			fn: NewFunction("glBindTexture", "void", []Param{
				{Type: "GLenum", Name: "target"},
				{Type: "GLuint", Name: "texture"},
			}, ""),
			ptrType:  "PFNGLBINDTEXTUREPROC",
			argsDecl: "GLenum target, GLuint texture",
			argsList: "target, texture",
		},
		{
			name: "handle argument cast",
			fn: NewFunction("glAttachObjectARB", "void", []Param{
				{Type: "GLhandleARB", Name: "containerObj"},
				{Type: "GLhandleARB", Name: "obj"},
			}, ""),
			ptrType:  "PFNGLATTACHOBJECTARBPROC",
			argsDecl: "GLhandleARB containerObj, GLhandleARB obj",
			argsList: "(uintptr_t)containerObj, (uintptr_t)obj",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.fn.PtrType(); got != tt.ptrType {
				t.Errorf("PtrType() = %q, want %q", got, tt.ptrType)
			}
			if got := tt.fn.ArgsDecl(); got != tt.argsDecl {
				t.Errorf("ArgsDecl() = %q, want %q", got, tt.argsDecl)
			}
			if got := tt.fn.ArgsList(); got != tt.argsList {
				t.Errorf("ArgsList() = %q, want %q", got, tt.argsList)
			}
		})
	}
}

func TestWrappedNaming(t *testing.T) {
	t.Parallel()

	plain := NewFunction("glFlush", "void", nil, "")
	if got := plain.WrappedName(); got != "glFlush" {
		t.Errorf("WrappedName() = %q, want %q", got, "glFlush")
	}
	if !plain.Public() {
		t.Error("plain function should keep public linkage")
	}

	wrapped := NewFunction("glBegin", "void", []Param{{Type: "GLenum", Name: "mode"}}, "")
	wrapped.Wrapped = true
	if got := wrapped.WrappedName(); got != "glBegin_unwrapped" {
		t.Errorf("WrappedName() = %q, want %q", got, "glBegin_unwrapped")
	}
	if wrapped.Public() {
		t.Error("wrapped function should not keep public linkage")
	}
}

func TestModelArena(t *testing.T) {
	t.Parallel()

	m := NewModel()
	for _, name := range []string{"glZzz", "glAaa", "glMmm"} {
		if err := m.Add(NewFunction(name, "void", nil, "")); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if err := m.Add(NewFunction("glAaa", "void", nil, "")); err == nil {
		t.Fatal("duplicate Add should fail")
	}

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if _, ok := m.Lookup("glMmm"); !ok {
		t.Fatal("Lookup(glMmm) should find the function")
	}

	sorted := m.SortedFunctions()
	want := []string{"glAaa", "glMmm", "glZzz"}
	for i, f := range sorted {
		if f.Name != want[i] {
			t.Errorf("SortedFunctions()[%d] = %s, want %s", i, f.Name, want[i])
		}
	}

	m.Drop("glMmm")
	if m.Len() != 2 {
		t.Fatalf("Len() after Drop = %d, want 2", m.Len())
	}
	if _, ok := m.Lookup("glMmm"); ok {
		t.Error("dropped function should not resolve")
	}
	if !m.Dropped("glMmm") {
		t.Error("Dropped(glMmm) should be true")
	}
	if m.Dropped("glNeverSeen") {
		t.Error("Dropped should be false for names never added")
	}

	// Indices held before the drop must stay valid.
	zzz, _ := m.Lookup("glZzz")
	if got := m.Root(zzz); got != zzz {
		t.Errorf("Root of unresolved self-alias = %s, want %s", got.Name, zzz.Name)
	}
}

func TestBindingReplacement(t *testing.T) {
	t.Parallel()

	f := NewFunction("glClear", "void", nil, "")
	f.AddBinding("Desktop OpenGL 1.0", "true", "core({0})", "glClear")
	f.AddBinding("GL_ARB_clear", "ext()", "ext({0})", "glClear")
	f.AddBinding("Desktop OpenGL 1.0", "false", "other({0})", "glClear")

	bs := f.Bindings()
	if len(bs) != 2 {
		t.Fatalf("len(Bindings()) = %d, want 2", len(bs))
	}
	if bs[0].Label != "Desktop OpenGL 1.0" || bs[0].Condition != "false" {
		t.Errorf("replaced binding should keep position 0 with new text, got %+v", bs[0])
	}
	if bs[1].Label != "GL_ARB_clear" {
		t.Errorf("Bindings()[1].Label = %q, want GL_ARB_clear", bs[1].Label)
	}

	f.ClearBindings()
	if len(f.Bindings()) != 0 {
		t.Error("ClearBindings should leave no bindings")
	}
	f.AddBinding("always present", "true", "boot({0})", "glClear")
	if len(f.Bindings()) != 1 {
		t.Error("binding after ClearBindings should attach")
	}
}

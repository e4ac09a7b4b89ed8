// SPDX-License-Identifier: MIT

package emit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/m-shinder/libepoxy/pkg/glregistry"
)

// Output file names per target.
func HeaderFileName(target string) string { return target + "_generated.h" }
func SourceFileName(target string) string { return target + "_generated_dispatch.c" }
func VapiFileName(target string) string   { return target + "_generated.vapi" }

// codeWriter accumulates generated text with a sticky error, so emitters
// can write straight-line code and check once at the end.
type codeWriter struct {
	w   *bufio.Writer
	err error
}

func newCodeWriter(w io.Writer) *codeWriter {
	return &codeWriter{w: bufio.NewWriter(w)}
}

func (c *codeWriter) out(text string) {
	if c.err != nil {
		return
	}
	_, c.err = c.w.WriteString(text)
}

func (c *codeWriter) outln(text string) {
	c.out(text)
	c.out("\n")
}

func (c *codeWriter) outlnf(format string, args ...any) {
	c.outln(fmt.Sprintf(format, args...))
}

func (c *codeWriter) flush() error {
	if c.err != nil {
		return c.err
	}
	return c.w.Flush()
}

// copyrightBody reproduces the registry copyright comment inside a C
// comment block, stopping at the divider line some registries carry.
func copyrightBody(c *codeWriter, comment string) {
	if comment == "" {
		return
	}
	for _, line := range strings.Split(comment, "\n") {
		if strings.Contains(line, "-----") {
			break
		}
		c.outln(" * " + line)
	}
}

// typedefText reassembles one registry typedef, inserting the calling
// convention marker for function-pointer declarations.
func typedefText(t glregistry.Typedef) string {
	apientry := ""
	if t.APIEntry {
		apientry = "APIENTRY *"
	}
	return t.Prefix + apientry + t.Name + t.Postfix + "\n"
}

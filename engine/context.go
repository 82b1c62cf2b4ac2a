package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/xlat/annotation"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
	"github.com/teranos/xlat/symbols"
)

// DefaultIndentUnit is one indentation level.
const DefaultIndentUnit = "    "

// Context is the translator's view of the running pass: the platform,
// effective definitions, display names, indentation and the request channel.
type Context struct {
	Platform string
	RunID    string
	Settings Settings
	Bundle   *model.Bundle

	resolver *annotation.Resolver
	logger   *zap.SugaredLogger

	unit    string
	depth   int
	pending []Request
}

func newContext(runID, platform string, settings Settings, b *model.Bundle, r *annotation.Resolver, log *zap.SugaredLogger, unit string) *Context {
	return &Context{
		Platform: platform,
		RunID:    runID,
		Settings: settings,
		Bundle:   b,
		resolver: r,
		logger:   log,
		unit:     unit,
	}
}

// Logger returns the run logger.
func (c *Context) Logger() *zap.SugaredLogger {
	return c.logger
}

// Definition returns the effective definition of node on this platform.
// Resolution problems were already reported by the engine; the definition
// is usable regardless.
func (c *Context) Definition(node model.Node) *annotation.Definition {
	def, _ := c.resolver.Resolve(node, c.Platform)
	return def
}

// Name returns the effective name of node.
func (c *Context) Name(node model.Node) string {
	return c.Definition(node).Name
}

// IsVisible reports whether node is shown on this platform.
func (c *Context) IsVisible(node model.Node) bool {
	return c.Definition(node).Visible
}

// DisplayName renders target as seen from caller.
func (c *Context) DisplayName(target, caller *model.Kind) string {
	return symbols.DisplayName(target, caller)
}

// DisplayTypeRef renders a type reference as seen from caller.
func (c *Context) DisplayTypeRef(ref metadata.TypeRef, caller *model.Kind) string {
	return symbols.DisplayTypeRef(ref, caller)
}

// Indent returns the current indentation.
func (c *Context) Indent() string {
	return strings.Repeat(c.unit, c.depth)
}

// Enter increments the indentation by one level.
func (c *Context) Enter() {
	c.depth++
}

// Exit decrements the indentation by one level.
func (c *Context) Exit() {
	if c.depth > 0 {
		c.depth--
	}
}

// Depth returns the current indentation level.
func (c *Context) Depth() int {
	return c.depth
}

func (c *Context) resetIndent() {
	c.depth = 0
}

func (c *Context) file(op FileOp, path string) {
	c.pending = append(c.pending, FileRequest{Op: op, Path: path})
}

func (c *Context) CreateDirectory(path string) { c.file(CreateDirectory, path) }
func (c *Context) ClearDirectory(path string) { c.file(ClearDirectory, path) }
func (c *Context) DeleteDirectory(path string) { c.file(DeleteDirectory, path) }
func (c *Context) CreateFile(path string) { c.file(CreateFile, path) }
func (c *Context) ClearFile(path string) { c.file(ClearFile, path) }
func (c *Context) DeleteFile(path string) { c.file(DeleteFile, path) }

// Write replaces the content of path.
func (c *Context) Write(path, content string) {
	c.pending = append(c.pending, ContentRequest{Op: Write, Path: path, Content: content})
}

// Append adds content to the end of path.
func (c *Context) Append(path, content string) {
	c.pending = append(c.pending, ContentRequest{Op: Append, Path: path, Content: content})
}

// AppendLine appends one indented line to path.
func (c *Context) AppendLine(path, line string) {
	c.Append(path, c.Indent()+line+"\n")
}

// take returns and clears the requests issued since the last take.
func (c *Context) take() []Request {
	out := c.pending
	c.pending = nil
	return out
}

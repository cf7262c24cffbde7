package mdhtml

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TagPair is the markup written when a construct opens and closes.
type TagPair struct {
	Start string
	End   string
}

// Markup is the full output table of a schema. It holds data only.
type Markup struct {
	Heading    [maxHeaderLevel]TagPair
	BlockQuote TagPair
	TaskDone   TagPair
	TaskTodo   TagPair
	// CodeBlock is reserved; no construct produces it yet.
	CodeBlock TagPair

	HeadingStyle    [maxHeaderLevel]string
	BlockQuoteStyle string
	TaskDoneStyle   string
	TaskTodoStyle   string
	CodeBlockStyle  string

	StyleOpen  string
	StyleClose string
}

// Tags returns the tag pair of c. None has an empty pair.
func (m *Markup) Tags(c Construct) TagPair {
	switch c.Kind {
	case KindHeader:
		if c.Level >= 1 && c.Level <= maxHeaderLevel {
			return m.Heading[c.Level-1]
		}
	case KindBlockQuote:
		return m.BlockQuote
	case KindTaskList:
		if c.Done {
			return m.TaskDone
		}
		return m.TaskTodo
	}
	return TagPair{}
}

// Style returns the style fragment for the construct index idx.
func (m *Markup) Style(idx int) string {
	switch {
	case idx >= 0 && idx < maxHeaderLevel:
		return m.HeadingStyle[idx]
	case idx == indexBlockQuote:
		return m.BlockQuoteStyle
	case idx == indexTaskDone:
		return m.TaskDoneStyle
	case idx == indexTaskTodo:
		return m.TaskTodoStyle
	default:
		return ""
	}
}

// Schema provides the named markup table used by the HTML renderer.
type Schema interface {
	Name() string
	Markup() Markup
}

type schema struct {
	name   string
	markup Markup
}

func (s schema) Name() string   { return s.name }
func (s schema) Markup() Markup { return s.markup }

// NewSchema returns a Schema from a Markup table.
func NewSchema(name string, markup Markup) Schema {
	return schema{name: name, markup: markup}
}

func headingPairs() [maxHeaderLevel]TagPair {
	var out [maxHeaderLevel]TagPair
	for i := range out {
		tag := fmt.Sprintf("h%d", i+1)
		out[i] = TagPair{Start: "<" + tag + ">", End: "</" + tag + ">"}
	}
	return out
}

var defaultMarkup = Markup{
	Heading:    headingPairs(),
	BlockQuote: TagPair{Start: `<div class="block-quote">`, End: "</div>"},
	TaskDone: TagPair{
		Start: `<div class="task-list-done"></div><span class="task-list-done-text">`,
		End:   "</span>",
	},
	TaskTodo: TagPair{
		Start: `<div class="task-list-todo"></div><span class="task-list-todo-text">`,
		End:   "</span>",
	},
	CodeBlock: TagPair{Start: `<div class="code-block">`, End: "</div>"},

	BlockQuoteStyle: `.block-quote {
	margin-top: 5px;
	border-left: 2px solid #666666;
	padding-left: 10px;
	color: #888888
}`,
	TaskDoneStyle: `.task-list-done {
	display: inline-block;
	border: black solid 1px;
	width: 10px;
	height: 10px
}

.task-list-done-text {
	font-style: italic
}`,
	TaskTodoStyle: `.task-list-todo {
	display: inline-block;
	background-color: black;
	width: 12px;
	height: 12px
}

.task-list-todo-text {
	font-style: italic
}`,
	CodeBlockStyle: `.code-block {
	background-color: #999999
}`,
	StyleOpen:  "<style>",
	StyleClose: "</style>",
}

var semanticMarkup = Markup{
	Heading:    headingPairs(),
	BlockQuote: TagPair{Start: "<blockquote>", End: "</blockquote>"},
	TaskDone: TagPair{
		Start: `<label class="task done"><input type="checkbox" checked disabled> `,
		End:   "</label>",
	},
	TaskTodo: TagPair{
		Start: `<label class="task"><input type="checkbox" disabled> `,
		End:   "</label>",
	},
	CodeBlock: TagPair{Start: "<pre><code>", End: "</code></pre>"},

	HeadingStyle: [maxHeaderLevel]string{
		"h1 { font-size: 2em; margin: 0.67em 0 }",
		"h2 { font-size: 1.5em; margin: 0.83em 0 }",
		"h3 { font-size: 1.17em; margin: 1em 0 }",
		"h4 { font-size: 1em; margin: 1.33em 0 }",
		"h5 { font-size: 0.83em; margin: 1.67em 0 }",
		"h6 { font-size: 0.67em; margin: 2.33em 0 }",
	},
	BlockQuoteStyle: "blockquote { margin: 0 0 0 1em; padding-left: 1em; border-left: 3px solid #d0d7de; color: #57606a }",
	TaskDoneStyle:   ".task.done { text-decoration: line-through }",
	TaskTodoStyle:   ".task { display: inline-block }",
	CodeBlockStyle:  "pre { background: #f6f8fa; padding: 1em }",
	StyleOpen:       "<style>",
	StyleClose:      "</style>",
}

var bareMarkup = Markup{
	Heading:    headingPairs(),
	BlockQuote: TagPair{Start: "<blockquote>", End: "</blockquote>"},
	TaskDone:   TagPair{Start: "[x] ", End: ""},
	TaskTodo:   TagPair{Start: "[ ] ", End: ""},
	CodeBlock:  TagPair{Start: "<pre>", End: "</pre>"},
	StyleOpen:  "<style>",
	StyleClose: "</style>",
}

var builtinSchemas = map[string]Schema{
	"default":  schema{name: "default", markup: defaultMarkup},
	"semantic": schema{name: "semantic", markup: semanticMarkup},
	"bare":     schema{name: "bare", markup: bareMarkup},
}

var schemaDescriptions = map[string]string{
	"default":  "Class-based div and span markup with the classic block quote and task list stylesheet. Only the rules for constructs that appear in the document are emitted.",
	"semantic": "Native blockquote elements and disabled checkbox inputs for task items, with a small typographic stylesheet for headings.",
	"bare":     "Plain elements and textual task markers. No style block is ever written.",
}

// AvailableSchemas returns the names of built-in schemas.
func AvailableSchemas() []string {
	names := make([]string, 0, len(builtinSchemas))
	for name := range builtinSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaDescription returns a one-paragraph description of a built-in schema.
func SchemaDescription(name string) string {
	return schemaDescriptions[name]
}

// SchemaByName returns a built-in schema by name.
func SchemaByName(name string) (Schema, bool) {
	if name == "" {
		return builtinSchemas["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	s, ok := builtinSchemas[normalized]
	return s, ok
}

// DefaultSchema returns the default built-in schema.
func DefaultSchema() Schema {
	return builtinSchemas["default"]
}

type schemaFileTag struct {
	Start *string `yaml:"start"`
	End   *string `yaml:"end"`
	Style *string `yaml:"style"`
}

func (t schemaFileTag) apply(pair *TagPair, style *string) {
	if t.Start != nil {
		pair.Start = *t.Start
	}
	if t.End != nil {
		pair.End = *t.End
	}
	if t.Style != nil && style != nil {
		*style = *t.Style
	}
}

type schemaFile struct {
	Name       string          `yaml:"name"`
	Base       string          `yaml:"base"`
	Headings   []schemaFileTag `yaml:"headings"`
	BlockQuote schemaFileTag   `yaml:"block_quote"`
	TaskDone   schemaFileTag   `yaml:"task_done"`
	TaskTodo   schemaFileTag   `yaml:"task_todo"`
	CodeBlock  schemaFileTag   `yaml:"code_block"`
	StyleOpen  *string         `yaml:"style_open"`
	StyleClose *string         `yaml:"style_close"`
}

// LoadSchema reads a YAML schema definition. Fields left out keep the value
// of the base schema, which is "default" unless the file names another
// built-in.
func LoadSchema(r io.Reader) (Schema, error) {
	var f schemaFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("load schema: empty document")
		}
		return nil, fmt.Errorf("load schema: %w", err)
	}
	base, ok := SchemaByName(f.Base)
	if !ok {
		return nil, fmt.Errorf("load schema: unknown base schema %q", f.Base)
	}
	if len(f.Headings) > maxHeaderLevel {
		return nil, fmt.Errorf("load schema: %d headings defined, at most %d allowed", len(f.Headings), maxHeaderLevel)
	}
	m := base.Markup()
	for i, h := range f.Headings {
		h.apply(&m.Heading[i], &m.HeadingStyle[i])
	}
	f.BlockQuote.apply(&m.BlockQuote, &m.BlockQuoteStyle)
	f.TaskDone.apply(&m.TaskDone, &m.TaskDoneStyle)
	f.TaskTodo.apply(&m.TaskTodo, &m.TaskTodoStyle)
	f.CodeBlock.apply(&m.CodeBlock, &m.CodeBlockStyle)
	if f.StyleOpen != nil {
		m.StyleOpen = *f.StyleOpen
	}
	if f.StyleClose != nil {
		m.StyleClose = *f.StyleClose
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = "custom"
	}
	return NewSchema(name, m), nil
}

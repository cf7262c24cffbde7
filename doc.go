// Package mdhtml converts a small Markdown subset to HTML as a stream.
//
// Input is pulled through three stages. A Decoder reads the source in
// bounded chunks and yields whole UTF-8 units, carrying a unit that is split
// across two reads. A Tokenizer turns units into tokens, matching structural
// markers (headers, block quotes and task list items) at the start of a line
// and replaying a failed match as plain text. A Parser drives a small state
// machine over the tokens and sends open, close and text events to a
// Renderer. Output is written as soon as it is known; no document is ever
// held in memory.
//
// Supported constructs:
//   - "# " through "###### " headers
//   - "> " block quotes, continuing until a blank line
//   - "- [ ] " and "- [x] " task list items
//   - "\" escapes for the following character
//
// Markup comes from a Schema. The built-in "default" schema uses class-based
// elements and appends one style block with the rules of the constructs that
// were actually used.
//
// Example:
//
//	reader := strings.NewReader("# Hello\n\n> Markdown in, HTML out.\n")
//	err := mdhtml.Render(mdhtml.RenderRequest{
//		Reader: reader,
//		Writer: os.Stdout,
//		Schema: mdhtml.DefaultSchema(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Rendering is customized with RenderOptions such as WithBufferSize,
// WithStrictUTF8 and WithSkipFrontMatter.
package mdhtml

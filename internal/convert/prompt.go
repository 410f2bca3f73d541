// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"text/template"
)

// Sentinel is the reserved marker the model emits when it considers the
// document fully converted. It is out-of-band: the prompt contract forbids
// it inside content, and the aggregator strips every occurrence from the
// final output.
const Sentinel = "[[END-OF-CONVERSION]]"

// firstChunkTmpl converts the opening chunk. It is the only request allowed
// to emit the YAML front matter block.
var firstChunkTmpl = template.Must(template.New("first").Parse(`You are a conversion engine that converts HTML to Markdown.
Rules:
{{if .IncludeHeader}}- Start the output with a YAML front matter block containing the following metadata exactly as provided:
{{.HeaderBlock}}
  * The YAML block must begin with a line with only '---', followed by key: "value" pairs (one per line), then a line with only '---', then an empty line.
  * Output exactly one YAML block; never repeat it in the body.
{{else}}- Do NOT output any YAML front matter.
{{end}}- Convert the HTML below to Markdown:
    - For <h1>, use "# ".
    - For <h2>, use "## ".
    - For <h3>, use "### ".
    - For paragraphs (<p>), use plain text.
    - For unordered lists (<ul> and <li>), use Markdown lists with "- ".
    - Do NOT include any raw HTML tags.
- The marker {{.Sentinel}} is reserved. Emit it on its own line only when the document is fully converted; never use it inside content.

Convert the following HTML to Markdown:
{{.ChunkHTML}}

Markdown Output:
`))

// continuationTmpl converts every later chunk, carrying the tail of the
// previous output for continuity of structure and tone.
var continuationTmpl = template.Must(template.New("continuation").Parse(`You are a conversion engine that continues converting HTML to Markdown from previous output.
Rules:
- Do NOT output any YAML front matter in this chunk.
- The HTML below begins with content you already converted; continue from where the previous Markdown ends without repeating it.
- Convert the HTML to Markdown:
    - For <h1>, use "# ".
    - For <h2>, use "## ".
    - For <h3>, use "### ".
    - For paragraphs (<p>), use plain text.
    - For unordered lists (<ul> and <li>), use Markdown lists with "- ".
    - Do NOT include any raw HTML tags.
- The marker {{.Sentinel}} is reserved. Emit it on its own line only when the document is fully converted; never use it inside content.

Previous Markdown:
{{.PreviousMarkdown}}

Now convert the following HTML to Markdown:
{{.ChunkHTML}}

Markdown Output:
`))

// promptData is the template payload for one conversion request.
type promptData struct {
	Request
	Sentinel string
}

// renderPrompt builds the instruction text for one request. The first
// window (no previous output) gets the front matter instructions; later
// windows get the continuation contract.
func renderPrompt(req Request) (string, error) {
	tmpl := continuationTmpl
	if req.PreviousMarkdown == "" {
		tmpl = firstChunkTmpl
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Request: req, Sentinel: Sentinel}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

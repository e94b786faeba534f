package mcpserver

// NoteFormatContract describes the header and link format produced by
// conversion.
const NoteFormatContract = `# zttl Note Format Contract

Converted notes are named ` + "`<timestamp>-<slug>.md`" + `, where the timestamp is the
note's 10-digit creation time in Unix seconds and the slug is the lowercase
title with ` + "`_`" + ` and ` + "`-`" + ` turned into spaces, every other character that is not
an ASCII letter, digit, or space removed, and spaces replaced by hyphens.

## Header

Conversion prepends exactly this block to the original content:

` + "```" + `markdown
---
id: 1700000000-my-note
aliases:
 - My Note
---

<original content>
` + "```" + `

## Links

After renaming, links to the old title are rewritten to the identifier and
keep a readable alias:

- ` + "`[[My Note]]`" + ` becomes ` + "`[[1700000000-my-note|My Note]]`" + `
- ` + "`[[My Note|shown text]]`" + ` becomes ` + "`[[1700000000-my-note|shown text]]`" + `

Matching ignores case. Only notes that were themselves converted have their
links rewritten. Files whose name contains ` + "`excalidraw`" + ` are never touched.
`

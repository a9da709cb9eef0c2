/*
Package template renders prompt templates with {name} placeholders.

# Overview

A prompt template is free text containing named placeholders written as
{name}. Names start with a letter or underscore and continue with letters,
digits or underscores. Doubled braces ({{ and }}) produce literal braces, so
JSON examples can be embedded in a prompt:

	t := template.Parse(`Reply as {{"answer": "..."}} to: {question}`)
	t.Variables() // ["question"]

# Rendering

Render substitutes every placeholder from a variable map:

	out, err := t.Render(map[string]any{"question": "Why is the sky blue?"})

A missing variable is an error (*UndefinedVariableError) naming every absent
placeholder; Missing reports the same names without rendering.

Values are formatted with fmt's %v verb.
*/
package template

// Package clusters maintains the prompt cluster block embedded in a
// generated JavaScript file.
//
// The block is a Markdown document held in a template literal:
//
//	const allPromptDataMarkdown = `
//	# Prompt Clusters Data
//	### animals
//	- terms: cat, dog
//	- associates: pet, fur
//	`;
//
// Terms are refreshed from the list sources on every merge; associates are
// curated by hand and only ever carried over.
package clusters

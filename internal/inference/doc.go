// Package inference forwards prompts to a hosted text2text model and optionally
// caches the generated output.
package inference

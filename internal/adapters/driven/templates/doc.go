// Package templates implements driven.TemplateRenderer with Go text/template.
//
// Default templates for each document kind (agent.md.j2, command.md.j2,
// skill.md.j2) are embedded in the binary. A user directory can override
// any of them file by file; templates missing from that directory fall
// back to the embedded defaults.
package templates

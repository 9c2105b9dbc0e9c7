// Package ui provides the client's minimal input surface: a message input
// and a send button, addressed by element id, plus a Console that drives
// them from line-oriented input such as a terminal.
package ui

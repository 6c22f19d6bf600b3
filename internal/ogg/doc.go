// Package ogg reads and rewrites the comment header of ogg/opus files.
// It understands just enough of the ogg container to locate the OpusTags packet,
// replace it, and renumber the pages that follow.
package ogg

/*
Package kaiseki tangles text for literate programming. Source documents
are ordinary text files that contain special marker lines, the anchors.
Anchors tell where the lines following them shall go in the output. The
tangled output is one linear sequence of lines built from all sources,
read in the order they are given.

Anchors are recognized anywhere in a line. Usually they are hidden
behind the comment leader of the language the document is written in:

	// ##[label(Imports)]
	;;; ##[insert]

There are four types of anchors:

	##[insert]        Following lines go to the current position
	##[label(NAME)]   Declares the insertion point NAME
	##[before(NAME)]  Following lines go in front of NAME's content
	##[after(NAME)]   Following lines go to the end of NAME's content

NAME consists of letters, digits, white space and '-'. Note that the
label used to match anchors includes the parentheses, i.e. the label of
"##[label(Imports)]" is "(Imports)".

# Blocks and Sections

Lines between two anchors, or between an anchor and the start or end of
a source, form a block. The blocks and labels read since the last
insert, before or after anchor form a section. When the next such anchor
or the end of the source is reached, the whole section is moved to its
target as one piece:

	insert  the top level sequence of the output
	before  the front of the labeled anchor's content
	after   the end of the labeled anchor's content

Each source starts in insert mode. A label anchor also ends the section
and switches back to insert mode. So, with two sources

	x
	##[label(Body)]
	y

and

	##[before(Body)]
	z
	##[insert]
	w

the output is "x", "z", "y", "w". Multiple before sections for the same
label appear in reverse order of reading, after sections in the order of
reading.

# Indentation

The content of an anchor is indented by the column of its label anchor.
For nested anchors the indentations add up.

	func main() {
	    // ##[label(main)]
	}

puts everything before or after "(main)" four columns to the right.

# Problems

Problems in the input do not stop tangling. They are collected as
*Problem values:

  - Lines that are not valid UTF-8 are dropped (ErrNotText).
  - Text that looks like an anchor but is not well-formed is kept as an
    ordinary line (ErrMalformedAnchor).
  - A second label with an existing name is ignored (ErrDuplicateAnchor).
  - Before and after anchors must refer to a label that was already
    read. Otherwise insert mode is used (ErrMissingTag).
*/
package kaiseki
